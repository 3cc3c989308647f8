package protocols

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/merkle"

	"github.com/vybium/vybium-ledger-stark/internal/vybium-ledger-stark/utils"
)

// LeafHashFunc absorbs a variable-length element sequence into a leaf
// digest
type LeafHashFunc func([]field.Element) hash.Digest

// CompressFunc combines two digests into one with a single permutation
type CompressFunc func(a, b hash.Digest) hash.Digest

// CompressDigests is the Tip5 2-to-1 node compression: the two digests
// exactly fill the permutation's 10-element rate.
func CompressDigests(a, b hash.Digest) hash.Digest {
	var input [10]field.Element
	copy(input[:hash.DigestLen], a[:])
	copy(input[hash.DigestLen:], b[:])
	return hash.Hash10(input)
}

// CommitmentScheme turns element rows into Merkle commitments. It is
// built from a leaf hash and a node compression during harness
// construction.
type CommitmentScheme struct {
	leafHash LeafHashFunc
	compress CompressFunc
}

// NewCommitmentScheme creates a scheme over the given hash roles
func NewCommitmentScheme(leafHash LeafHashFunc, compress CompressFunc) *CommitmentScheme {
	return &CommitmentScheme{leafHash: leafHash, compress: compress}
}

// LeafHash hashes one row of elements into a leaf digest
func (cs *CommitmentScheme) LeafHash(row []field.Element) hash.Digest {
	return cs.leafHash(row)
}

// Compress combines two digests into one
func (cs *CommitmentScheme) Compress(a, b hash.Digest) hash.Digest {
	return cs.compress(a, b)
}

// BuildTree commits to a power-of-two leaf sequence
func (cs *CommitmentScheme) BuildTree(leaves []hash.Digest) (*merkle.MerkleTree, error) {
	if !utils.IsPowerOfTwo(len(leaves)) {
		return nil, fmt.Errorf("leaf count must be a power of 2, got %d", len(leaves))
	}
	tree, err := merkle.New(leaves)
	if err != nil {
		return nil, fmt.Errorf("failed to build Merkle tree: %w", err)
	}
	return tree, nil
}

// CommitElements commits to a codeword, one element per leaf
func (cs *CommitmentScheme) CommitElements(values []field.Element) (hash.Digest, error) {
	leaves := make([]hash.Digest, len(values))
	for i, v := range values {
		leaves[i] = cs.leafHash([]field.Element{v})
	}
	tree, err := cs.BuildTree(leaves)
	if err != nil {
		return hash.Digest{}, err
	}
	return tree.Root(), nil
}

// CommitColumns commits to equally long columns, one row hash per leaf
func (cs *CommitmentScheme) CommitColumns(columns [][]field.Element) (hash.Digest, error) {
	if len(columns) == 0 {
		return hash.Digest{}, fmt.Errorf("nothing to commit to")
	}
	numRows := len(columns[0])
	for j, col := range columns {
		if len(col) != numRows {
			return hash.Digest{}, fmt.Errorf("column %d has %d rows, want %d", j, len(col), numRows)
		}
	}

	leaves := make([]hash.Digest, numRows)
	row := make([]field.Element, len(columns))
	for i := 0; i < numRows; i++ {
		for j := range columns {
			row[j] = columns[j][i]
		}
		leaves[i] = cs.leafHash(row)
	}

	tree, err := cs.BuildTree(leaves)
	if err != nil {
		return hash.Digest{}, err
	}
	return tree.Root(), nil
}
