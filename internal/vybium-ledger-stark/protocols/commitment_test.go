package protocols

import (
	"testing"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
)

func testScheme() *CommitmentScheme {
	return NewCommitmentScheme(func(input []field.Element) hash.Digest {
		return hash.HashVarlen(input)
	}, CompressDigests)
}

func testElements(values ...uint64) []field.Element {
	elements := make([]field.Element, len(values))
	for i, v := range values {
		elements[i] = field.New(v)
	}
	return elements
}

// TestCompressDigests tests the 2-to-1 node compression
func TestCompressDigests(t *testing.T) {
	a := hash.HashVarlen(testElements(1))
	b := hash.HashVarlen(testElements(2))

	if !digestsEqual(CompressDigests(a, b), CompressDigests(a, b)) {
		t.Error("compression is not deterministic")
	}
	if digestsEqual(CompressDigests(a, b), CompressDigests(b, a)) {
		t.Error("compression ignores operand order")
	}
	if digestsEqual(CompressDigests(a, b), a) || digestsEqual(CompressDigests(a, b), b) {
		t.Error("compression returned one of its inputs")
	}
}

// TestBuildTree tests leaf count validation and root stability
func TestBuildTree(t *testing.T) {
	scheme := testScheme()
	leaves := []hash.Digest{
		hash.HashVarlen(testElements(1)),
		hash.HashVarlen(testElements(2)),
		hash.HashVarlen(testElements(3)),
		hash.HashVarlen(testElements(4)),
	}

	tree, err := scheme.BuildTree(leaves)
	if err != nil {
		t.Fatalf("BuildTree failed: %v", err)
	}
	again, err := scheme.BuildTree(leaves)
	if err != nil {
		t.Fatalf("BuildTree failed on second call: %v", err)
	}
	if !digestsEqual(tree.Root(), again.Root()) {
		t.Error("same leaves produced different roots")
	}

	if _, err := scheme.BuildTree(leaves[:3]); err == nil {
		t.Error("BuildTree accepted 3 leaves, want error")
	}
}

// TestCommitElements tests codeword commitment
func TestCommitElements(t *testing.T) {
	scheme := testScheme()
	codeword := testElements(10, 20, 30, 40, 50, 60, 70, 80)

	root, err := scheme.CommitElements(codeword)
	if err != nil {
		t.Fatalf("CommitElements failed: %v", err)
	}
	again, err := scheme.CommitElements(codeword)
	if err != nil {
		t.Fatalf("CommitElements failed on second call: %v", err)
	}
	if !digestsEqual(root, again) {
		t.Error("commitment is not deterministic")
	}

	tampered := append([]field.Element(nil), codeword...)
	tampered[3] = field.New(41)
	tamperedRoot, err := scheme.CommitElements(tampered)
	if err != nil {
		t.Fatalf("CommitElements failed on tampered codeword: %v", err)
	}
	if digestsEqual(root, tamperedRoot) {
		t.Error("changing one element did not change the root")
	}

	if _, err := scheme.CommitElements(testElements(1, 2, 3, 4, 5, 6)); err == nil {
		t.Error("CommitElements accepted a length-6 codeword, want error")
	}
}

// TestCommitColumns tests row-major column commitment
func TestCommitColumns(t *testing.T) {
	scheme := testScheme()
	columns := [][]field.Element{
		testElements(1, 2, 3, 4),
		testElements(5, 6, 7, 8),
		testElements(9, 10, 11, 12),
	}

	root, err := scheme.CommitColumns(columns)
	if err != nil {
		t.Fatalf("CommitColumns failed: %v", err)
	}

	// Leaves hash rows, so swapping two columns changes the root.
	swapped := [][]field.Element{columns[1], columns[0], columns[2]}
	swappedRoot, err := scheme.CommitColumns(swapped)
	if err != nil {
		t.Fatalf("CommitColumns failed on swapped columns: %v", err)
	}
	if digestsEqual(root, swappedRoot) {
		t.Error("swapping columns did not change the root")
	}

	// A single column commits like the element-per-leaf codeword path.
	single := testElements(3, 1, 4, 1)
	columnRoot, err := scheme.CommitColumns([][]field.Element{single})
	if err != nil {
		t.Fatalf("CommitColumns failed on a single column: %v", err)
	}
	elementRoot, err := scheme.CommitElements(single)
	if err != nil {
		t.Fatalf("CommitElements failed: %v", err)
	}
	if !digestsEqual(columnRoot, elementRoot) {
		t.Error("single-column commitment disagrees with element commitment")
	}

	ragged := [][]field.Element{testElements(1, 2, 3, 4), testElements(5, 6)}
	if _, err := scheme.CommitColumns(ragged); err == nil {
		t.Error("CommitColumns accepted ragged columns, want error")
	}
	if _, err := scheme.CommitColumns(nil); err == nil {
		t.Error("CommitColumns accepted no columns, want error")
	}
}
