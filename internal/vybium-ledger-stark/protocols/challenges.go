package protocols

import (
	"math/bits"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
)

// ChallengeChain derives scalar challenges from committed data.
//
// The state is a Tip5 digest. Absorbing compresses the previous state
// with the new material; squeezing iterates the permutation on the
// state to emit field elements. Prover and verifier drive identical
// chains from the same absorption schedule, so their challenges agree
// exactly when the proof items do.
type ChallengeChain struct {
	state    hash.Digest
	compress CompressFunc
}

// NewChallengeChain creates a chain seeded with the given digest
func NewChallengeChain(seed hash.Digest, compress CompressFunc) *ChallengeChain {
	return &ChallengeChain{state: seed, compress: compress}
}

// AbsorbDigest folds a commitment root into the chain state
func (cc *ChallengeChain) AbsorbDigest(d hash.Digest) {
	cc.state = cc.compress(cc.state, d)
}

// AbsorbElements folds an element sequence into the chain state
func (cc *ChallengeChain) AbsorbElements(elements []field.Element) {
	cc.AbsorbDigest(hash.HashVarlen(elements))
}

// Scalars squeezes n field elements out of the chain and advances the
// state so later draws are independent of these
func (cc *ChallengeChain) Scalars(n int) []field.Element {
	scalars := make([]field.Element, n)
	current := cc.state[0]
	for i := 0; i < n; i++ {
		scalars[i] = current
		var input [10]field.Element
		input[0] = current
		current = hash.Hash10(input)[0]
	}

	var input [10]field.Element
	copy(input[:hash.DigestLen], cc.state[:])
	input[hash.DigestLen] = current
	cc.state = hash.Hash10(input)

	return scalars
}

// Scalar squeezes a single field element
func (cc *ChallengeChain) Scalar() field.Element {
	return cc.Scalars(1)[0]
}

// Grind searches for the smallest nonce whose hash against the current
// state clears the difficulty target, then absorbs it
func (cc *ChallengeChain) Grind(difficultyBits int) field.Element {
	var nonce uint64
	for {
		candidate := field.New(nonce)
		if cc.nonceClearsTarget(candidate, difficultyBits) {
			cc.AbsorbElements([]field.Element{candidate})
			return candidate
		}
		nonce++
	}
}

// CheckGrind verifies a nonce against the current state and, on
// success, absorbs it exactly as Grind did
func (cc *ChallengeChain) CheckGrind(nonce field.Element, difficultyBits int) bool {
	if !cc.nonceClearsTarget(nonce, difficultyBits) {
		return false
	}
	cc.AbsorbElements([]field.Element{nonce})
	return true
}

func (cc *ChallengeChain) nonceClearsTarget(nonce field.Element, difficultyBits int) bool {
	material := make([]field.Element, 0, hash.DigestLen+1)
	material = append(material, cc.state[:]...)
	material = append(material, nonce)
	digest := hash.HashVarlen(material)
	return bits.LeadingZeros64(digest[0].Value()) >= difficultyBits
}
