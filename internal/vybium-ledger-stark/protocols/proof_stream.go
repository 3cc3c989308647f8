package protocols

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"

	"github.com/vybium/vybium-ledger-stark/internal/vybium-ledger-stark/utils"
)

// ProofStream is the Fiat-Shamir transcript. The prover enqueues proof
// items and the verifier dequeues them in the same order; items whose
// type participates in the heuristic are absorbed into the Tip5 sponge
// as they pass through, so both sides sample identical indices exactly
// when the items match.
type ProofStream struct {
	Items      []ProofItem
	ItemsIndex int
	Sponge     *hash.Tip5
}

// NewProofStream creates an empty transcript with a fresh sponge
func NewProofStream() *ProofStream {
	return &ProofStream{
		Items:      make([]ProofItem, 0),
		ItemsIndex: 0,
		Sponge:     hash.Init(),
	}
}

// ProofStreamFromProof wraps a proof for verification. The sponge
// starts fresh; absorption happens as the verifier dequeues, which
// replays the prover's schedule exactly once per item.
func ProofStreamFromProof(proof *Proof) (*ProofStream, error) {
	if proof == nil {
		return nil, fmt.Errorf("cannot build a transcript from a nil proof")
	}
	if err := proof.Validate(); err != nil {
		return nil, fmt.Errorf("invalid proof: %w", err)
	}
	return &ProofStream{
		Items:      proof.Items,
		ItemsIndex: 0,
		Sponge:     hash.Init(),
	}, nil
}

// TranscriptLength returns the number of items in the transcript
func (ps *ProofStream) TranscriptLength() int {
	return len(ps.Items)
}

// AlterFiatShamirStateWith absorbs out-of-band data, most importantly
// the claim, without recording an item
func (ps *ProofStream) AlterFiatShamirStateWith(elements []field.Element) {
	ps.Sponge.PadAndAbsorbAll(elements)
}

// Enqueue appends an item and, for heuristic-relevant types, absorbs
// its encoding
func (ps *ProofStream) Enqueue(item ProofItem) error {
	if item.Type.IncludeInFiatShamirHeuristic() {
		encoded, err := item.Encode()
		if err != nil {
			return fmt.Errorf("failed to encode %s item: %w", item.Type, err)
		}
		ps.Sponge.PadAndAbsorbAll(encoded)
	}
	ps.Items = append(ps.Items, item)
	return nil
}

// Dequeue removes the next item, mirroring the absorption Enqueue
// performed on the prover's side
func (ps *ProofStream) Dequeue() (ProofItem, error) {
	if ps.ItemsIndex >= len(ps.Items) {
		return ProofItem{}, fmt.Errorf("transcript exhausted after %d items", len(ps.Items))
	}
	item := ps.Items[ps.ItemsIndex]
	ps.ItemsIndex++

	if item.Type.IncludeInFiatShamirHeuristic() {
		encoded, err := item.Encode()
		if err != nil {
			return ProofItem{}, fmt.Errorf("failed to encode %s item: %w", item.Type, err)
		}
		ps.Sponge.PadAndAbsorbAll(encoded)
	}
	return item, nil
}

// DequeueExpect removes the next item and checks its type
func (ps *ProofStream) DequeueExpect(expected ProofItemType) (ProofItem, error) {
	item, err := ps.Dequeue()
	if err != nil {
		return ProofItem{}, err
	}
	if item.Type != expected {
		return ProofItem{}, fmt.Errorf("expected %s item, got %s", expected, item.Type)
	}
	return item, nil
}

// Exhausted reports whether every item has been dequeued
func (ps *ProofStream) Exhausted() bool {
	return ps.ItemsIndex >= len(ps.Items)
}

// SampleIndices squeezes numIndices values in [0, upperBound) out of
// the sponge. The bound must be a power of two representable in the
// field.
func (ps *ProofStream) SampleIndices(upperBound int, numIndices int) ([]int, error) {
	if upperBound < 1 || !utils.IsPowerOfTwo(upperBound) {
		return nil, fmt.Errorf("upper bound must be a power of 2, got %d", upperBound)
	}
	if uint64(upperBound) > field.P-1 {
		return nil, fmt.Errorf("upper bound %d exceeds the field", upperBound)
	}

	raw := ps.Sponge.SampleIndices(uint32(upperBound), numIndices)
	indices := make([]int, len(raw))
	for i, r := range raw {
		indices[i] = int(r)
	}
	return indices, nil
}

// ToProof freezes the transcript into a proof
func (ps *ProofStream) ToProof() *Proof {
	items := make([]ProofItem, len(ps.Items))
	copy(items, ps.Items)
	return &Proof{Items: items}
}
