package protocols

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
)

// Claim states what a proof attests to: a trace of the given shape
// satisfies the AIR, with the given public values. The claim is bound
// into the transcript before any commitment, so prover and verifier
// cannot silently disagree on it.
type Claim struct {
	// TraceLength is the number of trace rows
	TraceLength uint32

	// TraceWidth is the number of trace columns
	TraceWidth uint32

	// PublicValues are inputs exposed to the verifier. The ledger demo
	// has none; the slice may be empty.
	PublicValues []field.Element
}

// NewClaim creates a claim for a trace of the given shape
func NewClaim(traceLength, traceWidth int, publicValues []field.Element) Claim {
	return Claim{
		TraceLength:  uint32(traceLength),
		TraceWidth:   uint32(traceWidth),
		PublicValues: publicValues,
	}
}

// Validate checks structural validity
func (c Claim) Validate() error {
	if c.TraceLength < 1 {
		return fmt.Errorf("claimed trace length must be positive")
	}
	if c.TraceWidth < 1 {
		return fmt.Errorf("claimed trace width must be positive")
	}
	return nil
}

// Encode serializes the claim as field elements
func (c Claim) Encode() []field.Element {
	encoded := make([]field.Element, 0, 3+len(c.PublicValues))
	encoded = append(encoded,
		field.New(uint64(c.TraceLength)),
		field.New(uint64(c.TraceWidth)),
		field.New(uint64(len(c.PublicValues))),
	)
	encoded = append(encoded, c.PublicValues...)
	return encoded
}

// Digest hashes the encoded claim
func (c Claim) Digest() hash.Digest {
	return hash.HashVarlen(c.Encode())
}

// Hash returns a single-element fingerprint of the claim
func (c Claim) Hash() field.Element {
	return c.Digest()[0]
}

// String returns a human-readable summary
func (c Claim) String() string {
	return fmt.Sprintf("Claim{rows: %d, width: %d, public values: %d}",
		c.TraceLength, c.TraceWidth, len(c.PublicValues))
}
