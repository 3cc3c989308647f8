// Package protocols implements the STARK proving backend: evaluation
// domains, trace commitment, quotient construction, the Fiat-Shamir
// transcript, FRI, and the prover/verifier pair.
package protocols

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"

	"github.com/vybium/vybium-ledger-stark/internal/vybium-ledger-stark/utils"
)

// STARKParameters configures the proving pipeline
type STARKParameters struct {
	// SecurityLevel is the targeted soundness in bits
	SecurityLevel int

	// FRIExpansionFactor is the blowup from the trace domain to the
	// FRI evaluation domain. Must be a power of two >= 2.
	FRIExpansionFactor int

	// NumTraceRandomizers is the number of random coefficients in the
	// randomizer polynomial mixed into the FRI combination
	NumTraceRandomizers int

	// NumCollinearityChecks is the number of FRI query indices spot
	// checked during verification
	NumCollinearityChecks int

	// ProofOfWorkBits is the grinding difficulty imposed on the prover
	// before query indices are sampled
	ProofOfWorkBits int
}

// DefaultSTARKParameters returns the parameters the demo pipeline runs
// with
func DefaultSTARKParameters() STARKParameters {
	return STARKParameters{
		SecurityLevel:         160,
		FRIExpansionFactor:    4,
		NumTraceRandomizers:   20,
		NumCollinearityChecks: 80,
		ProofOfWorkBits:       8,
	}
}

// Validate checks parameter consistency
func (p STARKParameters) Validate() error {
	if p.SecurityLevel < 80 {
		return fmt.Errorf("security level must be at least 80 bits, got %d", p.SecurityLevel)
	}
	if !utils.IsPowerOfTwo(p.FRIExpansionFactor) || p.FRIExpansionFactor < 2 {
		return fmt.Errorf("FRI expansion factor must be a power of 2 >= 2, got %d", p.FRIExpansionFactor)
	}
	if p.NumTraceRandomizers < 1 {
		return fmt.Errorf("need at least 1 trace randomizer, got %d", p.NumTraceRandomizers)
	}
	if p.NumCollinearityChecks < p.SecurityLevel/3 {
		return fmt.Errorf("collinearity checks %d too low for security level %d",
			p.NumCollinearityChecks, p.SecurityLevel)
	}
	if p.ProofOfWorkBits < 0 || p.ProofOfWorkBits > 32 {
		return fmt.Errorf("proof-of-work bits must be in [0, 32], got %d", p.ProofOfWorkBits)
	}
	return nil
}

// FRIDomainLength returns the evaluation domain size for a trace of
// the given height
func (p STARKParameters) FRIDomainLength(traceLength int) int {
	return p.FRIExpansionFactor * traceLength
}

// NumFRIRounds returns how many folding rounds reduce a codeword of
// FRIDomainLength(traceLength) to one value per expansion factor
func (p STARKParameters) NumFRIRounds(traceLength int) int {
	return utils.Log2(traceLength)
}

// String returns a human-readable summary
func (p STARKParameters) String() string {
	return fmt.Sprintf("STARKParameters{security: %d bits, expansion: %dx, randomizers: %d, checks: %d, pow: %d bits}",
		p.SecurityLevel, p.FRIExpansionFactor, p.NumTraceRandomizers,
		p.NumCollinearityChecks, p.ProofOfWorkBits)
}

// Stark bundles the assembled proving components.
//
// Construction is explicit and sequential, in dependency order: the
// Tip5 permutation underlies both the transcript sponge and the two
// hash roles, the leaf hash and node compression induce the
// commitment scheme, the low-degree test builds on the commitment
// scheme, and the final configuration collects all of them.
type Stark struct {
	Params     STARKParameters
	LeafHash   LeafHashFunc
	Compress   CompressFunc
	Commitment *CommitmentScheme
	FRI        *FRI
}

// NewStark assembles the proving components for the given parameters
func NewStark(params STARKParameters) (*Stark, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid STARK parameters: %w", err)
	}

	// 1. Hash: variable-length Tip5 absorption for leaves.
	leafHash := LeafHashFunc(func(input []field.Element) hash.Digest {
		return hash.HashVarlen(input)
	})

	// 2. Compression: one Tip5 permutation over two digests.
	compress := CompressFunc(CompressDigests)

	// 3. Commitment scheme over leaf hash and compression.
	commitment := NewCommitmentScheme(leafHash, compress)

	// 4. Low-degree test over the commitment scheme.
	fri := NewFRI(params, commitment)

	// 5. The assembled configuration.
	return &Stark{
		Params:     params,
		LeafHash:   leafHash,
		Compress:   compress,
		Commitment: commitment,
		FRI:        fri,
	}, nil
}

// NewTranscript creates a fresh Fiat-Shamir transcript. Prover and
// verifier each run their own; the proof items drive both to the same
// state.
func (s *Stark) NewTranscript() *ProofStream {
	return NewProofStream()
}

// NewChallengeChain creates a scalar challenge chain seeded with the
// given digest
func (s *Stark) NewChallengeChain(seed hash.Digest) *ChallengeChain {
	return NewChallengeChain(seed, s.Compress)
}
