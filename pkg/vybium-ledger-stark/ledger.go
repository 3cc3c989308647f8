package vybiumledgerstark

import (
	"fmt"

	"github.com/vybium/vybium-ledger-stark/internal/vybium-ledger-stark/air"
	"github.com/vybium/vybium-ledger-stark/internal/vybium-ledger-stark/protocols"
	"github.com/vybium/vybium-ledger-stark/internal/vybium-ledger-stark/utils"
)

// GenerateTrace generates a ledger trace from the configured seed. The
// first row is the genesis row; every later row draws a fresh input
// and output and carries the balance forward.
func GenerateTrace(config *Config) (*Trace, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	sampler := utils.NewSeededSampler(config.Seed)
	trace, err := air.GenerateTrace(config.Rows, sampler)
	if err != nil {
		return nil, &LedgerError{
			Code:    ErrTraceGeneration,
			Message: "failed to generate trace",
			Cause:   err,
		}
	}
	return trace, nil
}

// NewTrace wraps a flat element slice as a ledger trace. The slice
// length must be a multiple of TraceWidth.
func NewTrace(flat []FieldElement) (*Trace, error) {
	trace, err := air.NewTrace(flat)
	if err != nil {
		return nil, &LedgerError{
			Code:    ErrInvalidInput,
			Message: "invalid trace data",
			Cause:   err,
		}
	}
	return trace, nil
}

// CheckTrace returns the transition indices where the conservation
// constraint is broken. It is a diagnostic: Prove never calls it, and
// a trace with violations still proves, yielding a proof that fails
// verification.
func CheckTrace(trace *Trace) []int {
	return air.BindLedger().CheckTrace(trace)
}

// Prove generates a proof that the trace satisfies the ledger
// conservation constraint
func Prove(config *Config, trace *Trace) (*Proof, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if trace == nil {
		return nil, &LedgerError{
			Code:    ErrInvalidInput,
			Message: "trace is nil",
		}
	}
	if trace.NumRows() != config.Rows {
		return nil, &LedgerError{
			Code:    ErrInvalidInput,
			Message: fmt.Sprintf("trace has %d rows, configuration says %d", trace.NumRows(), config.Rows),
		}
	}
	if !utils.IsPowerOfTwo(trace.NumRows()) {
		return nil, &LedgerError{
			Code:    ErrInvalidInput,
			Message: fmt.Sprintf("proving requires a power-of-2 trace height, got %d", trace.NumRows()),
		}
	}

	stark, err := protocols.NewStark(config.starkParameters())
	if err != nil {
		return nil, &LedgerError{
			Code:    ErrInvalidConfig,
			Message: "failed to assemble the STARK configuration",
			Cause:   err,
		}
	}
	prover, err := protocols.NewProver(stark)
	if err != nil {
		return nil, &LedgerError{
			Code:    ErrProofGeneration,
			Message: "failed to create the prover",
			Cause:   err,
		}
	}

	claim := protocols.NewClaim(trace.NumRows(), trace.Width(), nil)
	proof, err := prover.Prove(air.BindLedger(), claim, trace, stark.NewTranscript())
	if err != nil {
		return nil, &LedgerError{
			Code:    ErrProofGeneration,
			Message: "proof generation failed",
			Cause:   err,
		}
	}
	return proof, nil
}

// Verify checks a proof against the configured trace height. Any
// deviation from an honest transcript, including a conservation
// violation in the proven trace, makes this fail.
func Verify(config *Config, proof *Proof) error {
	if err := config.Validate(); err != nil {
		return err
	}
	if !utils.IsPowerOfTwo(config.Rows) {
		return &LedgerError{
			Code:    ErrInvalidInput,
			Message: fmt.Sprintf("verification requires a power-of-2 trace height, got %d", config.Rows),
		}
	}

	ps, err := protocols.ProofStreamFromProof(proof)
	if err != nil {
		return &LedgerError{
			Code:    ErrInvalidProof,
			Message: "malformed proof",
			Cause:   err,
		}
	}

	stark, err := protocols.NewStark(config.starkParameters())
	if err != nil {
		return &LedgerError{
			Code:    ErrInvalidConfig,
			Message: "failed to assemble the STARK configuration",
			Cause:   err,
		}
	}
	verifier := protocols.NewVerifier(stark)

	claim := protocols.NewClaim(config.Rows, TraceWidth, nil)
	if err := verifier.Verify(air.BindLedger(), claim, ps); err != nil {
		return &LedgerError{
			Code:    ErrProofVerification,
			Message: "proof verification failed",
			Cause:   err,
		}
	}
	return nil
}
