package vybiumledgerstark

import "fmt"

// ErrorCode represents a Vybium Ledger STARK error code
type ErrorCode int

const (
	// ErrUnknown represents an unknown error
	ErrUnknown ErrorCode = iota

	// ErrInvalidConfig represents an invalid configuration error
	ErrInvalidConfig

	// ErrTraceGeneration represents a trace generation error
	ErrTraceGeneration

	// ErrProofGeneration represents a proof generation error
	ErrProofGeneration

	// ErrProofVerification represents a proof verification error
	ErrProofVerification

	// ErrInvalidProof represents an invalid proof error
	ErrInvalidProof

	// ErrInvalidInput represents an invalid input error
	ErrInvalidInput
)

// LedgerError represents a Vybium Ledger STARK error
type LedgerError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error returns the error message
func (e *LedgerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("vybium-ledger-stark error [%d]: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("vybium-ledger-stark error [%d]: %s", e.Code, e.Message)
}

// Unwrap returns the cause of the error
func (e *LedgerError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error
func (e *LedgerError) Is(target error) bool {
	t, ok := target.(*LedgerError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}
