package vybiumledgerstark

import (
	"github.com/vybium/vybium-ledger-stark/internal/vybium-ledger-stark/protocols"
)

// Config represents the configuration for ledger trace generation and
// proving
type Config struct {
	// Trace parameters
	Rows int    // Number of ledger rows (proving requires a power of 2)
	Seed uint64 // Seed for the deterministic trace sampler

	// Security parameters
	SecurityLevel   int // Target security level in bits
	ProofOfWorkBits int // Grinding difficulty for the transcript nonce

	// FRI parameters
	FRIExpansionFactor    int // Blowup factor of the evaluation domain
	NumTraceRandomizers   int // Coefficients of the hiding randomizer polynomial
	NumCollinearityChecks int // Number of spot-checked query indices
}

// DefaultConfig returns a configuration for the reference ledger
// trace
func DefaultConfig() *Config {
	params := protocols.DefaultSTARKParameters()
	return &Config{
		Rows:                  1024,
		Seed:                  0,
		SecurityLevel:         params.SecurityLevel,
		ProofOfWorkBits:       params.ProofOfWorkBits,
		FRIExpansionFactor:    params.FRIExpansionFactor,
		NumTraceRandomizers:   params.NumTraceRandomizers,
		NumCollinearityChecks: params.NumCollinearityChecks,
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Rows < 1 {
		return &LedgerError{
			Code:    ErrInvalidConfig,
			Message: "number of rows must be positive",
		}
	}
	if err := c.starkParameters().Validate(); err != nil {
		return &LedgerError{
			Code:    ErrInvalidConfig,
			Message: "invalid STARK parameters",
			Cause:   err,
		}
	}
	return nil
}

// WithRows sets the number of ledger rows
func (c *Config) WithRows(rows int) *Config {
	c.Rows = rows
	return c
}

// WithSeed sets the trace sampler seed
func (c *Config) WithSeed(seed uint64) *Config {
	c.Seed = seed
	return c
}

// WithSecurityLevel sets the target security level
func (c *Config) WithSecurityLevel(level int) *Config {
	c.SecurityLevel = level
	return c
}

// WithProofOfWorkBits sets the grinding difficulty
func (c *Config) WithProofOfWorkBits(bits int) *Config {
	c.ProofOfWorkBits = bits
	return c
}

// WithFRIExpansionFactor sets the evaluation domain blowup factor
func (c *Config) WithFRIExpansionFactor(factor int) *Config {
	c.FRIExpansionFactor = factor
	return c
}

// WithNumTraceRandomizers sets the randomizer polynomial size
func (c *Config) WithNumTraceRandomizers(count int) *Config {
	c.NumTraceRandomizers = count
	return c
}

// WithNumCollinearityChecks sets the number of query indices
func (c *Config) WithNumCollinearityChecks(count int) *Config {
	c.NumCollinearityChecks = count
	return c
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// starkParameters maps the configuration onto the protocol parameters
func (c *Config) starkParameters() protocols.STARKParameters {
	return protocols.STARKParameters{
		SecurityLevel:         c.SecurityLevel,
		FRIExpansionFactor:    c.FRIExpansionFactor,
		NumTraceRandomizers:   c.NumTraceRandomizers,
		NumCollinearityChecks: c.NumCollinearityChecks,
		ProofOfWorkBits:       c.ProofOfWorkBits,
	}
}
