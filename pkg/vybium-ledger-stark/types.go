package vybiumledgerstark

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-ledger-stark/internal/vybium-ledger-stark/air"
	"github.com/vybium/vybium-ledger-stark/internal/vybium-ledger-stark/protocols"
)

// FieldElement represents an element of the Tip5-friendly prime field.
// This is the public type for field elements used throughout Vybium
// Ledger STARK.
type FieldElement = field.Element

// Trace represents a ledger trace: rows of balance, input and output
// columns
type Trace = air.Trace

// RowView represents one ledger row inside a trace
type RowView = air.RowView

// Proof represents a zkSTARK proof of a ledger trace
type Proof = protocols.Proof

// Claim represents the public information a proof is checked against
type Claim = protocols.Claim

// TraceWidth is the number of columns in a ledger row
const TraceWidth = air.TraceWidth

// NewFieldElement creates a field element from an unsigned integer,
// reducing modulo the field prime
func NewFieldElement(value uint64) FieldElement {
	return field.New(value)
}
