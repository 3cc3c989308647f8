package air

import (
	"fmt"
	"math/bits"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-ledger-stark/internal/vybium-ledger-stark/utils"
)

// Genesis row of every generated ledger trace.
const (
	GenesisBalance uint64 = 100000
	GenesisInput   uint64 = 12345
	GenesisOutput  uint64 = 54321
)

// ReferenceRows is the trace height the demo pipeline uses.
const ReferenceRows = 1024

// TraceBuilder accumulates rows into the trace's flat storage
type TraceBuilder struct {
	flat []field.Element
}

// NewTraceBuilder creates a builder with capacity for the given row
// count
func NewTraceBuilder(rows int) *TraceBuilder {
	return &TraceBuilder{flat: make([]field.Element, 0, rows*TraceWidth)}
}

// Append records one row
func (tb *TraceBuilder) Append(balance, input, output field.Element) {
	tb.flat = append(tb.flat, balance, input, output)
}

// Build finalizes the accumulated rows as a trace
func (tb *TraceBuilder) Build() (*Trace, error) {
	return NewTrace(tb.flat)
}

// GenerateTrace builds an n-row ledger trace in one front-to-back pass.
//
// Row 0 is the fixed genesis row. Every later row derives its balance
// from the conservation rule, draws a fresh uniform input, and spends
// between two thirds and all of the funds at hand:
//
//	balance[i] = balance[i-1] + input[i-1] - output[i-1]
//	input[i]   uniform over the field
//	output[i]  uniform over [floor(2/3 * s), s), s = balance[i] + input[i]
//
// The spend range is computed on canonical integers with the sum
// tracked in 65 bits and capped at the modulus. An empty range clamps
// the output to its lower bound, so generation is total. Outputs never
// exceed the funds at hand: no row overdraws under the canonical
// interpretation.
func GenerateTrace(n int, sampler *utils.Sampler) (*Trace, error) {
	if n < 1 {
		return nil, fmt.Errorf("trace needs at least one row, got %d", n)
	}
	if sampler == nil {
		return nil, fmt.Errorf("trace generation needs a sampler")
	}

	tb := NewTraceBuilder(n)

	balance := field.New(GenesisBalance)
	input := field.New(GenesisInput)
	output := field.New(GenesisOutput)
	tb.Append(balance, input, output)

	for i := 1; i < n; i++ {
		balance = balance.Add(input).Sub(output)
		input = sampler.FieldElement()
		output = sampleOutput(balance, input, sampler)
		tb.Append(balance, input, output)
	}

	return tb.Build()
}

// sampleOutput draws a row's spend amount.
//
// With s the 65-bit canonical sum balance+input and high = min(s, P),
// the draw is uniform over [floor(high*2/3), high). An empty range
// clamps to the lower bound, which also covers high == 0.
func sampleOutput(balance, input field.Element, sampler *utils.Sampler) field.Element {
	sum, carry := bits.Add64(balance.Value(), input.Value(), 0)

	high := sum
	if carry == 1 || sum > field.P {
		high = field.P
	}

	// floor(high * 2/3) without overflowing 64 bits
	low := (high/3)*2 + (high%3*2)/3

	if high > low {
		return field.New(low + sampler.UniformRange(high-low))
	}
	return field.New(low)
}
