// Package air defines the balance-ledger AIR: the trace layout, the
// constraint evaluator, and the trace generator.
package air

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// Column indices of a ledger trace row.
const (
	ColBalance = 0
	ColInput   = 1
	ColOutput  = 2
)

// TraceWidth is the number of columns in a ledger trace.
const TraceWidth = 3

// RowView is a window over one trace row. It aliases the trace's
// backing storage and copies nothing; all cell access is bounds-checked
// slice indexing.
type RowView struct {
	cells []field.Element
}

// Balance returns the row's balance column
func (r RowView) Balance() field.Element { return r.cells[ColBalance] }

// Input returns the row's input column
func (r RowView) Input() field.Element { return r.cells[ColInput] }

// Output returns the row's output column
func (r RowView) Output() field.Element { return r.cells[ColOutput] }

// Col returns the cell in column j. An out-of-range index panics.
func (r RowView) Col(j int) field.Element { return r.cells[j] }

// Trace is a row-major execution trace of TraceWidth columns backed by
// a single flat slice. Row and Flat expose the structured and the
// flattened view of the same cells; converting between them reorders
// and copies nothing, so the two views are exact inverses.
type Trace struct {
	flat []field.Element
	rows int
}

// NewTrace wraps a flat row-major element sequence as a trace.
//
// The length must be a multiple of TraceWidth. A misaligned slice is
// rejected outright rather than truncated or padded.
func NewTrace(flat []field.Element) (*Trace, error) {
	if len(flat)%TraceWidth != 0 {
		return nil, fmt.Errorf("flat trace length %d is not a multiple of width %d",
			len(flat), TraceWidth)
	}
	return &Trace{flat: flat, rows: len(flat) / TraceWidth}, nil
}

// NumRows returns the number of rows
func (t *Trace) NumRows() int { return t.rows }

// Width returns the number of columns
func (t *Trace) Width() int { return TraceWidth }

// Flat returns the flattened row-major cells without copying
func (t *Trace) Flat() []field.Element { return t.flat }

// Row returns a view of row i without copying. An out-of-range index
// panics.
func (t *Trace) Row(i int) RowView {
	return RowView{cells: t.flat[i*TraceWidth : (i+1)*TraceWidth]}
}

// Rows returns views of every row in order
func (t *Trace) Rows() []RowView {
	views := make([]RowView, t.rows)
	for i := range views {
		views[i] = t.Row(i)
	}
	return views
}

// Column copies column j out of the trace. The proving backend
// interpolates per column, so this is the one accessor that allocates.
func (t *Trace) Column(j int) []field.Element {
	if j < 0 || j >= TraceWidth {
		panic(fmt.Sprintf("column index %d out of range [0, %d)", j, TraceWidth))
	}
	column := make([]field.Element, t.rows)
	for i := range column {
		column[i] = t.flat[i*TraceWidth+j]
	}
	return column
}
