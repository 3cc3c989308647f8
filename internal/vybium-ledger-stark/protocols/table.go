package protocols

import (
	"fmt"
	"sync"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/polynomial"
)

// TraceTable carries an execution trace through interpolation,
// low-degree extension and commitment
type TraceTable struct {
	columns  [][]field.Element
	domains  *ProverDomains
	scheme   *CommitmentScheme
	polys    []*polynomial.Polynomial
	extended [][]field.Element
	root     hash.Digest
	hasRoot  bool
}

// NewTraceTable pulls the trace columns out of their source and pairs
// them with the proving domains
func NewTraceTable(trace TraceSource, domains *ProverDomains, scheme *CommitmentScheme) (*TraceTable, error) {
	if trace.NumRows() != domains.Trace.Length {
		return nil, fmt.Errorf("trace has %d rows but the trace domain has length %d",
			trace.NumRows(), domains.Trace.Length)
	}

	width := trace.Width()
	if width < 1 {
		return nil, fmt.Errorf("trace must have at least one column")
	}

	columns := make([][]field.Element, width)
	for j := 0; j < width; j++ {
		columns[j] = trace.Column(j)
		if len(columns[j]) != trace.NumRows() {
			return nil, fmt.Errorf("column %d has %d rows, want %d",
				j, len(columns[j]), trace.NumRows())
		}
	}

	return &TraceTable{columns: columns, domains: domains, scheme: scheme}, nil
}

// Width returns the number of trace columns
func (tt *TraceTable) Width() int { return len(tt.columns) }

// Interpolate computes one interpolant per column over the trace
// domain. Columns are independent, so they run in parallel.
func (tt *TraceTable) Interpolate() error {
	tt.polys = make([]*polynomial.Polynomial, len(tt.columns))

	var wg sync.WaitGroup
	errChan := make(chan error, len(tt.columns))

	for j := range tt.columns {
		wg.Add(1)
		go func(col int) {
			defer wg.Done()
			points, err := tt.domains.Trace.InterpolationPoints(tt.columns[col])
			if err != nil {
				errChan <- fmt.Errorf("column %d: %w", col, err)
				return
			}
			tt.polys[col] = polynomial.Interpolate(points)
		}(j)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return fmt.Errorf("trace interpolation failed: %w", err)
		}
	}
	return nil
}

// LowDegreeExtend evaluates every column interpolant over the FRI
// domain, again in parallel
func (tt *TraceTable) LowDegreeExtend() error {
	if tt.polys == nil {
		return fmt.Errorf("must interpolate before extending")
	}

	tt.extended = make([][]field.Element, len(tt.polys))

	var wg sync.WaitGroup
	for j := range tt.polys {
		wg.Add(1)
		go func(col int) {
			defer wg.Done()
			tt.extended[col] = tt.domains.FRI.Evaluate(tt.polys[col])
		}(j)
	}
	wg.Wait()

	return nil
}

// Commit hashes the extended rows into Merkle leaves and returns the
// tree root
func (tt *TraceTable) Commit() (hash.Digest, error) {
	if tt.extended == nil {
		return hash.Digest{}, fmt.Errorf("must extend before committing")
	}

	root, err := tt.scheme.CommitColumns(tt.extended)
	if err != nil {
		return hash.Digest{}, fmt.Errorf("trace commitment failed: %w", err)
	}

	tt.root = root
	tt.hasRoot = true
	return root, nil
}

// Root returns the commitment root
func (tt *TraceTable) Root() (hash.Digest, error) {
	if !tt.hasRoot {
		return hash.Digest{}, fmt.Errorf("trace is not committed yet")
	}
	return tt.root, nil
}

// ColumnPolynomial returns column j's interpolant
func (tt *TraceTable) ColumnPolynomial(j int) *polynomial.Polynomial {
	return tt.polys[j]
}

// ColumnPolynomials returns all column interpolants in column order
func (tt *TraceTable) ColumnPolynomials() []*polynomial.Polynomial {
	return tt.polys
}

// ExtendedColumns returns the low-degree-extended columns
func (tt *TraceTable) ExtendedColumns() [][]field.Element {
	return tt.extended
}
