package protocols

import (
	"testing"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// testTraceSource is a fixed-column trace for exercising the table
type testTraceSource struct {
	columns [][]field.Element
}

func (ts *testTraceSource) NumRows() int {
	if len(ts.columns) == 0 {
		return 0
	}
	return len(ts.columns[0])
}

func (ts *testTraceSource) Width() int { return len(ts.columns) }

func (ts *testTraceSource) Column(j int) []field.Element {
	return append([]field.Element(nil), ts.columns[j]...)
}

func testTableSetup(t *testing.T, columns [][]field.Element) (*TraceTable, *ProverDomains) {
	t.Helper()
	params := DefaultSTARKParameters()
	domains, err := DeriveProverDomains(params, len(columns[0]))
	if err != nil {
		t.Fatalf("DeriveProverDomains failed: %v", err)
	}
	table, err := NewTraceTable(&testTraceSource{columns: columns}, domains, testScheme())
	if err != nil {
		t.Fatalf("NewTraceTable failed: %v", err)
	}
	return table, domains
}

// TestNewTraceTable tests trace and domain shape validation
func TestNewTraceTable(t *testing.T) {
	params := DefaultSTARKParameters()
	domains, err := DeriveProverDomains(params, 8)
	if err != nil {
		t.Fatalf("DeriveProverDomains failed: %v", err)
	}

	trace := &testTraceSource{columns: [][]field.Element{
		testElements(1, 2, 3, 4, 5, 6, 7, 8),
		testElements(8, 7, 6, 5, 4, 3, 2, 1),
	}}
	table, err := NewTraceTable(trace, domains, testScheme())
	if err != nil {
		t.Fatalf("NewTraceTable failed: %v", err)
	}
	if table.Width() != 2 {
		t.Errorf("Width() = %d, want 2", table.Width())
	}

	short := &testTraceSource{columns: [][]field.Element{testElements(1, 2, 3, 4)}}
	if _, err := NewTraceTable(short, domains, testScheme()); err == nil {
		t.Error("NewTraceTable accepted a trace shorter than the domain, want error")
	}

	empty := &testTraceSource{}
	if _, err := NewTraceTable(empty, domains, testScheme()); err == nil {
		t.Error("NewTraceTable accepted an empty trace, want error")
	}
}

// TestTraceTablePipelineOrder tests that each stage requires its
// predecessor
func TestTraceTablePipelineOrder(t *testing.T) {
	table, _ := testTableSetup(t, [][]field.Element{testElements(1, 2, 3, 4)})

	if err := table.LowDegreeExtend(); err == nil {
		t.Error("LowDegreeExtend succeeded before interpolation, want error")
	}
	if _, err := table.Commit(); err == nil {
		t.Error("Commit succeeded before extension, want error")
	}
	if _, err := table.Root(); err == nil {
		t.Error("Root succeeded before commitment, want error")
	}

	if err := table.Interpolate(); err != nil {
		t.Fatalf("Interpolate failed: %v", err)
	}
	if err := table.LowDegreeExtend(); err != nil {
		t.Fatalf("LowDegreeExtend failed: %v", err)
	}
	committed, err := table.Commit()
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	root, err := table.Root()
	if err != nil {
		t.Fatalf("Root failed: %v", err)
	}
	if !digestsEqual(committed, root) {
		t.Error("Root disagrees with the digest Commit returned")
	}
}

// TestTraceTableInterpolants tests that interpolants reproduce the
// trace on the trace domain
func TestTraceTableInterpolants(t *testing.T) {
	columns := [][]field.Element{
		testElements(100, 200, 300, 400, 500, 600, 700, 800),
		testElements(3, 1, 4, 1, 5, 9, 2, 6),
	}
	table, domains := testTableSetup(t, columns)

	if err := table.Interpolate(); err != nil {
		t.Fatalf("Interpolate failed: %v", err)
	}

	elements := domains.Trace.Elements()
	for j, col := range columns {
		poly := table.ColumnPolynomial(j)
		if poly.Degree() >= len(col) {
			t.Errorf("column %d interpolant has degree %d, want < %d", j, poly.Degree(), len(col))
		}
		for i, x := range elements {
			if !poly.Evaluate(x).Equal(col[i]) {
				t.Errorf("column %d interpolant misses row %d", j, i)
			}
		}
	}
	if len(table.ColumnPolynomials()) != len(columns) {
		t.Errorf("got %d interpolants, want %d", len(table.ColumnPolynomials()), len(columns))
	}
}

// TestTraceTableExtension tests the low-degree extension against direct
// evaluation
func TestTraceTableExtension(t *testing.T) {
	columns := [][]field.Element{testElements(5, 10, 15, 20)}
	table, domains := testTableSetup(t, columns)

	if err := table.Interpolate(); err != nil {
		t.Fatalf("Interpolate failed: %v", err)
	}
	if err := table.LowDegreeExtend(); err != nil {
		t.Fatalf("LowDegreeExtend failed: %v", err)
	}

	extended := table.ExtendedColumns()
	if len(extended) != 1 {
		t.Fatalf("got %d extended columns, want 1", len(extended))
	}
	if len(extended[0]) != domains.FRI.Length {
		t.Fatalf("extended column has %d rows, want %d", len(extended[0]), domains.FRI.Length)
	}

	poly := table.ColumnPolynomial(0)
	for i, x := range domains.FRI.Elements() {
		if !extended[0][i].Equal(poly.Evaluate(x)) {
			t.Errorf("extended value %d disagrees with the interpolant", i)
		}
	}
}

// TestTraceTableCommitMatchesScheme tests that the trace root is the
// column commitment of the extension
func TestTraceTableCommitMatchesScheme(t *testing.T) {
	columns := [][]field.Element{
		testElements(1, 2, 3, 4),
		testElements(9, 8, 7, 6),
	}
	table, _ := testTableSetup(t, columns)

	if err := table.Interpolate(); err != nil {
		t.Fatalf("Interpolate failed: %v", err)
	}
	if err := table.LowDegreeExtend(); err != nil {
		t.Fatalf("LowDegreeExtend failed: %v", err)
	}
	root, err := table.Commit()
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	direct, err := testScheme().CommitColumns(table.ExtendedColumns())
	if err != nil {
		t.Fatalf("CommitColumns failed: %v", err)
	}
	if !digestsEqual(root, direct) {
		t.Error("table root disagrees with a direct column commitment")
	}
}
