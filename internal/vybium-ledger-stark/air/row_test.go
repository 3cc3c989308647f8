package air

import (
	"testing"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

func flatRows(rows ...[3]uint64) []field.Element {
	flat := make([]field.Element, 0, len(rows)*TraceWidth)
	for _, row := range rows {
		flat = append(flat, field.New(row[0]), field.New(row[1]), field.New(row[2]))
	}
	return flat
}

// TestNewTrace tests structuring a flat slice into rows
func TestNewTrace(t *testing.T) {
	t.Run("AlignedLengths", func(t *testing.T) {
		for _, rows := range []int{0, 1, 2, 5, 16} {
			trace, err := NewTrace(make([]field.Element, rows*TraceWidth))
			if err != nil {
				t.Fatalf("NewTrace failed for %d rows: %v", rows, err)
			}
			if trace.NumRows() != rows {
				t.Errorf("Expected %d rows, got %d", rows, trace.NumRows())
			}
			if trace.Width() != TraceWidth {
				t.Errorf("Expected width %d, got %d", TraceWidth, trace.Width())
			}
		}
	})

	t.Run("MisalignedLengths", func(t *testing.T) {
		for _, length := range []int{1, 2, 4, 5, 7, 100} {
			if _, err := NewTrace(make([]field.Element, length)); err == nil {
				t.Errorf("Expected error for flat length %d", length)
			}
		}
	})
}

// TestRowViewAccessors tests the named and indexed cell accessors
func TestRowViewAccessors(t *testing.T) {
	trace, err := NewTrace(flatRows([3]uint64{10, 20, 30}, [3]uint64{40, 50, 60}))
	if err != nil {
		t.Fatalf("NewTrace failed: %v", err)
	}

	row := trace.Row(1)
	if row.Balance().Value() != 40 {
		t.Errorf("Balance() = %d, expected 40", row.Balance().Value())
	}
	if row.Input().Value() != 50 {
		t.Errorf("Input() = %d, expected 50", row.Input().Value())
	}
	if row.Output().Value() != 60 {
		t.Errorf("Output() = %d, expected 60", row.Output().Value())
	}

	for j, expected := range []uint64{40, 50, 60} {
		if row.Col(j).Value() != expected {
			t.Errorf("Col(%d) = %d, expected %d", j, row.Col(j).Value(), expected)
		}
	}
}

// TestRowViewBoundsChecked tests that out-of-range access panics
// instead of reading adjacent rows
func TestRowViewBoundsChecked(t *testing.T) {
	trace, err := NewTrace(flatRows([3]uint64{1, 2, 3}))
	if err != nil {
		t.Fatalf("NewTrace failed: %v", err)
	}

	t.Run("ColumnIndex", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("Col(3) should panic")
			}
		}()
		trace.Row(0).Col(TraceWidth)
	})

	t.Run("RowIndex", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("Row(1) on a 1-row trace should panic")
			}
		}()
		trace.Row(1)
	})
}

// TestTraceRoundTrip tests that flattening and structuring are exact
// inverses
func TestTraceRoundTrip(t *testing.T) {
	flat := flatRows(
		[3]uint64{100000, 12345, 54321},
		[3]uint64{58024, 7, 9},
		[3]uint64{58022, 0, 0},
	)

	trace, err := NewTrace(flat)
	if err != nil {
		t.Fatalf("NewTrace failed: %v", err)
	}

	back := trace.Flat()
	if len(back) != len(flat) {
		t.Fatalf("Flat() returned %d elements, expected %d", len(back), len(flat))
	}
	for i := range flat {
		if !back[i].Equal(flat[i]) {
			t.Errorf("Cell %d changed across the round trip", i)
		}
	}

	rebuilt, err := NewTrace(back)
	if err != nil {
		t.Fatalf("Restructuring failed: %v", err)
	}
	for i := 0; i < rebuilt.NumRows(); i++ {
		for j := 0; j < TraceWidth; j++ {
			if !rebuilt.Row(i).Col(j).Equal(trace.Row(i).Col(j)) {
				t.Errorf("Cell (%d, %d) changed across the round trip", i, j)
			}
		}
	}
}

// TestTraceViewsAlias tests that Flat and Row expose the same backing
// storage rather than copies
func TestTraceViewsAlias(t *testing.T) {
	trace, err := NewTrace(flatRows([3]uint64{1, 2, 3}, [3]uint64{4, 5, 6}))
	if err != nil {
		t.Fatalf("NewTrace failed: %v", err)
	}

	trace.Flat()[TraceWidth+ColInput] = field.New(500)
	if trace.Row(1).Input().Value() != 500 {
		t.Error("Writing through Flat() is not visible through Row()")
	}
}

// TestTraceColumn tests per-column extraction
func TestTraceColumn(t *testing.T) {
	trace, err := NewTrace(flatRows([3]uint64{1, 2, 3}, [3]uint64{4, 5, 6}, [3]uint64{7, 8, 9}))
	if err != nil {
		t.Fatalf("NewTrace failed: %v", err)
	}

	expected := [TraceWidth][]uint64{
		{1, 4, 7},
		{2, 5, 8},
		{3, 6, 9},
	}
	for j := 0; j < TraceWidth; j++ {
		column := trace.Column(j)
		if len(column) != trace.NumRows() {
			t.Fatalf("Column %d has %d entries, expected %d", j, len(column), trace.NumRows())
		}
		for i, cell := range column {
			if cell.Value() != expected[j][i] {
				t.Errorf("Column(%d)[%d] = %d, expected %d", j, i, cell.Value(), expected[j][i])
			}
		}
	}

	t.Run("OutOfRange", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("Column(3) should panic")
			}
		}()
		trace.Column(TraceWidth)
	})
}

// TestTraceRows tests the bulk row accessor
func TestTraceRows(t *testing.T) {
	trace, err := NewTrace(flatRows([3]uint64{1, 2, 3}, [3]uint64{4, 5, 6}))
	if err != nil {
		t.Fatalf("NewTrace failed: %v", err)
	}

	views := trace.Rows()
	if len(views) != 2 {
		t.Fatalf("Rows() returned %d views, expected 2", len(views))
	}
	if views[0].Balance().Value() != 1 || views[1].Balance().Value() != 4 {
		t.Error("Rows() views are out of order")
	}
}
