package air

import (
	"testing"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/polynomial"

	"github.com/vybium/vybium-ledger-stark/internal/vybium-ledger-stark/utils"
)

func ledgerRow(balance, input, output uint64) []field.Element {
	return []field.Element{field.New(balance), field.New(input), field.New(output)}
}

// TestLedgerAirWidth tests that every instantiation reports the ledger
// width
func TestLedgerAirWidth(t *testing.T) {
	if w := (LedgerAir[field.Element]{}).Width(); w != 3 {
		t.Errorf("Field instantiation width = %d, expected 3", w)
	}
	if w := (LedgerAir[*polynomial.Polynomial]{}).Width(); w != 3 {
		t.Errorf("Polynomial instantiation width = %d, expected 3", w)
	}
	if w := (LedgerAir[int]{}).Width(); w != 3 {
		t.Errorf("Degree instantiation width = %d, expected 3", w)
	}
	if w := BindLedger().Width(); w != 3 {
		t.Errorf("Bound width = %d, expected 3", w)
	}
}

// TestTransitionResiduals tests the conservation constraint on
// concrete row pairs
func TestTransitionResiduals(t *testing.T) {
	bound := BindLedger()

	t.Run("Satisfied", func(t *testing.T) {
		residuals := bound.TransitionResiduals(
			ledgerRow(100000, 12345, 54321),
			ledgerRow(58024, 999, 1),
		)
		if len(residuals) != 1 {
			t.Fatalf("Expected 1 residual, got %d", len(residuals))
		}
		if !residuals[0].IsZero() {
			t.Errorf("Conserving transition has residual %s", residuals[0])
		}
	})

	t.Run("Violated", func(t *testing.T) {
		residuals := bound.TransitionResiduals(
			ledgerRow(100000, 12345, 54321),
			ledgerRow(58025, 0, 0),
		)
		if residuals[0].IsZero() {
			t.Error("Off-by-one balance should leave a nonzero residual")
		}
	})

	t.Run("OnlyNextBalanceMatters", func(t *testing.T) {
		// The successor's input and output are unconstrained.
		a := bound.TransitionResiduals(ledgerRow(10, 5, 3), ledgerRow(12, 0, 0))
		b := bound.TransitionResiduals(ledgerRow(10, 5, 3), ledgerRow(12, 77, 88))
		if !a[0].IsZero() || !b[0].IsZero() {
			t.Error("Residual should not depend on the successor's input or output")
		}
	})
}

// TestEvalSkipsNonTransitions tests that the last row asserts nothing
func TestEvalSkipsNonTransitions(t *testing.T) {
	alg := NewFieldAlgebra()
	LedgerAir[field.Element]{}.Eval(alg, ledgerRow(1, 2, 3), ledgerRow(999, 0, 0), false)
	if len(alg.Residuals()) != 0 {
		t.Errorf("Non-transition evaluation recorded %d residuals, expected 0", len(alg.Residuals()))
	}
}

// TestTransitionDegrees tests the degree bound of the constraint
// system
func TestTransitionDegrees(t *testing.T) {
	bound := BindLedger()

	degrees := bound.TransitionDegrees()
	if len(degrees) != 1 || degrees[0] != 1 {
		t.Errorf("TransitionDegrees() = %v, expected [1]", degrees)
	}
	if bound.NumTransitionConstraints() != 1 {
		t.Errorf("NumTransitionConstraints() = %d, expected 1", bound.NumTransitionConstraints())
	}
	if bound.TransitionDegree() != 1 {
		t.Errorf("TransitionDegree() = %d, expected 1", bound.TransitionDegree())
	}
}

// TestResidualPolynomialsAgree tests that the symbolic residual
// evaluated at a point matches the concrete residual of the evaluated
// inputs
func TestResidualPolynomialsAgree(t *testing.T) {
	bound := BindLedger()

	local := make([]*polynomial.Polynomial, TraceWidth)
	next := make([]*polynomial.Polynomial, TraceWidth)
	for c := 0; c < TraceWidth; c++ {
		local[c] = polynomial.New([]field.Element{
			field.New(uint64(c + 1)), field.New(uint64(3 * c)), field.New(7),
		})
		next[c] = polynomial.New([]field.Element{
			field.New(uint64(10 * c)), field.New(uint64(c * c)),
		})
	}

	residualPolys := bound.TransitionResidualPolynomials(local, next)
	if len(residualPolys) != 1 {
		t.Fatalf("Expected 1 residual polynomial, got %d", len(residualPolys))
	}

	for _, point := range []uint64{0, 1, 2, 55, 1 << 40} {
		p := field.New(point)
		localEval := make([]field.Element, TraceWidth)
		nextEval := make([]field.Element, TraceWidth)
		for c := 0; c < TraceWidth; c++ {
			localEval[c] = local[c].Evaluate(p)
			nextEval[c] = next[c].Evaluate(p)
		}
		want := bound.TransitionResiduals(localEval, nextEval)[0]
		if !residualPolys[0].Evaluate(p).Equal(want) {
			t.Errorf("Symbolic and concrete residuals disagree at %d", point)
		}
	}
}

// TestCheckTrace tests violation reporting over whole traces
func TestCheckTrace(t *testing.T) {
	bound := BindLedger()

	t.Run("HonestTrace", func(t *testing.T) {
		trace, err := GenerateTrace(32, utils.NewSeededSampler(9))
		if err != nil {
			t.Fatalf("GenerateTrace failed: %v", err)
		}
		if violated := bound.CheckTrace(trace); len(violated) != 0 {
			t.Errorf("Honest trace flagged at transitions %v", violated)
		}
	})

	t.Run("CorruptedBalance", func(t *testing.T) {
		trace, err := GenerateTrace(8, utils.NewSeededSampler(9))
		if err != nil {
			t.Fatalf("GenerateTrace failed: %v", err)
		}
		// Corrupting row 3's balance breaks the transitions into and
		// out of it.
		trace.Flat()[3*TraceWidth+ColBalance] = field.New(1)

		violated := bound.CheckTrace(trace)
		if len(violated) != 2 || violated[0] != 2 || violated[1] != 3 {
			t.Errorf("CheckTrace = %v, expected [2 3]", violated)
		}
	})

	t.Run("SingleRow", func(t *testing.T) {
		trace, err := GenerateTrace(1, utils.NewSeededSampler(9))
		if err != nil {
			t.Fatalf("GenerateTrace failed: %v", err)
		}
		if violated := bound.CheckTrace(trace); violated != nil {
			t.Errorf("Single-row trace has no transitions, got %v", violated)
		}
	})
}

// widthTwoAir is a deliberately short instantiation for Bind's width
// agreement check
type widthTwoAir struct{}

func (widthTwoAir) Width() int { return 2 }
func (widthTwoAir) Eval(alg Algebra[field.Element], local, next []field.Element, isTransition bool) {
}

// TestBindRejectsWidthMismatch tests that instantiations must agree on
// the trace width
func TestBindRejectsWidthMismatch(t *testing.T) {
	_, err := Bind(widthTwoAir{}, LedgerAir[*polynomial.Polynomial]{}, LedgerAir[int]{})
	if err == nil {
		t.Error("Expected error for disagreeing widths")
	}
}
