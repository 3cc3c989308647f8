package air

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/polynomial"
)

// LedgerAir is the balance-conservation AIR.
//
// A single degree-1 transition constraint relates each row to its
// successor:
//
//	balance' = balance + input - output
//
// The evaluator is stateless and generic over the algebra, so the same
// constraint body produces concrete residuals for trace checking,
// residual polynomials for quotient construction, and degree bounds
// for parameter validation.
type LedgerAir[E any] struct{}

// Width returns the number of trace columns
func (LedgerAir[E]) Width() int { return TraceWidth }

// Eval asserts the transition constraint between a row and its
// successor. With isTransition false (the trace's last row has no
// successor) nothing is asserted. Only the four cells the constraint
// names are read.
func (LedgerAir[E]) Eval(alg Algebra[E], local, next []E, isTransition bool) {
	if !isTransition {
		return
	}
	retained := alg.Sub(alg.Add(local[ColBalance], local[ColInput]), local[ColOutput])
	alg.AssertEq(retained, next[ColBalance])
}

// FieldEvaluable, PolyEvaluable and DegreeEvaluable are the three
// algebra instantiations of a generic AIR. A definition written as a
// generic struct satisfies all three with one method body; Bind
// collects the instantiations behind the non-generic surface the
// proving backend consumes.
type FieldEvaluable interface {
	Width() int
	Eval(alg Algebra[field.Element], local, next []field.Element, isTransition bool)
}

// PolyEvaluable is the polynomial instantiation of a generic AIR
type PolyEvaluable interface {
	Width() int
	Eval(alg Algebra[*polynomial.Polynomial], local, next []*polynomial.Polynomial, isTransition bool)
}

// DegreeEvaluable is the degree-bound instantiation of a generic AIR
type DegreeEvaluable interface {
	Width() int
	Eval(alg Algebra[int], local, next []int, isTransition bool)
}

// Bound packages one AIR's three algebra instantiations
type Bound struct {
	fieldEval  FieldEvaluable
	polyEval   PolyEvaluable
	degreeEval DegreeEvaluable
	width      int
}

// Bind collects the three instantiations of one AIR definition. The
// instantiations must agree on the trace width.
func Bind(f FieldEvaluable, p PolyEvaluable, d DegreeEvaluable) (*Bound, error) {
	if f.Width() != p.Width() || f.Width() != d.Width() {
		return nil, fmt.Errorf("algebra instantiations disagree on width: %d, %d, %d",
			f.Width(), p.Width(), d.Width())
	}
	if f.Width() < 1 {
		return nil, fmt.Errorf("AIR width must be positive, got %d", f.Width())
	}
	return &Bound{fieldEval: f, polyEval: p, degreeEval: d, width: f.Width()}, nil
}

// BindLedger binds the ledger AIR's standard instantiations
func BindLedger() *Bound {
	bound, err := Bind(
		LedgerAir[field.Element]{},
		LedgerAir[*polynomial.Polynomial]{},
		LedgerAir[int]{},
	)
	if err != nil {
		// The three instantiations share one Width method.
		panic(err)
	}
	return bound
}

// Width returns the trace width the AIR expects
func (b *Bound) Width() int { return b.width }

// TransitionResiduals evaluates the constraints on a concrete row
// pair. Each returned element is zero iff its constraint holds on that
// transition.
func (b *Bound) TransitionResiduals(local, next []field.Element) []field.Element {
	alg := NewFieldAlgebra()
	b.fieldEval.Eval(alg, local, next, true)
	return alg.Residuals()
}

// TransitionResidualPolynomials evaluates the constraints symbolically
// on column interpolants. local holds the column polynomials f_c(X),
// next their generator-shifted counterparts f_c(g*X).
func (b *Bound) TransitionResidualPolynomials(local, next []*polynomial.Polynomial) []*polynomial.Polynomial {
	alg := NewPolyAlgebra()
	b.polyEval.Eval(alg, local, next, true)
	return alg.Residuals()
}

// TransitionDegrees returns per-constraint degree bounds, normalized
// to trace columns of degree one
func (b *Bound) TransitionDegrees() []int {
	alg := NewDegreeAlgebra()
	local := make([]int, b.width)
	next := make([]int, b.width)
	for i := 0; i < b.width; i++ {
		local[i] = 1
		next[i] = 1
	}
	b.degreeEval.Eval(alg, local, next, true)
	return alg.Residuals()
}

// NumTransitionConstraints returns how many assertions one transition
// makes
func (b *Bound) NumTransitionConstraints() int {
	return len(b.TransitionDegrees())
}

// TransitionDegree returns the maximum constraint degree
func (b *Bound) TransitionDegree() int {
	degree := 0
	for _, d := range b.TransitionDegrees() {
		degree = max(degree, d)
	}
	return degree
}

// CheckTrace evaluates the AIR on every consecutive row pair and
// returns the indices of transitions whose constraints do not hold. A
// nil result means the trace satisfies the AIR.
//
// Proving does not call this: a violating trace runs through the whole
// pipeline and yields a proof that fails verification.
func (b *Bound) CheckTrace(t *Trace) []int {
	var violated []int
	for i := 0; i+1 < t.NumRows(); i++ {
		residuals := b.TransitionResiduals(t.Row(i).cells, t.Row(i+1).cells)
		for _, r := range residuals {
			if !r.IsZero() {
				violated = append(violated, i)
				break
			}
		}
	}
	return violated
}
