package air

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/polynomial"
)

// Algebra is the capability a constraint evaluation needs from its
// value domain: addition, subtraction, and an equality assertion.
// Constraint bodies are written once against this interface and run
// unchanged over concrete field elements, polynomials, and degree
// bounds.
type Algebra[E any] interface {
	Add(a, b E) E
	Sub(a, b E) E
	// AssertEq demands a == b. Instances record the residual a - b
	// instead of failing; a violated assertion surfaces as a nonzero
	// residual and ultimately as a proof that does not verify.
	AssertEq(a, b E)
}

// FieldAlgebra evaluates constraints over concrete field elements.
type FieldAlgebra struct {
	residuals []field.Element
}

// NewFieldAlgebra creates an empty recorder
func NewFieldAlgebra() *FieldAlgebra { return &FieldAlgebra{} }

func (a *FieldAlgebra) Add(x, y field.Element) field.Element { return x.Add(y) }

func (a *FieldAlgebra) Sub(x, y field.Element) field.Element { return x.Sub(y) }

func (a *FieldAlgebra) AssertEq(x, y field.Element) {
	a.residuals = append(a.residuals, x.Sub(y))
}

// Residuals returns one element per recorded assertion, zero iff the
// assertion held
func (a *FieldAlgebra) Residuals() []field.Element { return a.residuals }

// PolyAlgebra evaluates constraints over univariate polynomials. An
// assertion becomes a residual polynomial; for a satisfied constraint
// the residual vanishes on the whole transition domain.
type PolyAlgebra struct {
	residuals []*polynomial.Polynomial
}

// NewPolyAlgebra creates an empty recorder
func NewPolyAlgebra() *PolyAlgebra { return &PolyAlgebra{} }

func (a *PolyAlgebra) Add(x, y *polynomial.Polynomial) *polynomial.Polynomial {
	return polyLinComb(x, field.One, y)
}

func (a *PolyAlgebra) Sub(x, y *polynomial.Polynomial) *polynomial.Polynomial {
	return polyLinComb(x, field.Zero.Sub(field.One), y)
}

func (a *PolyAlgebra) AssertEq(x, y *polynomial.Polynomial) {
	a.residuals = append(a.residuals, a.Sub(x, y))
}

// Residuals returns one polynomial per recorded assertion
func (a *PolyAlgebra) Residuals() []*polynomial.Polynomial { return a.residuals }

// polyLinComb computes x + scale*y in coefficient form
func polyLinComb(x *polynomial.Polynomial, scale field.Element, y *polynomial.Polynomial) *polynomial.Polynomial {
	xc := x.Coefficients()
	yc := y.Coefficients()

	n := len(xc)
	if len(yc) > n {
		n = len(yc)
	}

	coeffs := make([]field.Element, n)
	for i := 0; i < n; i++ {
		coeffs[i] = field.Zero
	}
	for i, c := range xc {
		coeffs[i] = coeffs[i].Add(c)
	}
	for i, c := range yc {
		coeffs[i] = coeffs[i].Add(scale.Mul(c))
	}

	return polynomial.New(coeffs)
}

// DegreeAlgebra evaluates constraints over degree bounds. Adding or
// subtracting two polynomials bounds the result's degree by the larger
// of the two, so both operations take the max; an assertion records
// the bound of its residual.
type DegreeAlgebra struct {
	residuals []int
}

// NewDegreeAlgebra creates an empty recorder
func NewDegreeAlgebra() *DegreeAlgebra { return &DegreeAlgebra{} }

func (a *DegreeAlgebra) Add(x, y int) int { return max(x, y) }

func (a *DegreeAlgebra) Sub(x, y int) int { return max(x, y) }

func (a *DegreeAlgebra) AssertEq(x, y int) {
	a.residuals = append(a.residuals, max(x, y))
}

// Residuals returns one degree bound per recorded assertion
func (a *DegreeAlgebra) Residuals() []int { return a.residuals }
