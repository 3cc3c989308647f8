package protocols

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/polynomial"

	"github.com/vybium/vybium-ledger-stark/internal/vybium-ledger-stark/utils"
)

// friCosetOffset shifts the FRI evaluation domain off the trace
// domain. 7 generates the Goldilocks multiplicative group, so the
// offset coset is disjoint from every proper power-of-two subgroup.
const friCosetOffset uint64 = 7

// ArithmeticDomain is a multiplicative coset of power-of-two order:
// {offset * generator^i : i = 0..length-1}
type ArithmeticDomain struct {
	Offset    field.Element
	Generator field.Element
	Length    int
}

// NewArithmeticDomain creates a domain of the given power-of-two
// length with offset one
func NewArithmeticDomain(length int) (*ArithmeticDomain, error) {
	if !utils.IsPowerOfTwo(length) {
		return nil, fmt.Errorf("domain length must be a power of 2, got %d", length)
	}
	return &ArithmeticDomain{
		Offset:    field.One,
		Generator: field.PrimitiveRootOfUnity(uint64(length)),
		Length:    length,
	}, nil
}

// WithOffset returns a copy of the domain shifted to the given coset
func (d *ArithmeticDomain) WithOffset(offset field.Element) *ArithmeticDomain {
	return &ArithmeticDomain{
		Offset:    offset,
		Generator: d.Generator,
		Length:    d.Length,
	}
}

// Halve returns the image of the domain under squaring: half the
// length, squared offset and generator. One FRI folding round maps a
// codeword over d to a codeword over d.Halve().
func (d *ArithmeticDomain) Halve() (*ArithmeticDomain, error) {
	if d.Length < 2 {
		return nil, fmt.Errorf("cannot halve a domain of length %d", d.Length)
	}
	return &ArithmeticDomain{
		Offset:    d.Offset.Mul(d.Offset),
		Generator: d.Generator.Mul(d.Generator),
		Length:    d.Length / 2,
	}, nil
}

// Elements returns all domain elements in index order
func (d *ArithmeticDomain) Elements() []field.Element {
	elements := make([]field.Element, d.Length)
	current := d.Offset
	for i := 0; i < d.Length; i++ {
		elements[i] = current
		current = current.Mul(d.Generator)
	}
	return elements
}

// Evaluate evaluates a polynomial in coefficient form over the whole
// domain
func (d *ArithmeticDomain) Evaluate(poly *polynomial.Polynomial) []field.Element {
	elements := d.Elements()
	values := make([]field.Element, len(elements))
	for i, x := range elements {
		values[i] = poly.Evaluate(x)
	}
	return values
}

// InterpolationPoints pairs the domain elements with the given values
// for Lagrange interpolation
func (d *ArithmeticDomain) InterpolationPoints(values []field.Element) ([][2]field.Element, error) {
	if len(values) != d.Length {
		return nil, fmt.Errorf("have %d values for a domain of length %d", len(values), d.Length)
	}
	elements := d.Elements()
	points := make([][2]field.Element, d.Length)
	for i := range points {
		points[i] = [2]field.Element{elements[i], values[i]}
	}
	return points, nil
}

// LastElement returns the domain's final point offset*generator^(n-1)
func (d *ArithmeticDomain) LastElement() field.Element {
	return d.Offset.Mul(fieldPow(d.Generator, uint64(d.Length-1)))
}

// TransitionZerofier returns the vanishing polynomial of every domain
// point that has a successor:
//
//	Z_T(X) = (X^n - offset^n) / (X - last)
//
// The full vanishing polynomial X^n - offset^n covers the whole
// domain; dividing out the final point leaves exactly the transition
// rows.
func (d *ArithmeticDomain) TransitionZerofier() (*polynomial.Polynomial, error) {
	n := d.Length
	vanishing := make([]field.Element, n+1)
	for i := range vanishing {
		vanishing[i] = field.Zero
	}
	vanishing[0] = field.Zero.Sub(fieldPow(d.Offset, uint64(n)))
	vanishing[n] = field.One

	linear := polynomial.New([]field.Element{field.Zero.Sub(d.LastElement()), field.One})
	zerofier, remainder := polynomial.New(vanishing).Divide(linear)
	if !remainder.IsZero() {
		return nil, fmt.Errorf("transition zerofier division left a remainder")
	}
	return zerofier, nil
}

// TransitionZerofierAt evaluates the transition zerofier at one point
// without materializing the polynomial
func (d *ArithmeticDomain) TransitionZerofierAt(point field.Element) (field.Element, error) {
	denominator := point.Sub(d.LastElement())
	if denominator.IsZero() {
		return field.Zero, fmt.Errorf("point collides with the final domain element")
	}
	numerator := fieldPow(point, uint64(d.Length)).Sub(fieldPow(d.Offset, uint64(d.Length)))
	return numerator.Div(denominator), nil
}

// String returns a human-readable representation
func (d *ArithmeticDomain) String() string {
	return fmt.Sprintf("Domain{length: %d, offset: %v, generator: %v}",
		d.Length, d.Offset, d.Generator)
}

// ProverDomains collects the two domains one proof runs over
type ProverDomains struct {
	// Trace is the interpolation domain of the execution trace
	Trace *ArithmeticDomain
	// FRI is the low-degree-extended evaluation domain, on a coset
	// disjoint from the trace domain
	FRI *ArithmeticDomain
}

// DeriveProverDomains computes the domains for a trace of the given
// power-of-two height
func DeriveProverDomains(params STARKParameters, traceLength int) (*ProverDomains, error) {
	trace, err := NewArithmeticDomain(traceLength)
	if err != nil {
		return nil, fmt.Errorf("trace domain: %w", err)
	}

	fri, err := NewArithmeticDomain(params.FRIDomainLength(traceLength))
	if err != nil {
		return nil, fmt.Errorf("FRI domain: %w", err)
	}
	fri = fri.WithOffset(field.New(friCosetOffset))

	return &ProverDomains{Trace: trace, FRI: fri}, nil
}

// fieldPow raises base to a 64-bit exponent by square and multiply
func fieldPow(base field.Element, exponent uint64) field.Element {
	result := field.One
	factor := base
	for exponent > 0 {
		if exponent&1 == 1 {
			result = result.Mul(factor)
		}
		factor = factor.Mul(factor)
		exponent >>= 1
	}
	return result
}
