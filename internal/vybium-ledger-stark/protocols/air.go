package protocols

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/polynomial"
)

// Air is the constraint system the backend proves. The air package
// provides implementations bound over the evaluation algebras; the
// interface is structural, so the two packages stay decoupled.
type Air interface {
	// Width is the number of trace columns the AIR reads
	Width() int

	// NumTransitionConstraints is the number of assertions one
	// transition makes
	NumTransitionConstraints() int

	// TransitionDegree is the maximum constraint degree, normalized to
	// trace columns of degree one
	TransitionDegree() int

	// TransitionResiduals evaluates the constraints on a concrete row
	// pair; a residual is zero iff its constraint holds
	TransitionResiduals(local, next []field.Element) []field.Element

	// TransitionResidualPolynomials evaluates the constraints on
	// column interpolants f_c(X) and their shifted counterparts
	// f_c(g*X); a satisfied constraint's residual vanishes on the
	// transition domain
	TransitionResidualPolynomials(local, next []*polynomial.Polynomial) []*polynomial.Polynomial
}

// TraceSource is the backend's view of an execution trace
type TraceSource interface {
	NumRows() int
	Width() int
	Column(j int) []field.Element
}
