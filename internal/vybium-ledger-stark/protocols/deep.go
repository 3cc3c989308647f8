package protocols

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// deepAt evaluates the DEEP combination at one evaluation-domain
// point x:
//
//	d(x) = sum_c k[2c]   * (f_c(x) - f_c(z))  / (x - z)
//	     + sum_c k[2c+1] * (f_c(x) - f_c(gz)) / (x - gz)
//	     + k[2w]   * (q(x) - q(z)) / (x - z)
//	     + k[2w+1] * r(x)
//
// Subtracting the opened value before dividing drops every term's
// degree below the trace length, so the low-degree test that follows
// simultaneously binds the committed codewords to the out-of-domain
// openings. The prover evaluates this over the whole domain; the
// verifier re-evaluates it at the sampled query indices.
func deepAt(
	traceColumns [][]field.Element,
	quotientCodeword, randomizerCodeword []field.Element,
	x field.Element, index int,
	z, shiftedZ field.Element,
	localOpening, nextOpening []field.Element,
	quotientOpening field.Element,
	coeffs []field.Element,
) (field.Element, error) {
	denomLocal := x.Sub(z)
	denomNext := x.Sub(shiftedZ)
	if denomLocal.IsZero() || denomNext.IsZero() {
		return field.Zero, fmt.Errorf("out-of-domain point collides with the evaluation domain")
	}

	width := len(traceColumns)
	acc := field.Zero
	for c := 0; c < width; c++ {
		local := traceColumns[c][index].Sub(localOpening[c]).Div(denomLocal)
		next := traceColumns[c][index].Sub(nextOpening[c]).Div(denomNext)
		acc = acc.Add(coeffs[2*c].Mul(local))
		acc = acc.Add(coeffs[2*c+1].Mul(next))
	}

	quotientTerm := quotientCodeword[index].Sub(quotientOpening).Div(denomLocal)
	acc = acc.Add(coeffs[2*width].Mul(quotientTerm))
	acc = acc.Add(coeffs[2*width+1].Mul(randomizerCodeword[index]))

	return acc, nil
}

// deepCombination evaluates the DEEP combination over the whole
// evaluation domain
func deepCombination(
	traceColumns [][]field.Element,
	quotientCodeword, randomizerCodeword []field.Element,
	domain *ArithmeticDomain,
	z, shiftedZ field.Element,
	localOpening, nextOpening []field.Element,
	quotientOpening field.Element,
	coeffs []field.Element,
) ([]field.Element, error) {
	elements := domain.Elements()
	deep := make([]field.Element, domain.Length)
	for i, x := range elements {
		value, err := deepAt(traceColumns, quotientCodeword, randomizerCodeword,
			x, i, z, shiftedZ, localOpening, nextOpening, quotientOpening, coeffs)
		if err != nil {
			return nil, err
		}
		deep[i] = value
	}
	return deep, nil
}
