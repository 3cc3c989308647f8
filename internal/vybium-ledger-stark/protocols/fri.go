package protocols

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/polynomial"
)

// FRI is the low-degree test. The prover folds a codeword in half once
// per round, committing to every layer; the verifier recomputes the
// layer commitments and spot checks the folding relation at sampled
// indices. A codeword of degree < initial length / expansion factor
// folds down to a constant.
type FRI struct {
	params STARKParameters
	scheme *CommitmentScheme
}

// NewFRI creates the low-degree test over the given commitment scheme
func NewFRI(params STARKParameters, scheme *CommitmentScheme) *FRI {
	return &FRI{params: params, scheme: scheme}
}

// Commit runs the prover's side: fold the codeword `rounds` times,
// enqueueing every layer's root and codeword, and finish with the
// constant layer's interpolant. Folding challenges come from the
// chain after the corresponding layer root is absorbed.
func (f *FRI) Commit(codeword []field.Element, domain *ArithmeticDomain, rounds int, ps *ProofStream, chain *ChallengeChain) error {
	if len(codeword) != domain.Length {
		return fmt.Errorf("codeword length %d does not match domain length %d",
			len(codeword), domain.Length)
	}

	current := codeword
	currentDomain := domain

	for r := 0; r < rounds; r++ {
		if err := f.commitLayer(current, ps, chain); err != nil {
			return fmt.Errorf("FRI round %d: %w", r, err)
		}

		challenge := chain.Scalar()
		folded, err := foldCodeword(current, currentDomain, challenge)
		if err != nil {
			return fmt.Errorf("FRI round %d: %w", r, err)
		}

		current = folded
		currentDomain, err = currentDomain.Halve()
		if err != nil {
			return fmt.Errorf("FRI round %d: %w", r, err)
		}
	}

	if err := f.commitLayer(current, ps, chain); err != nil {
		return fmt.Errorf("FRI final layer: %w", err)
	}

	points, err := currentDomain.InterpolationPoints(current)
	if err != nil {
		return fmt.Errorf("FRI final layer: %w", err)
	}
	finalPoly := polynomial.Interpolate(points)
	return ps.Enqueue(PolynomialItem(finalPoly.Coefficients()))
}

func (f *FRI) commitLayer(codeword []field.Element, ps *ProofStream, chain *ChallengeChain) error {
	root, err := f.scheme.CommitElements(codeword)
	if err != nil {
		return err
	}
	if err := ps.Enqueue(MerkleRootItem(root)); err != nil {
		return err
	}
	chain.AbsorbDigest(root)
	return ps.Enqueue(CodewordItem(codeword))
}

// foldCodeword halves a codeword: for the coset pair {x, -x} at
// indices j and j+half,
//
//	next(x^2) = (f(x) + f(-x))/2 + challenge * (f(x) - f(-x))/(2x)
func foldCodeword(codeword []field.Element, domain *ArithmeticDomain, challenge field.Element) ([]field.Element, error) {
	if len(codeword) < 2 || len(codeword)%2 != 0 {
		return nil, fmt.Errorf("cannot fold a codeword of length %d", len(codeword))
	}

	half := len(codeword) / 2
	elements := domain.Elements()
	two := field.New(2)

	folded := make([]field.Element, half)
	for j := 0; j < half; j++ {
		a := codeword[j]
		b := codeword[j+half]
		x := elements[j]

		even := a.Add(b).Div(two)
		odd := a.Sub(b).Div(two.Mul(x))
		folded[j] = even.Add(challenge.Mul(odd))
	}
	return folded, nil
}

// FRILayers is the verifier's record of the dequeued commitment
// layers
type FRILayers struct {
	// Codewords holds one codeword per layer, the DEEP combination
	// first
	Codewords [][]field.Element
	// Elements caches each layer's domain elements
	Elements [][]field.Element
	// Challenges holds the folding challenge of every non-final layer
	Challenges []field.Element
	// FinalCoefficients is the claimed interpolant of the last layer
	FinalCoefficients []field.Element
}

// ReadCommitments runs the verifier's commitment replay: dequeue every
// layer, recompute its root, and rebuild the folding challenges
func (f *FRI) ReadCommitments(domain *ArithmeticDomain, rounds int, ps *ProofStream, chain *ChallengeChain) (*FRILayers, error) {
	layers := &FRILayers{
		Codewords:  make([][]field.Element, 0, rounds+1),
		Elements:   make([][]field.Element, 0, rounds+1),
		Challenges: make([]field.Element, 0, rounds),
	}

	currentDomain := domain
	expectedLength := domain.Length

	for r := 0; r <= rounds; r++ {
		rootItem, err := ps.DequeueExpect(ProofItemTypeMerkleRoot)
		if err != nil {
			return nil, fmt.Errorf("FRI layer %d: %w", r, err)
		}
		root, err := rootItem.AsMerkleRoot()
		if err != nil {
			return nil, fmt.Errorf("FRI layer %d: %w", r, err)
		}

		codewordItem, err := ps.DequeueExpect(ProofItemTypeCodeword)
		if err != nil {
			return nil, fmt.Errorf("FRI layer %d: %w", r, err)
		}
		codeword, err := codewordItem.AsElements()
		if err != nil {
			return nil, fmt.Errorf("FRI layer %d: %w", r, err)
		}
		if len(codeword) != expectedLength {
			return nil, fmt.Errorf("FRI layer %d has length %d, want %d", r, len(codeword), expectedLength)
		}

		recomputed, err := f.scheme.CommitElements(codeword)
		if err != nil {
			return nil, fmt.Errorf("FRI layer %d: %w", r, err)
		}
		if !digestsEqual(recomputed, root) {
			return nil, fmt.Errorf("FRI layer %d root does not match its codeword", r)
		}

		chain.AbsorbDigest(root)
		layers.Codewords = append(layers.Codewords, codeword)
		layers.Elements = append(layers.Elements, currentDomain.Elements())

		if r < rounds {
			layers.Challenges = append(layers.Challenges, chain.Scalar())
			currentDomain, err = currentDomain.Halve()
			if err != nil {
				return nil, fmt.Errorf("FRI layer %d: %w", r, err)
			}
			expectedLength /= 2
		}
	}

	polyItem, err := ps.DequeueExpect(ProofItemTypePolynomial)
	if err != nil {
		return nil, fmt.Errorf("FRI final polynomial: %w", err)
	}
	layers.FinalCoefficients, err = polyItem.AsElements()
	if err != nil {
		return nil, fmt.Errorf("FRI final polynomial: %w", err)
	}

	return layers, nil
}

// CheckFinalLayer verifies that the last layer is a constant
// codeword: its interpolant has degree <= 0 and matches the claimed
// final polynomial everywhere
func (f *FRI) CheckFinalLayer(layers *FRILayers) error {
	last := len(layers.Codewords) - 1
	codeword := layers.Codewords[last]
	elements := layers.Elements[last]

	points := make([][2]field.Element, len(codeword))
	for i := range points {
		points[i] = [2]field.Element{elements[i], codeword[i]}
	}
	interpolant := polynomial.Interpolate(points)
	if interpolant.Degree() > 0 {
		return fmt.Errorf("final FRI layer has degree %d, want a constant", interpolant.Degree())
	}

	claimed := polynomial.New(layers.FinalCoefficients)
	for i, x := range elements {
		if !claimed.Evaluate(x).Equal(codeword[i]) {
			return fmt.Errorf("claimed final polynomial disagrees with the final layer at index %d", i)
		}
	}
	return nil
}

// CheckQuery chases one query index through every folding round and
// verifies the folding relation at each step
func (f *FRI) CheckQuery(layers *FRILayers, index int) error {
	two := field.New(2)
	j := index

	for r := 0; r < len(layers.Challenges); r++ {
		codeword := layers.Codewords[r]
		half := len(codeword) / 2
		jj := j % half

		a := codeword[jj]
		b := codeword[jj+half]
		x := layers.Elements[r][jj]

		even := a.Add(b).Div(two)
		odd := a.Sub(b).Div(two.Mul(x))
		expected := even.Add(layers.Challenges[r].Mul(odd))

		if !layers.Codewords[r+1][jj].Equal(expected) {
			return fmt.Errorf("folding relation broken at round %d, index %d", r, jj)
		}
		j = jj
	}
	return nil
}

func digestsEqual(a, b hash.Digest) bool {
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
