package protocols

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/polynomial"

	"github.com/vybium/vybium-ledger-stark/internal/vybium-ledger-stark/utils"
)

// Prover generates STARK proofs.
//
// The pipeline: bind the claim, commit to the low-degree-extended
// trace, weigh the transition residuals into a quotient, commit to the
// quotient and a randomizer, open everything at an out-of-domain
// point, fold the DEEP combination through FRI, and grind the
// proof-of-work nonce.
type Prover struct {
	stark          *Stark
	randomizerSeed [32]byte
}

// NewProver creates a prover with fresh randomizer entropy
func NewProver(stark *Stark) (*Prover, error) {
	p := &Prover{stark: stark}
	if _, err := rand.Read(p.randomizerSeed[:]); err != nil {
		return nil, fmt.Errorf("failed to seed the randomizer: %w", err)
	}
	return p, nil
}

// SetRandomizerSeed fixes the randomizer seed for reproducible tests.
// A predictable seed weakens the hiding of the committed randomizer,
// so production provers keep the entropy NewProver drew.
func (p *Prover) SetRandomizerSeed(seed [32]byte) {
	p.randomizerSeed = seed
}

// Prove generates a proof that the trace satisfies the AIR under the
// given claim. The transcript must be fresh.
//
// Constraint violations are not detected here. A violating trace runs
// the whole pipeline (with a warning when the quotient division leaves
// a remainder) and yields a proof that fails verification.
func (p *Prover) Prove(air Air, claim Claim, trace TraceSource, ps *ProofStream) (*Proof, error) {
	if err := claim.Validate(); err != nil {
		return nil, fmt.Errorf("invalid claim: %w", err)
	}
	if air.Width() != trace.Width() {
		return nil, fmt.Errorf("AIR width %d does not match trace width %d", air.Width(), trace.Width())
	}
	if int(claim.TraceLength) != trace.NumRows() || int(claim.TraceWidth) != trace.Width() {
		return nil, fmt.Errorf("claim %v does not match a %dx%d trace",
			claim, trace.NumRows(), trace.Width())
	}
	if air.TransitionDegree() > 2 {
		return nil, fmt.Errorf("constraint degree %d needs quotient splitting, which this pipeline does not do",
			air.TransitionDegree())
	}

	n := trace.NumRows()
	if !utils.IsPowerOfTwo(n) {
		return nil, fmt.Errorf("trace height must be a power of 2, got %d", n)
	}

	// Bind the claim before any commitment.
	ps.AlterFiatShamirStateWith(claim.Encode())
	chain := p.stark.NewChallengeChain(claim.Digest())

	if err := ps.Enqueue(Log2PaddedHeightItem(uint32(utils.Log2(n)))); err != nil {
		return nil, err
	}

	domains, err := DeriveProverDomains(p.stark.Params, n)
	if err != nil {
		return nil, fmt.Errorf("failed to derive domains: %w", err)
	}

	// Commit to the low-degree-extended trace.
	table, err := NewTraceTable(trace, domains, p.stark.Commitment)
	if err != nil {
		return nil, err
	}
	if err := table.Interpolate(); err != nil {
		return nil, err
	}
	if err := table.LowDegreeExtend(); err != nil {
		return nil, err
	}
	traceRoot, err := table.Commit()
	if err != nil {
		return nil, err
	}
	if err := ps.Enqueue(MerkleRootItem(traceRoot)); err != nil {
		return nil, err
	}
	chain.AbsorbDigest(traceRoot)
	if err := ps.Enqueue(TraceColumnsItem(table.ExtendedColumns())); err != nil {
		return nil, err
	}

	// A single-row trace has no transitions; the commitment is the
	// whole proof.
	if n == 1 {
		return ps.ToProof(), nil
	}

	weights := chain.Scalars(air.NumTransitionConstraints())

	// Quotient commitment.
	quotientPoly, err := p.combineQuotients(air, table, domains, weights)
	if err != nil {
		return nil, err
	}
	quotientCodeword := domains.FRI.Evaluate(quotientPoly)
	quotientRoot, err := p.stark.Commitment.CommitElements(quotientCodeword)
	if err != nil {
		return nil, fmt.Errorf("quotient commitment failed: %w", err)
	}
	if err := ps.Enqueue(MerkleRootItem(quotientRoot)); err != nil {
		return nil, err
	}
	chain.AbsorbDigest(quotientRoot)
	if err := ps.Enqueue(CodewordItem(quotientCodeword)); err != nil {
		return nil, err
	}

	// Randomizer commitment.
	randomizerPoly := p.randomizerPolynomial(n, traceRoot)
	randomizerCodeword := domains.FRI.Evaluate(randomizerPoly)
	randomizerRoot, err := p.stark.Commitment.CommitElements(randomizerCodeword)
	if err != nil {
		return nil, fmt.Errorf("randomizer commitment failed: %w", err)
	}
	if err := ps.Enqueue(MerkleRootItem(randomizerRoot)); err != nil {
		return nil, err
	}
	chain.AbsorbDigest(randomizerRoot)
	if err := ps.Enqueue(CodewordItem(randomizerCodeword)); err != nil {
		return nil, err
	}

	// Out-of-domain openings.
	z := chain.Scalar()
	g := domains.Trace.Generator
	shiftedZ := z.Mul(g)

	width := air.Width()
	localOpening := make([]field.Element, width)
	nextOpening := make([]field.Element, width)
	for c := 0; c < width; c++ {
		localOpening[c] = table.ColumnPolynomial(c).Evaluate(z)
		nextOpening[c] = table.ColumnPolynomial(c).Evaluate(shiftedZ)
	}
	quotientOpening := quotientPoly.Evaluate(z)

	if err := ps.Enqueue(OutOfDomainRowItem(localOpening)); err != nil {
		return nil, err
	}
	chain.AbsorbElements(localOpening)
	if err := ps.Enqueue(OutOfDomainRowItem(nextOpening)); err != nil {
		return nil, err
	}
	chain.AbsorbElements(nextOpening)
	if err := ps.Enqueue(OutOfDomainValueItem(quotientOpening)); err != nil {
		return nil, err
	}
	chain.AbsorbElements([]field.Element{quotientOpening})

	// DEEP combination and FRI.
	deepCoeffs := chain.Scalars(2*width + 2)
	deep, err := deepCombination(table.ExtendedColumns(), quotientCodeword, randomizerCodeword,
		domains.FRI, z, shiftedZ, localOpening, nextOpening, quotientOpening, deepCoeffs)
	if err != nil {
		return nil, err
	}

	rounds := p.stark.Params.NumFRIRounds(n)
	if err := p.stark.FRI.Commit(deep, domains.FRI, rounds, ps, chain); err != nil {
		return nil, err
	}

	// Grind the nonce last, so it binds the full transcript and gates
	// the query indices.
	nonce := chain.Grind(p.stark.Params.ProofOfWorkBits)
	if err := ps.Enqueue(PowNonceItem(nonce)); err != nil {
		return nil, err
	}

	return ps.ToProof(), nil
}

// combineQuotients evaluates the constraints symbolically on the
// column interpolants and divides the weighted residuals by the
// transition zerofier.
//
// A residual that does not vanish on the transition domain leaves a
// nonzero remainder. That is logged, not fatal: the pipeline completes
// and the resulting proof fails the out-of-domain consistency check.
func (p *Prover) combineQuotients(air Air, table *TraceTable, domains *ProverDomains, weights []field.Element) (*polynomial.Polynomial, error) {
	locals := table.ColumnPolynomials()
	nexts := make([]*polynomial.Polynomial, len(locals))
	for c, poly := range locals {
		nexts[c] = shiftPolynomial(poly, domains.Trace.Generator)
	}

	residuals := air.TransitionResidualPolynomials(locals, nexts)
	if len(residuals) != len(weights) {
		return nil, fmt.Errorf("have %d weights for %d residuals", len(weights), len(residuals))
	}

	zerofier, err := domains.Trace.TransitionZerofier()
	if err != nil {
		return nil, err
	}

	combined := polynomial.New([]field.Element{field.Zero})
	for j, residual := range residuals {
		quotient, remainder := residual.Divide(zerofier)
		if !remainder.IsZero() {
			fmt.Fprintf(os.Stderr, "Warning: transition residual %d does not vanish on the transition domain (remainder degree %d)\n",
				j, remainder.Degree())
		}
		combined = addPolynomials(combined, scalePolynomial(quotient, weights[j]))
	}
	return combined, nil
}

// randomizerPolynomial draws the random polynomial whose codeword
// rides along in the DEEP combination, hiding the committed layers.
// The coefficient count is capped at the trace length so the
// combination stays below the folding degree bound.
func (p *Prover) randomizerPolynomial(traceLength int, traceRoot hash.Digest) *polynomial.Polynomial {
	seed := make([]byte, 0, len(p.randomizerSeed)+hash.DigestLen*8)
	seed = append(seed, p.randomizerSeed[:]...)
	for _, elem := range traceRoot {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], elem.Value())
		seed = append(seed, buf[:]...)
	}

	count := min(p.stark.Params.NumTraceRandomizers, traceLength)
	sampler := utils.NewSampler(seed)
	return polynomial.New(sampler.FieldElements(count))
}

// shiftPolynomial maps f(X) to f(g*X) by scaling coefficient k with
// g^k
func shiftPolynomial(poly *polynomial.Polynomial, g field.Element) *polynomial.Polynomial {
	coeffs := poly.Coefficients()
	shifted := make([]field.Element, len(coeffs))
	factor := field.One
	for k, c := range coeffs {
		shifted[k] = c.Mul(factor)
		factor = factor.Mul(g)
	}
	return polynomial.New(shifted)
}

// addPolynomials sums two polynomials in coefficient form
func addPolynomials(a, b *polynomial.Polynomial) *polynomial.Polynomial {
	ac := a.Coefficients()
	bc := b.Coefficients()

	n := len(ac)
	if len(bc) > n {
		n = len(bc)
	}

	coeffs := make([]field.Element, n)
	for i := range coeffs {
		coeffs[i] = field.Zero
	}
	for i, c := range ac {
		coeffs[i] = coeffs[i].Add(c)
	}
	for i, c := range bc {
		coeffs[i] = coeffs[i].Add(c)
	}
	return polynomial.New(coeffs)
}

// scalePolynomial multiplies every coefficient by the scalar
func scalePolynomial(poly *polynomial.Polynomial, scalar field.Element) *polynomial.Polynomial {
	coeffs := poly.Coefficients()
	scaled := make([]field.Element, len(coeffs))
	for i, c := range coeffs {
		scaled[i] = c.Mul(scalar)
	}
	return polynomial.New(scaled)
}
