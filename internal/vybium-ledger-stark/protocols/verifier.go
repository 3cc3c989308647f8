package protocols

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-ledger-stark/internal/vybium-ledger-stark/utils"
)

// Verifier checks proofs by replaying the prover's transcript: every
// commitment root is recomputed from the committed data, every
// challenge is re-derived, and the DEEP combination is re-evaluated at
// the sampled query indices. Any mismatch is a hard failure.
type Verifier struct {
	stark *Stark
}

// NewVerifier creates a verifier over the given configuration
func NewVerifier(stark *Stark) *Verifier {
	return &Verifier{stark: stark}
}

// Verify checks the transcript against the claim. It returns nil only
// if the full replay succeeds; the error names the first check that
// failed.
func (v *Verifier) Verify(air Air, claim Claim, ps *ProofStream) error {
	if err := claim.Validate(); err != nil {
		return fmt.Errorf("invalid claim: %w", err)
	}
	if air.Width() != int(claim.TraceWidth) {
		return fmt.Errorf("AIR width %d does not match claimed width %d", air.Width(), claim.TraceWidth)
	}
	n := int(claim.TraceLength)
	if !utils.IsPowerOfTwo(n) {
		return fmt.Errorf("claimed trace height must be a power of 2, got %d", n)
	}

	// Rebuild the Fiat-Shamir state the prover started from.
	ps.AlterFiatShamirStateWith(claim.Encode())
	chain := v.stark.NewChallengeChain(claim.Digest())

	heightItem, err := ps.DequeueExpect(ProofItemTypeLog2PaddedHeight)
	if err != nil {
		return err
	}
	log2Height, err := heightItem.AsLog2PaddedHeight()
	if err != nil {
		return err
	}
	if int(log2Height) != utils.Log2(n) {
		return fmt.Errorf("proof is for height 2^%d, claim says %d rows", log2Height, n)
	}

	domains, err := DeriveProverDomains(v.stark.Params, n)
	if err != nil {
		return fmt.Errorf("failed to derive domains: %w", err)
	}

	traceColumns, err := v.readTraceCommitment(air, domains, ps, chain)
	if err != nil {
		return err
	}

	// A single-row trace has no transitions; the commitment check is
	// the whole verification.
	if n == 1 {
		if !ps.Exhausted() {
			return fmt.Errorf("transcript has %d unread trailing items", ps.TranscriptLength()-ps.ItemsIndex)
		}
		return nil
	}

	weights := chain.Scalars(air.NumTransitionConstraints())

	quotientCodeword, err := v.readCommittedCodeword(domains.FRI.Length, ps, chain, "quotient")
	if err != nil {
		return err
	}
	randomizerCodeword, err := v.readCommittedCodeword(domains.FRI.Length, ps, chain, "randomizer")
	if err != nil {
		return err
	}

	z := chain.Scalar()
	shiftedZ := z.Mul(domains.Trace.Generator)

	width := air.Width()
	localOpening, err := v.readOutOfDomainRow(width, ps, chain)
	if err != nil {
		return err
	}
	nextOpening, err := v.readOutOfDomainRow(width, ps, chain)
	if err != nil {
		return err
	}
	quotientItem, err := ps.DequeueExpect(ProofItemTypeOutOfDomainValue)
	if err != nil {
		return err
	}
	quotientOpening, err := quotientItem.AsElement()
	if err != nil {
		return err
	}
	chain.AbsorbElements([]field.Element{quotientOpening})

	// Out-of-domain consistency: the weighted residuals evaluated on
	// the opened rows must equal the opened quotient times the
	// zerofier. A trace that violates a constraint fails here.
	residuals := air.TransitionResiduals(localOpening, nextOpening)
	combined := field.Zero
	for j, residual := range residuals {
		combined = combined.Add(weights[j].Mul(residual))
	}
	zerofierAtZ, err := domains.Trace.TransitionZerofierAt(z)
	if err != nil {
		return fmt.Errorf("out-of-domain point: %w", err)
	}
	if !combined.Equal(quotientOpening.Mul(zerofierAtZ)) {
		return fmt.Errorf("transition constraints do not hold at the out-of-domain point")
	}

	deepCoeffs := chain.Scalars(2*width + 2)

	rounds := v.stark.Params.NumFRIRounds(n)
	layers, err := v.stark.FRI.ReadCommitments(domains.FRI, rounds, ps, chain)
	if err != nil {
		return err
	}
	if err := v.stark.FRI.CheckFinalLayer(layers); err != nil {
		return err
	}

	nonceItem, err := ps.DequeueExpect(ProofItemTypePowNonce)
	if err != nil {
		return err
	}
	nonce, err := nonceItem.AsElement()
	if err != nil {
		return err
	}
	if !chain.CheckGrind(nonce, v.stark.Params.ProofOfWorkBits) {
		return fmt.Errorf("proof-of-work nonce does not clear %d bits", v.stark.Params.ProofOfWorkBits)
	}

	if !ps.Exhausted() {
		return fmt.Errorf("transcript has %d unread trailing items", ps.TranscriptLength()-ps.ItemsIndex)
	}

	// Spot checks. The indices depend on the full transcript, so a
	// prover cannot steer them without changing what they bind.
	indices, err := ps.SampleIndices(domains.FRI.Length, v.stark.Params.NumCollinearityChecks)
	if err != nil {
		return err
	}

	friElements := layers.Elements[0]
	for _, index := range indices {
		expected, err := deepAt(traceColumns, quotientCodeword, randomizerCodeword,
			friElements[index], index, z, shiftedZ, localOpening, nextOpening, quotientOpening, deepCoeffs)
		if err != nil {
			return err
		}
		if !layers.Codewords[0][index].Equal(expected) {
			return fmt.Errorf("DEEP combination mismatch at index %d", index)
		}
		if err := v.stark.FRI.CheckQuery(layers, index); err != nil {
			return err
		}
	}

	return nil
}

// readTraceCommitment dequeues the trace root and columns, recomputes
// the root from the columns and absorbs it into the challenge chain
func (v *Verifier) readTraceCommitment(air Air, domains *ProverDomains, ps *ProofStream, chain *ChallengeChain) ([][]field.Element, error) {
	rootItem, err := ps.DequeueExpect(ProofItemTypeMerkleRoot)
	if err != nil {
		return nil, fmt.Errorf("trace commitment: %w", err)
	}
	root, err := rootItem.AsMerkleRoot()
	if err != nil {
		return nil, fmt.Errorf("trace commitment: %w", err)
	}

	columnsItem, err := ps.DequeueExpect(ProofItemTypeTraceColumns)
	if err != nil {
		return nil, fmt.Errorf("trace commitment: %w", err)
	}
	columns, err := columnsItem.AsTraceColumns()
	if err != nil {
		return nil, fmt.Errorf("trace commitment: %w", err)
	}
	if len(columns) != air.Width() {
		return nil, fmt.Errorf("proof carries %d trace columns, want %d", len(columns), air.Width())
	}
	for j, column := range columns {
		if len(column) != domains.FRI.Length {
			return nil, fmt.Errorf("trace column %d has length %d, want %d", j, len(column), domains.FRI.Length)
		}
	}

	recomputed, err := v.stark.Commitment.CommitColumns(columns)
	if err != nil {
		return nil, fmt.Errorf("trace commitment: %w", err)
	}
	if !digestsEqual(recomputed, root) {
		return nil, fmt.Errorf("trace root does not match the committed columns")
	}

	chain.AbsorbDigest(root)
	return columns, nil
}

// readCommittedCodeword dequeues a root and codeword pair, recomputes
// the root and absorbs it into the challenge chain
func (v *Verifier) readCommittedCodeword(length int, ps *ProofStream, chain *ChallengeChain, name string) ([]field.Element, error) {
	rootItem, err := ps.DequeueExpect(ProofItemTypeMerkleRoot)
	if err != nil {
		return nil, fmt.Errorf("%s commitment: %w", name, err)
	}
	root, err := rootItem.AsMerkleRoot()
	if err != nil {
		return nil, fmt.Errorf("%s commitment: %w", name, err)
	}

	codewordItem, err := ps.DequeueExpect(ProofItemTypeCodeword)
	if err != nil {
		return nil, fmt.Errorf("%s commitment: %w", name, err)
	}
	codeword, err := codewordItem.AsElements()
	if err != nil {
		return nil, fmt.Errorf("%s commitment: %w", name, err)
	}
	if len(codeword) != length {
		return nil, fmt.Errorf("%s codeword has length %d, want %d", name, len(codeword), length)
	}

	recomputed, err := v.stark.Commitment.CommitElements(codeword)
	if err != nil {
		return nil, fmt.Errorf("%s commitment: %w", name, err)
	}
	if !digestsEqual(recomputed, root) {
		return nil, fmt.Errorf("%s root does not match its codeword", name)
	}

	chain.AbsorbDigest(root)
	return codeword, nil
}

// readOutOfDomainRow dequeues one opened row and absorbs it into the
// challenge chain
func (v *Verifier) readOutOfDomainRow(width int, ps *ProofStream, chain *ChallengeChain) ([]field.Element, error) {
	item, err := ps.DequeueExpect(ProofItemTypeOutOfDomainRow)
	if err != nil {
		return nil, err
	}
	row, err := item.AsElements()
	if err != nil {
		return nil, err
	}
	if len(row) != width {
		return nil, fmt.Errorf("out-of-domain row has %d entries, want %d", len(row), width)
	}
	chain.AbsorbElements(row)
	return row, nil
}
