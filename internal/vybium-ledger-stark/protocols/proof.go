package protocols

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
)

// ProofItemType tags the payload of one proof item
type ProofItemType int

const (
	// ProofItemTypeLog2PaddedHeight carries the log2 of the trace height
	ProofItemTypeLog2PaddedHeight ProofItemType = iota

	// ProofItemTypeMerkleRoot carries a commitment root
	ProofItemTypeMerkleRoot

	// ProofItemTypeTraceColumns carries the low-degree-extended trace
	// columns
	ProofItemTypeTraceColumns

	// ProofItemTypeOutOfDomainRow carries trace openings at an
	// out-of-domain point
	ProofItemTypeOutOfDomainRow

	// ProofItemTypeOutOfDomainValue carries a single out-of-domain
	// opening
	ProofItemTypeOutOfDomainValue

	// ProofItemTypeCodeword carries a full codeword over some layer
	// domain
	ProofItemTypeCodeword

	// ProofItemTypePolynomial carries polynomial coefficients
	ProofItemTypePolynomial

	// ProofItemTypePowNonce carries the proof-of-work nonce
	ProofItemTypePowNonce
)

// String returns the item type's name
func (t ProofItemType) String() string {
	switch t {
	case ProofItemTypeLog2PaddedHeight:
		return "Log2PaddedHeight"
	case ProofItemTypeMerkleRoot:
		return "MerkleRoot"
	case ProofItemTypeTraceColumns:
		return "TraceColumns"
	case ProofItemTypeOutOfDomainRow:
		return "OutOfDomainRow"
	case ProofItemTypeOutOfDomainValue:
		return "OutOfDomainValue"
	case ProofItemTypeCodeword:
		return "Codeword"
	case ProofItemTypePolynomial:
		return "Polynomial"
	case ProofItemTypePowNonce:
		return "PowNonce"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// IncludeInFiatShamirHeuristic reports whether items of this type are
// absorbed into the transcript sponge. Commitments, openings and the
// grinding nonce shape later challenges; bulk payloads are bound
// through their roots instead.
func (t ProofItemType) IncludeInFiatShamirHeuristic() bool {
	switch t {
	case ProofItemTypeMerkleRoot,
		ProofItemTypeOutOfDomainRow,
		ProofItemTypeOutOfDomainValue,
		ProofItemTypePowNonce:
		return true
	default:
		return false
	}
}

// ProofItem is one typed entry of a proof
type ProofItem struct {
	Type ProofItemType
	Data interface{}
}

// Log2PaddedHeightItem wraps the trace height
func Log2PaddedHeightItem(log2Height uint32) ProofItem {
	return ProofItem{Type: ProofItemTypeLog2PaddedHeight, Data: log2Height}
}

// MerkleRootItem wraps a commitment root
func MerkleRootItem(root hash.Digest) ProofItem {
	return ProofItem{Type: ProofItemTypeMerkleRoot, Data: root}
}

// TraceColumnsItem wraps the extended trace columns
func TraceColumnsItem(columns [][]field.Element) ProofItem {
	return ProofItem{Type: ProofItemTypeTraceColumns, Data: columns}
}

// OutOfDomainRowItem wraps trace openings at an out-of-domain point
func OutOfDomainRowItem(row []field.Element) ProofItem {
	return ProofItem{Type: ProofItemTypeOutOfDomainRow, Data: row}
}

// OutOfDomainValueItem wraps a single out-of-domain opening
func OutOfDomainValueItem(value field.Element) ProofItem {
	return ProofItem{Type: ProofItemTypeOutOfDomainValue, Data: value}
}

// CodewordItem wraps a layer codeword
func CodewordItem(codeword []field.Element) ProofItem {
	return ProofItem{Type: ProofItemTypeCodeword, Data: codeword}
}

// PolynomialItem wraps polynomial coefficients
func PolynomialItem(coefficients []field.Element) ProofItem {
	return ProofItem{Type: ProofItemTypePolynomial, Data: coefficients}
}

// PowNonceItem wraps the grinding nonce
func PowNonceItem(nonce field.Element) ProofItem {
	return ProofItem{Type: ProofItemTypePowNonce, Data: nonce}
}

// Encode serializes the item as field elements: a type tag, a length
// prefix where the payload is variable, then the payload
func (pi ProofItem) Encode() ([]field.Element, error) {
	tag := field.New(uint64(pi.Type))

	switch pi.Type {
	case ProofItemTypeLog2PaddedHeight:
		height, ok := pi.Data.(uint32)
		if !ok {
			return nil, fmt.Errorf("%s item holds %T", pi.Type, pi.Data)
		}
		return []field.Element{tag, field.New(uint64(height))}, nil

	case ProofItemTypeMerkleRoot:
		root, ok := pi.Data.(hash.Digest)
		if !ok {
			return nil, fmt.Errorf("%s item holds %T", pi.Type, pi.Data)
		}
		encoded := make([]field.Element, 0, 1+hash.DigestLen)
		encoded = append(encoded, tag)
		encoded = append(encoded, root[:]...)
		return encoded, nil

	case ProofItemTypeTraceColumns:
		columns, ok := pi.Data.([][]field.Element)
		if !ok {
			return nil, fmt.Errorf("%s item holds %T", pi.Type, pi.Data)
		}
		columnLength := 0
		if len(columns) > 0 {
			columnLength = len(columns[0])
		}
		encoded := make([]field.Element, 0, 3+len(columns)*columnLength)
		encoded = append(encoded, tag,
			field.New(uint64(len(columns))), field.New(uint64(columnLength)))
		for _, col := range columns {
			if len(col) != columnLength {
				return nil, fmt.Errorf("ragged trace columns: %d vs %d", len(col), columnLength)
			}
			encoded = append(encoded, col...)
		}
		return encoded, nil

	case ProofItemTypeOutOfDomainRow, ProofItemTypeCodeword, ProofItemTypePolynomial:
		values, ok := pi.Data.([]field.Element)
		if !ok {
			return nil, fmt.Errorf("%s item holds %T", pi.Type, pi.Data)
		}
		encoded := make([]field.Element, 0, 2+len(values))
		encoded = append(encoded, tag, field.New(uint64(len(values))))
		encoded = append(encoded, values...)
		return encoded, nil

	case ProofItemTypeOutOfDomainValue, ProofItemTypePowNonce:
		value, ok := pi.Data.(field.Element)
		if !ok {
			return nil, fmt.Errorf("%s item holds %T", pi.Type, pi.Data)
		}
		return []field.Element{tag, value}, nil

	default:
		return nil, fmt.Errorf("cannot encode proof item of type %v", pi.Type)
	}
}

// AsLog2PaddedHeight unwraps the trace height
func (pi ProofItem) AsLog2PaddedHeight() (uint32, error) {
	height, ok := pi.Data.(uint32)
	if pi.Type != ProofItemTypeLog2PaddedHeight || !ok {
		return 0, fmt.Errorf("item is %s, not a trace height", pi.Type)
	}
	return height, nil
}

// AsMerkleRoot unwraps a commitment root
func (pi ProofItem) AsMerkleRoot() (hash.Digest, error) {
	root, ok := pi.Data.(hash.Digest)
	if pi.Type != ProofItemTypeMerkleRoot || !ok {
		return hash.Digest{}, fmt.Errorf("item is %s, not a Merkle root", pi.Type)
	}
	return root, nil
}

// AsTraceColumns unwraps the extended trace columns
func (pi ProofItem) AsTraceColumns() ([][]field.Element, error) {
	columns, ok := pi.Data.([][]field.Element)
	if pi.Type != ProofItemTypeTraceColumns || !ok {
		return nil, fmt.Errorf("item is %s, not trace columns", pi.Type)
	}
	return columns, nil
}

// AsElements unwraps a row, codeword or coefficient payload
func (pi ProofItem) AsElements() ([]field.Element, error) {
	values, ok := pi.Data.([]field.Element)
	if !ok {
		return nil, fmt.Errorf("item is %s, not an element sequence", pi.Type)
	}
	return values, nil
}

// AsElement unwraps a single-element payload
func (pi ProofItem) AsElement() (field.Element, error) {
	value, ok := pi.Data.(field.Element)
	if !ok {
		return field.Zero, fmt.Errorf("item is %s, not a single element", pi.Type)
	}
	return value, nil
}

// Proof is an ordered sequence of typed items. Replaying the items
// through a fresh transcript reproduces the prover's challenges.
type Proof struct {
	Items []ProofItem
}

// Validate performs structural checks: a proof must carry its trace
// height and at least one commitment
func (p *Proof) Validate() error {
	if len(p.Items) == 0 {
		return fmt.Errorf("proof has no items")
	}
	hasHeight := false
	hasRoot := false
	for _, item := range p.Items {
		switch item.Type {
		case ProofItemTypeLog2PaddedHeight:
			hasHeight = true
		case ProofItemTypeMerkleRoot:
			hasRoot = true
		}
	}
	if !hasHeight {
		return fmt.Errorf("proof is missing the trace height")
	}
	if !hasRoot {
		return fmt.Errorf("proof has no commitment")
	}
	return nil
}

// GetPaddedHeight returns the trace height recorded in the proof
func (p *Proof) GetPaddedHeight() (int, error) {
	for _, item := range p.Items {
		if item.Type == ProofItemTypeLog2PaddedHeight {
			height, err := item.AsLog2PaddedHeight()
			if err != nil {
				return 0, err
			}
			return 1 << height, nil
		}
	}
	return 0, fmt.Errorf("proof is missing the trace height")
}

// GetMerkleRoots returns every commitment root in item order
func (p *Proof) GetMerkleRoots() []hash.Digest {
	var roots []hash.Digest
	for _, item := range p.Items {
		if item.Type == ProofItemTypeMerkleRoot {
			if root, err := item.AsMerkleRoot(); err == nil {
				roots = append(roots, root)
			}
		}
	}
	return roots
}

// Size returns the total number of encoded field elements
func (p *Proof) Size() int {
	total := 0
	for _, item := range p.Items {
		encoded, err := item.Encode()
		if err != nil {
			continue
		}
		total += len(encoded)
	}
	return total
}

// String returns a human-readable summary
func (p *Proof) String() string {
	counts := make(map[ProofItemType]int)
	for _, item := range p.Items {
		counts[item.Type]++
	}
	return fmt.Sprintf("Proof{items: %d, roots: %d, elements: %d}",
		len(p.Items), counts[ProofItemTypeMerkleRoot], p.Size())
}
