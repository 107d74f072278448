package transaction

import (
	"github.com/veilcoin/core/pkg/types"
)

// Range identifies the leaf indices [From, To] that a Merkle subtree roots.
type Range struct {
	From uint64
	To   uint64
}

// Valid reports whether the range is well-formed.
func (r Range) Valid() bool {
	return r.From <= r.To
}

// Len returns the number of leaves the range covers.
func (r Range) Len() uint64 {
	return r.To - r.From + 1
}

// Compare orders ranges by From, then by To.
func (r Range) Compare(other Range) int {
	switch {
	case r.From < other.From:
		return -1
	case r.From > other.From:
		return 1
	case r.To < other.To:
		return -1
	case r.To > other.To:
		return 1
	default:
		return 0
	}
}

// MembershipElement is one internal node of a membership proof: the hash of
// the subtree rooting the given leaf range.
type MembershipElement struct {
	Range Range
	Hash  types.MembershipHash
}

// Compare orders elements by their ranges.
func (e MembershipElement) Compare(other MembershipElement) int {
	return e.Range.Compare(other.Range)
}

// MembershipProof is a range-indexed Merkle authentication path for the TxOut
// at Index, against a ledger whose last output had HighestIndex. Elements are
// ordered from the leaf's sibling upward; combining each with the running
// hash reconstructs the root. Root reconstruction itself lives with the
// ledger; this type enforces only structural invariants.
type MembershipProof struct {
	Index        uint64
	HighestIndex uint64
	Elements     []MembershipElement
}

// NewMembershipProof builds a proof and checks its structural invariants.
func NewMembershipProof(index, highestIndex uint64, elements []MembershipElement) (MembershipProof, error) {
	p := MembershipProof{
		Index:        index,
		HighestIndex: highestIndex,
		Elements:     elements,
	}
	if err := p.Validate(); err != nil {
		return MembershipProof{}, err
	}
	return p, nil
}

// Validate checks the structural invariants: index within range, every
// element range well-formed, and ranges strictly widening from the leaf's
// sibling upward.
func (p *MembershipProof) Validate() error {
	if p.Index > p.HighestIndex {
		return ErrIndexOutOfRange
	}
	var prevLen uint64
	for i, e := range p.Elements {
		if !e.Range.Valid() {
			return ErrInvalidRange
		}
		if i > 0 && e.Range.Len() <= prevLen {
			return ErrUnorderedElements
		}
		prevLen = e.Range.Len()
	}
	return nil
}

// Equal reports whether two proofs are identical.
func (p *MembershipProof) Equal(other *MembershipProof) bool {
	if p.Index != other.Index || p.HighestIndex != other.HighestIndex {
		return false
	}
	if len(p.Elements) != len(other.Elements) {
		return false
	}
	for i := range p.Elements {
		if p.Elements[i] != other.Elements[i] {
			return false
		}
	}
	return true
}
