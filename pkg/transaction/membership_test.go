package transaction

import (
	"errors"
	"testing"

	"github.com/veilcoin/core/pkg/types"
)

func TestRangeValidity(t *testing.T) {
	if !(Range{From: 3, To: 7}).Valid() {
		t.Error("well-formed range reported invalid")
	}
	if !(Range{From: 4, To: 4}).Valid() {
		t.Error("single-leaf range reported invalid")
	}
	if (Range{From: 5, To: 4}).Valid() {
		t.Error("inverted range reported valid")
	}
	if got := (Range{From: 2, To: 5}).Len(); got != 4 {
		t.Errorf("range length %d, want 4", got)
	}
}

func TestRangeOrdering(t *testing.T) {
	a := Range{From: 0, To: 1}
	b := Range{From: 0, To: 3}
	c := Range{From: 2, To: 3}

	if a.Compare(b) != -1 || b.Compare(a) != 1 {
		t.Error("ranges with equal From must order by To")
	}
	if a.Compare(c) != -1 || c.Compare(a) != 1 {
		t.Error("ranges must order by From first")
	}
	if a.Compare(a) != 0 {
		t.Error("a range must compare equal to itself")
	}

	ea := MembershipElement{Range: a}
	ec := MembershipElement{Range: c}
	if ea.Compare(ec) != -1 {
		t.Error("element ordering must follow range ordering")
	}
}

func TestMembershipProofValidation(t *testing.T) {
	valid := []MembershipElement{
		{Range: Range{From: 1, To: 1}, Hash: types.MembershipHash{1}},
		{Range: Range{From: 2, To: 3}, Hash: types.MembershipHash{2}},
		{Range: Range{From: 4, To: 7}, Hash: types.MembershipHash{3}},
	}
	if _, err := NewMembershipProof(0, 7, valid); err != nil {
		t.Errorf("valid proof rejected: %v", err)
	}

	if _, err := NewMembershipProof(8, 7, valid); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}

	inverted := []MembershipElement{
		{Range: Range{From: 3, To: 2}},
	}
	if _, err := NewMembershipProof(0, 7, inverted); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}

	notWidening := []MembershipElement{
		{Range: Range{From: 2, To: 3}},
		{Range: Range{From: 4, To: 5}},
	}
	if _, err := NewMembershipProof(0, 7, notWidening); !errors.Is(err, ErrUnorderedElements) {
		t.Errorf("expected ErrUnorderedElements, got %v", err)
	}
}

func TestMembershipProofEqual(t *testing.T) {
	a := testMembershipProof(t)
	b := testMembershipProof(t)
	if !a.Equal(&b) {
		t.Error("identical proofs compare unequal")
	}

	b.Elements[0].Hash[0] ^= 1
	if a.Equal(&b) {
		t.Error("proofs with different hashes compare equal")
	}

	c := testMembershipProof(t)
	c.HighestIndex++
	if a.Equal(&c) {
		t.Error("proofs with different highest indices compare equal")
	}
}
