package ledger

import (
	"context"
	"fmt"
	"testing"

	"golang.org/x/crypto/blake2b"

	"github.com/veilcoin/core/pkg/account"
	"github.com/veilcoin/core/pkg/curve"
	"github.com/veilcoin/core/pkg/transaction"
)

func testScalar(seed string) curve.Scalar {
	return curve.ScalarFromWideBytes(blake2b.Sum512([]byte(seed)))
}

func testTxOut(t *testing.T, seed string) transaction.TxOut {
	t.Helper()
	key := &account.AccountKey{
		ViewPrivate:  testScalar(seed + "-view"),
		SpendPrivate: testScalar(seed + "-spend"),
	}
	txOut, err := transaction.NewTxOut(
		100, key.PublicAddress(), testScalar(seed+"-tx"),
		transaction.EncryptedFogHint{}, transaction.DefaultMemo(),
	)
	if err != nil {
		t.Fatal(err)
	}
	return txOut
}

func buildTree(t *testing.T, n int) (*Tree, []transaction.TxOut) {
	t.Helper()
	ctx := context.Background()
	tree, err := NewTree(ctx, NewInMemoryTreeStore())
	if err != nil {
		t.Fatal(err)
	}

	outs := make([]transaction.TxOut, n)
	for i := range outs {
		outs[i] = testTxOut(t, fmt.Sprintf("leaf-%d", i))
		index, err := tree.Append(ctx, &outs[i])
		if err != nil {
			t.Fatal(err)
		}
		if index != uint64(i) {
			t.Fatalf("append returned index %d, want %d", index, i)
		}
	}
	return tree, outs
}

func TestEmptyTreeHasNoRoot(t *testing.T) {
	tree, _ := buildTree(t, 0)
	if _, err := tree.Root(context.Background()); err != ErrEmptyTree {
		t.Errorf("expected ErrEmptyTree, got %v", err)
	}
}

func TestSingleLeafProof(t *testing.T) {
	ctx := context.Background()
	tree, outs := buildTree(t, 1)

	root, err := tree.Root(ctx)
	if err != nil {
		t.Fatal(err)
	}
	proof, err := tree.ProofOfMembership(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(proof.Elements) != 0 {
		t.Errorf("single-leaf proof has %d elements", len(proof.Elements))
	}
	if !VerifyProof(&outs[0], &proof, root) {
		t.Error("single-leaf proof failed to verify")
	}
}

func TestProofsVerifyForEveryLeaf(t *testing.T) {
	ctx := context.Background()

	// 5 leaves pads to capacity 8, exercising nil subtrees.
	tree, outs := buildTree(t, 5)
	root, err := tree.Root(ctx)
	if err != nil {
		t.Fatal(err)
	}

	for i := range outs {
		proof, err := tree.ProofOfMembership(ctx, uint64(i))
		if err != nil {
			t.Fatalf("proof for leaf %d: %v", i, err)
		}
		if proof.HighestIndex != 4 {
			t.Errorf("proof highest index %d, want 4", proof.HighestIndex)
		}
		if err := proof.Validate(); err != nil {
			t.Errorf("proof for leaf %d structurally invalid: %v", i, err)
		}
		if !VerifyProof(&outs[i], &proof, root) {
			t.Errorf("proof for leaf %d failed to verify", i)
		}
	}
}

func TestProofRejectsWrongLeaf(t *testing.T) {
	ctx := context.Background()
	tree, outs := buildTree(t, 4)
	root, err := tree.Root(ctx)
	if err != nil {
		t.Fatal(err)
	}

	proof, err := tree.ProofOfMembership(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if VerifyProof(&outs[2], &proof, root) {
		t.Error("proof verified against the wrong leaf")
	}
}

func TestProofRejectsTamperedElement(t *testing.T) {
	ctx := context.Background()
	tree, outs := buildTree(t, 4)
	root, err := tree.Root(ctx)
	if err != nil {
		t.Fatal(err)
	}

	proof, err := tree.ProofOfMembership(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	proof.Elements[0].Hash[0] ^= 1
	if VerifyProof(&outs[2], &proof, root) {
		t.Error("tampered proof verified")
	}
}

func TestProofRejectsWrongRoot(t *testing.T) {
	ctx := context.Background()
	tree, outs := buildTree(t, 4)

	proof, err := tree.ProofOfMembership(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	var wrongRoot [32]byte
	wrongRoot[0] = 1
	if VerifyProof(&outs[0], &proof, wrongRoot) {
		t.Error("proof verified against the wrong root")
	}
}

func TestRootChangesOnAppend(t *testing.T) {
	ctx := context.Background()
	tree, _ := buildTree(t, 2)
	before, err := tree.Root(ctx)
	if err != nil {
		t.Fatal(err)
	}

	next := testTxOut(t, "leaf-extra")
	if _, err := tree.Append(ctx, &next); err != nil {
		t.Fatal(err)
	}
	after, err := tree.Root(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if before == after {
		t.Error("root did not change after append")
	}
}

func TestProofOfMembershipOutOfRange(t *testing.T) {
	tree, _ := buildTree(t, 2)
	if _, err := tree.ProofOfMembership(context.Background(), 2); err != ErrInvalidPosition {
		t.Errorf("expected ErrInvalidPosition, got %v", err)
	}
}

func TestTreeReopensFromStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryTreeStore()

	tree, err := NewTree(ctx, store)
	if err != nil {
		t.Fatal(err)
	}
	out := testTxOut(t, "reopen")
	if _, err := tree.Append(ctx, &out); err != nil {
		t.Fatal(err)
	}
	root, err := tree.Root(ctx)
	if err != nil {
		t.Fatal(err)
	}

	reopened, err := NewTree(ctx, store)
	if err != nil {
		t.Fatal(err)
	}
	if reopened.Size() != 1 {
		t.Fatalf("reopened tree has size %d", reopened.Size())
	}
	reopenedRoot, err := reopened.Root(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if root != reopenedRoot {
		t.Error("reopened tree has a different root")
	}
}
