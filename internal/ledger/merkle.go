// Package ledger implements the append-only Merkle tree over transaction
// outputs and the range-indexed membership proofs it issues.
package ledger

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"

	"golang.org/x/crypto/blake2b"

	"github.com/veilcoin/core/pkg/transaction"
	"github.com/veilcoin/core/pkg/types"
)

// Tree errors
var (
	ErrLeafNotFound    = errors.New("leaf not found in tree")
	ErrInvalidPosition = errors.New("invalid leaf position")
	ErrEmptyTree       = errors.New("tree has no leaves")
)

// Hash domain tags. Leaf, internal, and padding nodes are separated so no
// crafted leaf can collide with an internal node.
const (
	leafHashTag = "veilcoin-merkle-leaf"
	nodeHashTag = "veilcoin-merkle-node"
	nilHashTag  = "veilcoin-merkle-nil"
)

// TreeStore persists the leaves of the output tree. Internal nodes are
// recomputed from leaves, so only leaf hashes and the size are stored.
type TreeStore interface {
	// GetLeaf retrieves the leaf hash at index.
	GetLeaf(ctx context.Context, index uint64) (types.Hash, error)

	// SetLeaf stores the leaf hash at index.
	SetLeaf(ctx context.Context, index uint64, hash types.Hash) error

	// Size returns the number of leaves.
	Size(ctx context.Context) (uint64, error)

	// SetSize updates the leaf count.
	SetSize(ctx context.Context, size uint64) error
}

// Tree is the append-only Merkle tree over TxOut hashes. Leaves are indexed
// by the global output index; the tree is padded with nil hashes up to the
// next power of two.
type Tree struct {
	mu    sync.RWMutex
	store TreeStore
	size  uint64
}

// NewTree opens a tree backed by store.
func NewTree(ctx context.Context, store TreeStore) (*Tree, error) {
	size, err := store.Size(ctx)
	if err != nil {
		return nil, err
	}
	return &Tree{store: store, size: size}, nil
}

// Size returns the number of outputs in the tree.
func (t *Tree) Size() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.size
}

// Append adds an output to the tree and returns its index.
func (t *Tree) Append(ctx context.Context, txOut *transaction.TxOut) (uint64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	index := t.size
	if err := t.store.SetLeaf(ctx, index, leafHash(index, txOut.Hash())); err != nil {
		return 0, err
	}
	if err := t.store.SetSize(ctx, index+1); err != nil {
		return 0, err
	}
	t.size = index + 1
	return index, nil
}

// Root returns the current root hash.
func (t *Tree) Root(ctx context.Context) (types.Hash, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.size == 0 {
		return types.Hash{}, ErrEmptyTree
	}
	capacity := padToPowerOfTwo(t.size)
	return t.nodeHash(ctx, transaction.Range{From: 0, To: capacity - 1})
}

// ProofOfMembership issues a membership proof for the output at index,
// against the tree's current state.
func (t *Tree) ProofOfMembership(ctx context.Context, index uint64) (transaction.MembershipProof, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if index >= t.size {
		return transaction.MembershipProof{}, ErrInvalidPosition
	}

	capacity := padToPowerOfTwo(t.size)
	var elements []transaction.MembershipElement

	// Walk from the leaf block upward, emitting the sibling subtree at each
	// level. Sibling widths double each step, so the element ranges widen
	// strictly, as the proof format requires.
	for width := uint64(1); width < capacity; width *= 2 {
		blockStart := index &^ (width*2 - 1)
		sibling := transaction.Range{From: blockStart, To: blockStart + width - 1}
		if index < blockStart+width {
			sibling = transaction.Range{From: blockStart + width, To: blockStart + 2*width - 1}
		}

		h, err := t.nodeHash(ctx, sibling)
		if err != nil {
			return transaction.MembershipProof{}, err
		}
		elements = append(elements, transaction.MembershipElement{
			Range: sibling,
			Hash:  types.MembershipHash(h),
		})
	}

	return transaction.NewMembershipProof(index, t.size-1, elements)
}

// VerifyProof recomputes the root from the leaf TxOut and the authentication
// path and compares it against the expected root.
func VerifyProof(txOut *transaction.TxOut, proof *transaction.MembershipProof, expectedRoot types.Hash) bool {
	if proof.Validate() != nil {
		return false
	}

	running := transaction.Range{From: proof.Index, To: proof.Index}
	hash := leafHash(proof.Index, txOut.Hash())

	for _, e := range proof.Elements {
		switch {
		case e.Range.To+1 == running.From:
			// Element is the left sibling.
			hash = combineHash(types.Hash(e.Hash), hash)
			running.From = e.Range.From
		case running.To+1 == e.Range.From:
			// Element is the right sibling.
			hash = combineHash(hash, types.Hash(e.Hash))
			running.To = e.Range.To
		default:
			return false
		}
	}

	return hash == expectedRoot
}

// nodeHash computes the hash of the subtree covering r, reading leaves from
// the store and padding absent ones with the nil hash.
func (t *Tree) nodeHash(ctx context.Context, r transaction.Range) (types.Hash, error) {
	if r.From >= t.size {
		return nilHash(), nil
	}
	if r.From == r.To {
		return t.store.GetLeaf(ctx, r.From)
	}

	half := r.Len() / 2
	left, err := t.nodeHash(ctx, transaction.Range{From: r.From, To: r.From + half - 1})
	if err != nil {
		return types.Hash{}, err
	}
	right, err := t.nodeHash(ctx, transaction.Range{From: r.From + half, To: r.To})
	if err != nil {
		return types.Hash{}, err
	}
	return combineHash(left, right), nil
}

// leafHash computes the leaf hash of the TxOut at index.
func leafHash(index uint64, txOutHash types.Hash) types.Hash {
	var idx [8]byte
	binary.LittleEndian.PutUint64(idx[:], index)

	h, _ := blake2b.New256(nil)
	h.Write([]byte(leafHashTag))
	h.Write(idx[:])
	h.Write(txOutHash[:])

	var out types.Hash
	copy(out[:], h.Sum(nil))
	return out
}

// combineHash hashes an ordered pair of child nodes.
func combineHash(left, right types.Hash) types.Hash {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(nodeHashTag))
	h.Write(left[:])
	h.Write(right[:])

	var out types.Hash
	copy(out[:], h.Sum(nil))
	return out
}

// nilHash is the hash of an absent subtree.
func nilHash() types.Hash {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(nilHashTag))

	var out types.Hash
	copy(out[:], h.Sum(nil))
	return out
}

// padToPowerOfTwo returns the smallest power of two >= n.
func padToPowerOfTwo(n uint64) uint64 {
	p := uint64(1)
	for p < n {
		p *= 2
	}
	return p
}

// InMemoryTreeStore is a TreeStore held in memory, for tests and for nodes
// running without a database.
type InMemoryTreeStore struct {
	mu     sync.RWMutex
	leaves map[uint64]types.Hash
	size   uint64
}

// NewInMemoryTreeStore creates an empty in-memory store.
func NewInMemoryTreeStore() *InMemoryTreeStore {
	return &InMemoryTreeStore{leaves: make(map[uint64]types.Hash)}
}

// GetLeaf retrieves a leaf hash.
func (s *InMemoryTreeStore) GetLeaf(ctx context.Context, index uint64) (types.Hash, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.leaves[index]
	if !ok {
		return types.Hash{}, ErrLeafNotFound
	}
	return h, nil
}

// SetLeaf stores a leaf hash.
func (s *InMemoryTreeStore) SetLeaf(ctx context.Context, index uint64, hash types.Hash) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaves[index] = hash
	return nil
}

// Size returns the leaf count.
func (s *InMemoryTreeStore) Size(ctx context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size, nil
}

// SetSize updates the leaf count.
func (s *InMemoryTreeStore) SetSize(ctx context.Context, size uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.size = size
	return nil
}
