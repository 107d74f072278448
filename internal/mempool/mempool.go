// Package mempool implements the pending-transaction memory pool.
package mempool

import (
	"errors"
	"sort"
	"sync"

	"github.com/veilcoin/core/pkg/transaction"
	"github.com/veilcoin/core/pkg/types"
)

// Mempool errors
var (
	ErrPoolFull        = errors.New("mempool is full")
	ErrTxAlreadyExists = errors.New("transaction already in mempool")
	ErrInsufficientFee = errors.New("insufficient transaction fee")
	ErrDoubleSpend     = errors.New("key image already spent")
	ErrNoKeyImages     = errors.New("transaction exposes no key images")
)

// Config holds mempool configuration.
type Config struct {
	MaxSize int
	MinFee  uint64
}

// DefaultConfig returns default mempool configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxSize: 10_000,
		MinFee:  transaction.MinimumFee,
	}
}

// PoolTx wraps a transaction with mempool metadata.
type PoolTx struct {
	Tx       *transaction.Tx
	Hash     types.TxHash
	Size     int
	Priority float64 // fee / size
}

// Pool manages pending transactions. It indexes key images so that two
// pending transactions can never spend the same output.
type Pool struct {
	mu sync.RWMutex

	txs       map[types.TxHash]*PoolTx
	keyImages map[types.KeyImage]types.TxHash

	cfg Config
}

// New creates a mempool with the given configuration.
func New(cfg *Config) *Pool {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Pool{
		txs:       make(map[types.TxHash]*PoolTx),
		keyImages: make(map[types.KeyImage]types.TxHash),
		cfg:       *cfg,
	}
}

// Add validates and admits a transaction. It rejects duplicates, underpaying
// transactions, and any transaction whose key images collide with a pending
// one.
func (p *Pool) Add(tx *transaction.Tx) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.txs) >= p.cfg.MaxSize {
		return ErrPoolFull
	}
	if tx.Prefix.Fee < p.cfg.MinFee {
		return ErrInsufficientFee
	}

	hash := tx.Hash()
	if _, ok := p.txs[hash]; ok {
		return ErrTxAlreadyExists
	}

	images := tx.KeyImages()
	if len(images) == 0 {
		return ErrNoKeyImages
	}
	for _, img := range images {
		if _, spent := p.keyImages[img]; spent {
			return ErrDoubleSpend
		}
	}

	encoded, err := tx.MarshalBinary()
	if err != nil {
		return err
	}

	entry := &PoolTx{
		Tx:   tx,
		Hash: hash,
		Size: len(encoded),
	}
	entry.Priority = float64(tx.Prefix.Fee) / float64(entry.Size)

	p.txs[hash] = entry
	for _, img := range images {
		p.keyImages[img] = hash
	}
	return nil
}

// Remove drops a transaction and releases its key images.
func (p *Pool) Remove(hash types.TxHash) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.remove(hash)
}

func (p *Pool) remove(hash types.TxHash) {
	entry, ok := p.txs[hash]
	if !ok {
		return
	}
	for _, img := range entry.Tx.KeyImages() {
		delete(p.keyImages, img)
	}
	delete(p.txs, hash)
}

// Get returns a pending transaction by hash.
func (p *Pool) Get(hash types.TxHash) (*transaction.Tx, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	entry, ok := p.txs[hash]
	if !ok {
		return nil, false
	}
	return entry.Tx, true
}

// HasKeyImage reports whether a key image is spent by a pending transaction.
func (p *Pool) HasKeyImage(img types.KeyImage) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.keyImages[img]
	return ok
}

// Len returns the number of pending transactions.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.txs)
}

// ByPriority returns up to max pending transactions, highest fee rate first.
func (p *Pool) ByPriority(max int) []*transaction.Tx {
	p.mu.RLock()
	defer p.mu.RUnlock()

	entries := make([]*PoolTx, 0, len(p.txs))
	for _, e := range p.txs {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority > entries[j].Priority
		}
		// Stable order for equal rates.
		return entries[i].Hash.String() < entries[j].Hash.String()
	})

	if max > 0 && len(entries) > max {
		entries = entries[:max]
	}
	out := make([]*transaction.Tx, len(entries))
	for i, e := range entries {
		out[i] = e.Tx
	}
	return out
}

// EvictExpired removes every transaction whose tombstone block is at or below
// blockIndex and returns how many were dropped.
func (p *Pool) EvictExpired(blockIndex uint64) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	var expired []types.TxHash
	for hash, e := range p.txs {
		if e.Tx.Prefix.TombstoneBlock <= blockIndex {
			expired = append(expired, hash)
		}
	}
	for _, hash := range expired {
		p.remove(hash)
	}
	return len(expired)
}
