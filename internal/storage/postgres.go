// Package storage implements the PostgreSQL persistence layer for the node.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veilcoin/core/pkg/transaction"
	"github.com/veilcoin/core/pkg/types"
)

// Common errors
var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicate    = errors.New("duplicate entry")
	ErrInvalidData  = errors.New("invalid data")
	ErrDBConnection = errors.New("database connection error")
)

// PostgresStore implements persistent storage using PostgreSQL. It also
// implements ledger.TreeStore for the output Merkle tree.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Config holds database configuration.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int32
}

// DefaultConfig returns default database configuration.
func DefaultConfig() *Config {
	return &Config{
		Host:     "localhost",
		Port:     5432,
		User:     "veilcoin",
		Password: "",
		Database: "veilcoin",
		SSLMode:  "disable",
		MaxConns: 20,
	}
}

// NewPostgresStore connects to PostgreSQL.
func NewPostgresStore(ctx context.Context, cfg *Config) (*PostgresStore, error) {
	connString := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode, cfg.MaxConns,
	)

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDBConnection, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %v", ErrDBConnection, err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// InitSchema creates the tables if they do not exist.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS txouts (
	global_index BIGINT PRIMARY KEY,
	data         BYTEA NOT NULL
);
CREATE TABLE IF NOT EXISTS txs (
	hash BYTEA PRIMARY KEY,
	data BYTEA NOT NULL
);
CREATE TABLE IF NOT EXISTS key_images (
	key_image BYTEA PRIMARY KEY,
	tx_hash   BYTEA NOT NULL
);
CREATE TABLE IF NOT EXISTS merkle_leaves (
	leaf_index BIGINT PRIMARY KEY,
	hash       BYTEA NOT NULL
);
CREATE TABLE IF NOT EXISTS tree_meta (
	id   INT PRIMARY KEY,
	size BIGINT NOT NULL
);
INSERT INTO tree_meta (id, size) VALUES (1, 0) ON CONFLICT DO NOTHING;
`
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// PutTxOut stores an output at its global index.
func (s *PostgresStore) PutTxOut(ctx context.Context, index uint64, txOut *transaction.TxOut) error {
	data, err := txOut.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO txouts (global_index, data) VALUES ($1, $2)`,
		int64(index), data,
	)
	if isDuplicateKey(err) {
		return ErrDuplicate
	}
	return err
}

// GetTxOut fetches the output at a global index.
func (s *PostgresStore) GetTxOut(ctx context.Context, index uint64) (*transaction.TxOut, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM txouts WHERE global_index = $1`, int64(index),
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var txOut transaction.TxOut
	if err := txOut.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return &txOut, nil
}

// GetRing fetches the outputs at the given global indices, preserving order.
func (s *PostgresStore) GetRing(ctx context.Context, indices []uint64) ([]transaction.TxOut, error) {
	ring := make([]transaction.TxOut, 0, len(indices))
	for _, idx := range indices {
		txOut, err := s.GetTxOut(ctx, idx)
		if err != nil {
			return nil, err
		}
		ring = append(ring, *txOut)
	}
	return ring, nil
}

// PutTx stores a transaction under its hash.
func (s *PostgresStore) PutTx(ctx context.Context, tx *transaction.Tx) error {
	data, err := tx.MarshalBinary()
	if err != nil {
		return err
	}
	hash := tx.Hash()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO txs (hash, data) VALUES ($1, $2)`,
		hash[:], data,
	)
	if isDuplicateKey(err) {
		return ErrDuplicate
	}
	return err
}

// GetTx fetches a transaction by hash.
func (s *PostgresStore) GetTx(ctx context.Context, hash types.TxHash) (*transaction.Tx, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM txs WHERE hash = $1`, hash[:],
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var tx transaction.Tx
	if err := tx.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return &tx, nil
}

// AddKeyImage records a spent key image.
func (s *PostgresStore) AddKeyImage(ctx context.Context, img types.KeyImage, txHash types.TxHash) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO key_images (key_image, tx_hash) VALUES ($1, $2)`,
		img[:], txHash[:],
	)
	if isDuplicateKey(err) {
		return ErrDuplicate
	}
	return err
}

// HasKeyImage reports whether a key image has been spent.
func (s *PostgresStore) HasKeyImage(ctx context.Context, img types.KeyImage) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM key_images WHERE key_image = $1)`, img[:],
	).Scan(&exists)
	return exists, err
}

// GetLeaf implements ledger.TreeStore.
func (s *PostgresStore) GetLeaf(ctx context.Context, index uint64) (types.Hash, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT hash FROM merkle_leaves WHERE leaf_index = $1`, int64(index),
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.Hash{}, ErrNotFound
	}
	if err != nil {
		return types.Hash{}, err
	}
	return types.HashFromBytes(data)
}

// SetLeaf implements ledger.TreeStore.
func (s *PostgresStore) SetLeaf(ctx context.Context, index uint64, hash types.Hash) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO merkle_leaves (leaf_index, hash) VALUES ($1, $2)
		 ON CONFLICT (leaf_index) DO UPDATE SET hash = EXCLUDED.hash`,
		int64(index), hash[:],
	)
	return err
}

// Size implements ledger.TreeStore.
func (s *PostgresStore) Size(ctx context.Context) (uint64, error) {
	var size int64
	err := s.pool.QueryRow(ctx, `SELECT size FROM tree_meta WHERE id = 1`).Scan(&size)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return uint64(size), nil
}

// SetSize implements ledger.TreeStore.
func (s *PostgresStore) SetSize(ctx context.Context, size uint64) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE tree_meta SET size = $1 WHERE id = 1`, int64(size),
	)
	return err
}

// isDuplicateKey reports whether err is a unique-constraint violation.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	var pgErr interface{ SQLState() string }
	return errors.As(err, &pgErr) && pgErr.SQLState() == "23505"
}
