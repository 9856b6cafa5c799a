package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv_store (
  key        TEXT PRIMARY KEY,
  value      JSONB NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PGStore keeps each key as one jsonb row. Update runs inside a pgx
// transaction and locks the rows it reads.
type PGStore struct{ db *pgxpool.Pool }

func NewPGStore(ctx context.Context, db *pgxpool.Pool) (*PGStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := db.Exec(ctx, kvSchema); err != nil {
		return nil, err
	}
	return &PGStore{db: db}, nil
}

func (s *PGStore) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var raw []byte
	err := s.db.QueryRow(ctx, `SELECT value::text FROM kv_store WHERE key=$1`, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return raw, err
}

func (s *PGStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&pgTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Close is a no-op; the pool belongs to the caller.
func (s *PGStore) Close() error { return nil }

// FOR UPDATE locks nothing while a key has no row yet, so reads take a
// transaction-scoped advisory lock on the key first.
const (
	lockKeySQL = `SELECT pg_advisory_xact_lock(hashtext($1))`
	getKeySQL  = `SELECT value::text FROM kv_store WHERE key=$1 FOR UPDATE`
)

type pgTx struct{ tx pgx.Tx }

func (t *pgTx) Get(ctx context.Context, key string) ([]byte, error) {
	if _, err := t.tx.Exec(ctx, lockKeySQL, key); err != nil {
		return nil, err
	}
	var raw []byte
	err := t.tx.QueryRow(ctx, getKeySQL, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return raw, err
}

func (t *pgTx) Put(ctx context.Context, key string, value []byte) error {
	_, err := t.tx.Exec(ctx, `
    INSERT INTO kv_store (key, value, updated_at)
    VALUES ($1, $2::jsonb, NOW())
    ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
  `, key, string(value))
	return err
}

func (t *pgTx) Delete(ctx context.Context, key string) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM kv_store WHERE key=$1`, key)
	return err
}
