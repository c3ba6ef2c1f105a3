package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresBlobStore persists collection blobs as JSONB rows keyed by name.
type PostgresBlobStore struct {
	db *pgxpool.Pool
}

// NewPostgresBlobStore builds a blob store backed by PostgreSQL. Call
// EnsureSchema once before first use.
func NewPostgresBlobStore(db *pgxpool.Pool) *PostgresBlobStore {
	return &PostgresBlobStore{db: db}
}

// EnsureSchema creates the backing table when missing.
func (p *PostgresBlobStore) EnsureSchema(ctx context.Context) error {
	_, err := p.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS wallet_blobs (
        key        TEXT PRIMARY KEY,
        value      JSONB NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL
    )`)
	if err != nil {
		return fmt.Errorf("create wallet_blobs: %w", err)
	}
	return nil
}

// Get fetches the blob for key.
func (p *PostgresBlobStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var blob []byte
	err := p.db.QueryRow(ctx, `SELECT value FROM wallet_blobs WHERE key = $1`, key).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select blob %s: %w", key, err)
	}
	return blob, true, nil
}

// Set upserts the blob for key.
func (p *PostgresBlobStore) Set(ctx context.Context, key string, blob []byte) error {
	_, err := p.db.Exec(ctx, `INSERT INTO wallet_blobs (key, value, updated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, blob, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert blob %s: %w", key, err)
	}
	return nil
}
