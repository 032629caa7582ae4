// Package postgres keeps stored values in a session_store table so several
// terminals of the same shop can share one session profile.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/cajero/internal/storage"
)

const schema = `
	CREATE TABLE IF NOT EXISTS session_store (
		profile    TEXT NOT NULL,
		key        TEXT NOT NULL,
		value      BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (profile, key)
	)
`

type Backend struct {
	db      *sql.DB
	profile string
}

func New(db *sql.DB, profile string) *Backend {
	return &Backend{db: db, profile: profile}
}

// Migrate creates the session_store table if it does not exist.
func (b *Backend) Migrate(ctx context.Context) error {
	if _, err := b.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating session_store table: %w", err)
	}

	return nil
}

func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM session_store WHERE profile = $1 AND key = $2`

	var value []byte

	err := b.db.QueryRowContext(ctx, query, b.profile, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		return nil, fmt.Errorf("getting %s: %w", key, err)
	}

	return value, nil
}

// SetMany upserts all entries in one database transaction.
func (b *Backend) SetMany(ctx context.Context, entries map[string][]byte) error {
	dbTx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO session_store (profile, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (profile, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	for key, value := range entries {
		if _, err := dbTx.ExecContext(ctx, query, b.profile, key, value); err != nil {
			return fmt.Errorf("upserting %s: %w", key, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (b *Backend) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	query := `DELETE FROM session_store WHERE profile = $1 AND key = ANY($2)`

	if _, err := b.db.ExecContext(ctx, query, b.profile, keys); err != nil {
		return fmt.Errorf("deleting keys: %w", err)
	}

	return nil
}
