package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/jmoiron/sqlx"

	appErrors "github.com/noah-isme/sma-board-api/pkg/errors"
)

var tableNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// PostgresBlobStore persists board blobs in a two-column key/value table.
type PostgresBlobStore struct {
	db    *sqlx.DB
	table string
}

// NewPostgresBlobStore constructs the store for the given table name.
func NewPostgresBlobStore(db *sqlx.DB, table string) (*PostgresBlobStore, error) {
	if table == "" {
		table = "board_kv"
	}
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid key-value table name %q", table)
	}
	return &PostgresBlobStore{db: db, table: table}, nil
}

// EnsureSchema creates the key/value table when it does not exist yet.
func (s *PostgresBlobStore) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	key TEXT PRIMARY KEY,
	value BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`, s.table)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure key-value table: %w", err)
	}
	return nil
}

// Get reads the value stored under key.
func (s *PostgresBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, s.table)
	var value []byte
	if err := s.db.GetContext(ctx, &value, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrKeyNotFound
		}
		return nil, fmt.Errorf("get blob %s: %w", key, err)
	}
	return value, nil
}

// Put upserts the value in a single statement.
func (s *PostgresBlobStore) Put(ctx context.Context, key string, value []byte) error {
	query := fmt.Sprintf(`INSERT INTO %s (key, value, updated_at) VALUES ($1, $2, $3)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`, s.table)
	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("put blob %s: %w", key, err)
	}
	return nil
}
