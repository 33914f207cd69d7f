package turso

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const maxRetries = 2

// KVStore stores named collections in the collections table. Each Put
// replaces the whole value of a key in a single statement.
type KVStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewKVStore(db *sql.DB) *KVStore {
	return &KVStore{db: db, now: time.Now}
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := WithRetry(ctx, maxRetries, func() (sql.NullString, error) {
		var v sql.NullString
		err := s.db.QueryRowContext(ctx, `SELECT value FROM collections WHERE key = ?`, key).Scan(&v)
		return v, err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read collection %q: %w", key, err)
	}
	return []byte(value.String), true, nil
}

func (s *KVStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := WithRetry(ctx, maxRetries, func() (sql.Result, error) {
		return s.db.ExecContext(ctx, `
			INSERT INTO collections (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`, key, string(value), s.now().UTC().Format(time.RFC3339Nano))
	})
	if err != nil {
		return fmt.Errorf("failed to write collection %q: %w", key, err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	_, err := WithRetry(ctx, maxRetries, func() (sql.Result, error) {
		return s.db.ExecContext(ctx, `DELETE FROM collections WHERE key = ?`, key)
	})
	if err != nil {
		return fmt.Errorf("failed to delete collection %q: %w", key, err)
	}
	return nil
}
