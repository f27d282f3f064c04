package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fwojciec/hndigest"
)

// Compile-time interface verification.
var _ hndigest.KeyValueStore = (*KeyValueStore)(nil)

// KeyValueStore implements hndigest.KeyValueStore on the kv table.
type KeyValueStore struct {
	db *DB
}

// NewKeyValueStore creates a new KeyValueStore.
func NewKeyValueStore(db *DB) *KeyValueStore {
	return &KeyValueStore{db: db}
}

// Load returns the value stored under key.
func (s *KeyValueStore) Load(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, hndigest.Errorf(hndigest.ENOTFOUND, "key %q not found", key)
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Save replaces the value stored under key.
func (s *KeyValueStore) Save(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return hndigest.Errorf(hndigest.EINVALID, "key required")
	}
	if value == nil {
		value = []byte{}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC().Format(time.RFC3339))
	return err
}
