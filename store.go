package hndigest

import "context"

// Storage keys for the favorites lists.
const (
	ArticlesKey = "favorites-articles"
	PapersKey   = "favorites-papers"
)

// KeyValueStore loads and saves opaque values by key.
type KeyValueStore interface {
	// Load returns the value stored under key.
	// Returns ENOTFOUND if nothing is stored under key.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save replaces the value stored under key.
	Save(ctx context.Context, key string, value []byte) error
}
