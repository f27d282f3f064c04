// Package redis implements hndigest.KeyValueStore on Redis.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/hndigest"
	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces keys written by KeyValueStore.
const DefaultPrefix = "hndigest:"

// NewClient connects to the Redis server at rawURL, such as
// "redis://:password@localhost:6379/0", and pings it.
func NewClient(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, hndigest.Errorf(hndigest.EINVALID, "invalid redis url: %v", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// Ensure KeyValueStore implements hndigest.KeyValueStore at compile time.
var _ hndigest.KeyValueStore = (*KeyValueStore)(nil)

// KeyValueStore stores values as plain Redis strings without expiry.
type KeyValueStore struct {
	client redis.Cmdable
	prefix string
}

// NewKeyValueStore creates a KeyValueStore whose keys are prefix + key.
func NewKeyValueStore(client redis.Cmdable, prefix string) *KeyValueStore {
	return &KeyValueStore{client: client, prefix: prefix}
}

// Load returns the value stored under key.
func (s *KeyValueStore) Load(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, hndigest.Errorf(hndigest.ENOTFOUND, "key %q not found", key)
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Save replaces the value stored under key.
func (s *KeyValueStore) Save(ctx context.Context, key string, value []byte) error {
	// A zero expiration keeps the key forever.
	return s.client.Set(ctx, s.prefix+key, value, 0).Err()
}
