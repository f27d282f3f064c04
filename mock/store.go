package mock

import (
	"context"
	"sync"

	"github.com/fwojciec/hndigest"
)

var _ hndigest.KeyValueStore = (*KeyValueStore)(nil)

// KeyValueStore is a mock implementation of hndigest.KeyValueStore.
type KeyValueStore struct {
	LoadFn func(ctx context.Context, key string) ([]byte, error)
	SaveFn func(ctx context.Context, key string, value []byte) error
}

func (s *KeyValueStore) Load(ctx context.Context, key string) ([]byte, error) {
	return s.LoadFn(ctx, key)
}

func (s *KeyValueStore) Save(ctx context.Context, key string, value []byte) error {
	return s.SaveFn(ctx, key, value)
}

// MemoryStore returns a KeyValueStore backed by a map, along with the map
// itself so tests can inspect what was saved.
func MemoryStore() (*KeyValueStore, map[string][]byte) {
	var mu sync.Mutex
	data := make(map[string][]byte)
	return &KeyValueStore{
		LoadFn: func(_ context.Context, key string) ([]byte, error) {
			mu.Lock()
			defer mu.Unlock()
			v, ok := data[key]
			if !ok {
				return nil, hndigest.Errorf(hndigest.ENOTFOUND, "key %q not found", key)
			}
			return v, nil
		},
		SaveFn: func(_ context.Context, key string, value []byte) error {
			mu.Lock()
			defer mu.Unlock()
			data[key] = append([]byte(nil), value...)
			return nil
		},
	}, data
}
