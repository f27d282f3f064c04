package fs

import (
	"context"
	"path/filepath"
	"regexp"

	"github.com/fwojciec/hndigest"
)

// Ensure KeyValueStore implements hndigest.KeyValueStore at compile time.
var _ hndigest.KeyValueStore = (*KeyValueStore)(nil)

var validKey = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// KeyValueStore stores each value in its own file, dir/<key>.json.
type KeyValueStore struct {
	dir string
}

// NewKeyValueStore creates a KeyValueStore rooted at dir. The directory
// is created on first save.
func NewKeyValueStore(dir string) *KeyValueStore {
	return &KeyValueStore{dir: dir}
}

// Load returns the value stored under key.
func (s *KeyValueStore) Load(_ context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	return readFile(path)
}

// Save atomically replaces the value stored under key.
func (s *KeyValueStore) Save(_ context.Context, key string, value []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, value)
}

func (s *KeyValueStore) path(key string) (string, error) {
	if !validKey.MatchString(key) || key == "." || key == ".." {
		return "", hndigest.Errorf(hndigest.EINVALID, "invalid key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}
