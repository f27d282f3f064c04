package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/hndigest"
)

// Ensure LoggingKeyValueStore implements hndigest.KeyValueStore.
var _ hndigest.KeyValueStore = (*LoggingKeyValueStore)(nil)

// LoggingKeyValueStore wraps a KeyValueStore with debug logging.
type LoggingKeyValueStore struct {
	next   hndigest.KeyValueStore
	logger *slog.Logger
}

// NewLoggingKeyValueStore creates a new LoggingKeyValueStore.
func NewLoggingKeyValueStore(next hndigest.KeyValueStore, logger *slog.Logger) *LoggingKeyValueStore {
	return &LoggingKeyValueStore{next: next, logger: logger}
}

// Load delegates and logs the result. A missing key is not logged as an
// error.
func (s *LoggingKeyValueStore) Load(ctx context.Context, key string) (value []byte, err error) {
	defer func(begin time.Time) {
		attrs := []any{"key", key, "bytes", len(value), "duration", time.Since(begin)}
		if hndigest.ErrorCode(err) == hndigest.ENOTFOUND {
			attrs = append(attrs, "missing", true)
		} else if err != nil {
			attrs = append(attrs, "err", err)
		}
		s.logger.Debug("kv load", attrs...)
	}(time.Now())
	return s.next.Load(ctx, key)
}

// Save delegates and logs the result.
func (s *LoggingKeyValueStore) Save(ctx context.Context, key string, value []byte) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("kv save",
			"key", key,
			"bytes", len(value),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Save(ctx, key, value)
}
