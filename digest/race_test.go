package digest_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/hndigest/digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRace(t *testing.T) {
	t.Parallel()

	t.Run("returns the result when fn finishes first", func(t *testing.T) {
		t.Parallel()

		got, err := digest.Race(context.Background(), time.Second, func(_ context.Context) (string, error) {
			return "done", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "done", got)
	})

	t.Run("returns the error of fn", func(t *testing.T) {
		t.Parallel()

		want := errors.New("boom")
		_, err := digest.Race(context.Background(), time.Second, func(_ context.Context) (int, error) {
			return 0, want
		})

		assert.ErrorIs(t, err, want)
	})

	t.Run("times out without waiting for fn", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		defer close(release)

		start := time.Now()
		_, err := digest.Race(context.Background(), 20*time.Millisecond, func(_ context.Context) (string, error) {
			<-release
			return "late", nil
		})

		assert.ErrorIs(t, err, digest.ErrTimeout)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("cancels fn's context after a timeout", func(t *testing.T) {
		t.Parallel()

		canceled := make(chan struct{})
		_, err := digest.Race(context.Background(), 10*time.Millisecond, func(ctx context.Context) (string, error) {
			<-ctx.Done()
			close(canceled)
			return "", ctx.Err()
		})

		assert.ErrorIs(t, err, digest.ErrTimeout)
		select {
		case <-canceled:
		case <-time.After(time.Second):
			t.Fatal("fn context was not canceled")
		}
	})

	t.Run("returns the parent context error", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := digest.Race(ctx, time.Minute, func(ctx context.Context) (string, error) {
			<-ctx.Done()
			time.Sleep(10 * time.Millisecond)
			return "", nil
		})

		assert.ErrorIs(t, err, context.Canceled)
	})
}
