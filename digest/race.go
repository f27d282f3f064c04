package digest

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is returned by Race when the deadline passes first.
var ErrTimeout = errors.New("timed out")

// Race runs fn in its own goroutine and waits at most d for its result.
// If the deadline passes first, Race returns an error wrapping ErrTimeout
// without waiting: fn's context is canceled and whatever it eventually
// returns is dropped.
func Race[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		v   T
		err error
	}
	// Buffered so an abandoned fn can still deliver and exit.
	ch := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		ch <- result{v, err}
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	var zero T
	select {
	case r := <-ch:
		return r.v, r.err
	case <-timer.C:
		return zero, fmt.Errorf("%w after %s", ErrTimeout, d)
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
