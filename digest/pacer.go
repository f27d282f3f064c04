package digest

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBatchDelay is the pause between two items of a batch.
const DefaultBatchDelay = 2 * time.Second

// Pacer inserts a fixed pause between consecutive items. The pause runs
// from the end of one item (Done) to the start of the next (Wait), so
// slow items are followed by the same pause as fast ones.
//
// A Pacer is not safe for concurrent use.
type Pacer struct {
	limit   rate.Limit
	limiter *rate.Limiter
}

// NewPacer creates a Pacer that pauses for interval between items.
// A non-positive interval disables pacing.
func NewPacer(interval time.Duration) *Pacer {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Pacer{limit: limit, limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the pause after the previous item has elapsed. The
// first call returns immediately.
// Returns an error if the context is canceled before the wait completes.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// Done marks the end of an item and starts the pause before the next one.
func (p *Pacer) Done() {
	p.limiter = rate.NewLimiter(p.limit, 1)
	p.limiter.Allow()
}
