package digest

import (
	"context"
	"log/slog"

	"github.com/fwojciec/hndigest"
	"github.com/fwojciec/hndigest/bloom"
)

// Batch defaults.
const (
	DefaultBatchLimit      = 500
	DefaultCheckpointEvery = 10
)

// Batch digests a list of articles one at a time and persists the
// accumulated summaries periodically, so an interrupted run can resume.
type Batch struct {
	Digester *Digester
	Store    hndigest.SummaryStore
	Pacer    *Pacer

	// Limit caps the number of input articles considered.
	Limit int
	// CheckpointEvery is the number of processed items between saves.
	CheckpointEvery int

	Logger *slog.Logger
}

// BatchResult holds the outcome of a batch run.
type BatchResult struct {
	Total     int
	Processed int
	Failed    int
	Skipped   int
}

// ProgressEvent reports progress during a batch run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressSkipped
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

// Run digests articles, skipping those without a URL, those already in
// the store and duplicate URLs. Summaries are saved every
// CheckpointEvery processed items and once more at the end, including
// when ctx is canceled; in that case Run returns the partial result
// together with the context error.
func (b *Batch) Run(ctx context.Context, articles []*hndigest.Article, progress ProgressFunc) (*BatchResult, error) {
	logger := b.logger()

	summaries, err := b.Store.LoadSummaries(ctx)
	switch hndigest.ErrorCode(err) {
	case "", hndigest.ENOTFOUND:
	case hndigest.EINVALID:
		logger.Warn("existing summaries are malformed, starting over", "error", err)
		summaries = nil
	default:
		return nil, err
	}

	if limit := b.limit(); len(articles) > limit {
		articles = articles[:limit]
	}

	done := make(map[hndigest.ItemID]bool, len(summaries))
	seen := bloom.NewFilter(uint(len(articles)+len(summaries)), 0.0001)
	for _, s := range summaries {
		done[s.ID] = true
		seen.Add(s.URL)
	}

	result := &BatchResult{Total: len(articles)}
	emit := func(ev ProgressEvent) {
		if progress != nil {
			ev.Total = result.Total
			progress(ev)
		}
	}
	emit(ProgressEvent{Type: ProgressStarted})

	pacer := b.Pacer
	if pacer == nil {
		pacer = NewPacer(DefaultBatchDelay)
	}

	var runErr error
	for i, a := range articles {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		// Articles without an ID are keyed by URL.
		id := a.ID
		if id == "" {
			id = hndigest.ItemID(a.URL)
		}
		if a.URL == "" || done[id] || seen.Seen(a.URL) {
			logger.Debug("skipping article", "id", id, "url", a.URL)
			result.Skipped++
			emit(ProgressEvent{Type: ProgressSkipped, Completed: i + 1, URL: a.URL})
			continue
		}
		if err := pacer.Wait(ctx); err != nil {
			runErr = err
			break
		}

		logger.Info("digesting article", "id", id, "url", a.URL, "n", i+1, "total", result.Total)
		dg := b.Digester.Digest(ctx, a.URL)
		pacer.Done()
		summaries = append(summaries, &hndigest.Summary{
			ID:          id,
			Title:       a.Title,
			URL:         a.URL,
			AISummary:   dg.Summary,
			ContentHash: dg.ContentHash(),
		})
		done[id] = true
		result.Processed++

		if dg.Failed() {
			result.Failed++
			emit(ProgressEvent{Type: ProgressFailed, Completed: i + 1, URL: a.URL, Error: firstErr(dg.ContentErr, dg.SummaryErr)})
		} else {
			emit(ProgressEvent{Type: ProgressCompleted, Completed: i + 1, URL: a.URL})
		}

		if result.Processed%b.checkpointEvery() == 0 {
			if err := b.Store.SaveSummaries(ctx, summaries); err != nil {
				return result, err
			}
			logger.Info("checkpoint saved", "summaries", len(summaries))
		}
	}

	// The final save must happen even when the run was interrupted.
	if err := b.Store.SaveSummaries(context.WithoutCancel(ctx), summaries); err != nil {
		return result, err
	}
	emit(ProgressEvent{Type: ProgressFinished, Completed: result.Processed + result.Skipped})
	logger.Info("batch finished",
		"processed", result.Processed,
		"failed", result.Failed,
		"skipped", result.Skipped,
		"summaries", len(summaries))
	return result, runErr
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *Batch) limit() int {
	if b.Limit <= 0 {
		return DefaultBatchLimit
	}
	return b.Limit
}

func (b *Batch) checkpointEvery() int {
	if b.CheckpointEvery <= 0 {
		return DefaultCheckpointEvery
	}
	return b.CheckpointEvery
}

func (b *Batch) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}
