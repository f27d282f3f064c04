package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fwojciec/hndigest"
	"github.com/fwojciec/hndigest/digest"
)

// Run executes the batch command.
func (c *BatchCmd) Run(deps *Dependencies) error {
	articles, err := deps.Source.ListArticles(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", hndigest.ErrorMessage(err))
		return err
	}

	batch := &digest.Batch{
		Digester:        deps.Digester,
		Store:           deps.Summaries,
		Pacer:           digest.NewPacer(c.Delay),
		Limit:           c.Limit,
		CheckpointEvery: c.Every,
		Logger:          deps.Logger,
	}

	result, err := batch.Run(deps.Ctx, articles, progressPrinter(deps.Stderr))
	if result != nil {
		fmt.Fprintf(deps.Stdout, "Processed %d of %d articles (%d failed, %d skipped), saved to %s\n",
			result.Processed, result.Total, result.Failed, result.Skipped, c.Output)
	}
	if err != nil {
		if errors.Is(err, deps.Ctx.Err()) {
			fmt.Fprintln(deps.Stderr, "interrupted; rerun the same command to resume")
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", hndigest.ErrorMessage(err))
		}
		return err
	}
	return nil
}

// progressPrinter reports one line per article.
func progressPrinter(w io.Writer) digest.ProgressFunc {
	return func(ev digest.ProgressEvent) {
		switch ev.Type {
		case digest.ProgressCompleted:
			fmt.Fprintf(w, "[%d/%d] %s\n", ev.Completed, ev.Total, ev.URL)
		case digest.ProgressFailed:
			fmt.Fprintf(w, "[%d/%d] %s: %s\n", ev.Completed, ev.Total, ev.URL, hndigest.ErrorMessage(ev.Error))
		}
	}
}
