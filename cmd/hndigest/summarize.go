package main

import (
	"fmt"

	"github.com/fwojciec/hndigest"
)

// Run executes the summarize command.
func (c *SummarizeCmd) Run(deps *Dependencies) error {
	dg := deps.Digester.Digest(deps.Ctx, c.URL)

	fmt.Fprintln(deps.Stdout, dg.Content)
	fmt.Fprintln(deps.Stdout)
	fmt.Fprintln(deps.Stdout, "---")
	fmt.Fprintln(deps.Stdout)
	fmt.Fprintln(deps.Stdout, dg.Summary)

	switch {
	case dg.ContentErr != nil:
		fmt.Fprintf(deps.Stderr, "error: %s\n", hndigest.ErrorMessage(dg.ContentErr))
		return dg.ContentErr
	case dg.SummaryErr != nil:
		fmt.Fprintf(deps.Stderr, "error: %s\n", hndigest.ErrorMessage(dg.SummaryErr))
		return dg.SummaryErr
	}
	return nil
}
