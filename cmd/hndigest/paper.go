package main

import (
	"fmt"

	"github.com/fwojciec/hndigest"
)

// Run executes the paper command. The PDF extractor always produces text,
// so a degraded result is printed rather than reported as an error.
func (c *PaperCmd) Run(deps *Dependencies) error {
	if c.URL == "" {
		return hndigest.Errorf(hndigest.EINVALID, "url required")
	}

	fmt.Fprintln(deps.Stdout, deps.PDFs.Extract(deps.Ctx, c.URL))
	return nil
}
