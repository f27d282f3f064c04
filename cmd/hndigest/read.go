package main

import (
	"fmt"

	"github.com/fwojciec/hndigest"
)

// Run executes the read command.
func (c *ReadCmd) Run(deps *Dependencies) error {
	text, err := deps.Articles.Parse(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", hndigest.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, text)
	return nil
}
