package main

import (
	"fmt"

	"github.com/fwojciec/hndigest"
	"github.com/fwojciec/hndigest/fs"
)

// Run executes the top command.
func (c *TopCmd) Run(deps *Dependencies) error {
	articles, err := deps.Source.ListArticles(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", hndigest.ErrorMessage(err))
		return err
	}
	if c.Limit > 0 && len(articles) > c.Limit {
		articles = articles[:c.Limit]
	}

	if c.Output != "" {
		if err := fs.NewArticleFile(c.Output).SaveArticles(deps.Ctx, articles); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", hndigest.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Wrote %d articles to %s\n", len(articles), c.Output)
		return nil
	}

	if len(articles) == 0 {
		fmt.Fprintln(deps.Stdout, "No articles found.")
		return nil
	}
	for _, a := range articles {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", a.ID, a.Title, a.URL)
	}
	return nil
}
