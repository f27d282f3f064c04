package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/hndigest"
)

// Run executes the favorites list command.
func (c *FavoritesListCmd) Run(deps *Dependencies) error {
	articles := deps.Favorites.Articles()
	papers := deps.Favorites.Papers()

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(struct {
			Articles []*hndigest.Article `json:"articles"`
			Papers   []*hndigest.Paper   `json:"papers"`
		}{articles, papers})
	}

	if len(articles) == 0 && len(papers) == 0 {
		fmt.Fprintln(deps.Stdout, "No favorites yet. Use 'hndigest favorites add-article' or 'add-paper'.")
		return nil
	}

	if len(articles) > 0 {
		fmt.Fprintf(deps.Stdout, "Articles (%d):\n", len(articles))
		for _, a := range articles {
			fmt.Fprintf(deps.Stdout, "  %s  %s  %s\n", a.ID, a.Title, a.URL)
		}
	}
	if len(papers) > 0 {
		fmt.Fprintf(deps.Stdout, "Papers (%d):\n", len(papers))
		for _, p := range papers {
			fmt.Fprintf(deps.Stdout, "  %s  %s\n", p.ArxivURL, p.Title)
		}
	}
	return nil
}

// Run executes the favorites add-article command.
func (c *FavoritesAddArticleCmd) Run(deps *Dependencies) error {
	a := &hndigest.Article{ID: hndigest.ItemID(c.ID), Title: c.Title, URL: c.URL}
	added, err := deps.Favorites.AddArticle(deps.Ctx, a)
	return report(deps, added, err, "Added article %q", "Article %q is already a favorite", c.URL)
}

// Run executes the favorites remove-article command.
func (c *FavoritesRemoveArticleCmd) Run(deps *Dependencies) error {
	removed, err := deps.Favorites.RemoveArticle(deps.Ctx, hndigest.ItemID(c.ID))
	return report(deps, removed, err, "Removed article %q", "Article %q is not a favorite", c.ID)
}

// Run executes the favorites add-paper command.
func (c *FavoritesAddPaperCmd) Run(deps *Dependencies) error {
	added, err := deps.Favorites.AddPaper(deps.Ctx, &hndigest.Paper{ArxivURL: c.URL, Title: c.Title})
	return report(deps, added, err, "Added paper %q", "Paper %q is already a favorite", c.URL)
}

// Run executes the favorites remove-paper command.
func (c *FavoritesRemovePaperCmd) Run(deps *Dependencies) error {
	removed, err := deps.Favorites.RemovePaper(deps.Ctx, c.URL)
	return report(deps, removed, err, "Removed paper %q", "Paper %q is not a favorite", c.URL)
}

// report prints the outcome of a favorites mutation. A change that could
// not be persisted is still reported, followed by the error.
func report(deps *Dependencies, changed bool, err error, doneFormat, noopFormat, key string) error {
	if changed {
		fmt.Fprintf(deps.Stdout, doneFormat+"\n", key)
	} else if err == nil {
		fmt.Fprintf(deps.Stdout, noopFormat+"\n", key)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", hndigest.ErrorMessage(err))
		return err
	}
	return nil
}
