// Package gofeed reads articles from RSS and Atom feeds.
package gofeed

import (
	"bytes"
	"context"
	"strings"

	"github.com/fwojciec/hndigest"
	"github.com/mmcdole/gofeed"
)

// DefaultFeedURL is the HackerNews front page feed.
const DefaultFeedURL = "https://hnrss.org/frontpage"

// Ensure Source implements hndigest.ArticleSource at compile time.
var _ hndigest.ArticleSource = (*Source)(nil)

// Source lists the items of a feed as articles.
type Source struct {
	fetcher hndigest.Fetcher
	feedURL string
}

// NewSource creates a Source reading feedURL through fetcher.
func NewSource(fetcher hndigest.Fetcher, feedURL string) *Source {
	return &Source{fetcher: fetcher, feedURL: feedURL}
}

// ListArticles fetches and parses the feed. Items are keyed by GUID,
// falling back to their link; items with neither are dropped.
func (s *Source) ListArticles(ctx context.Context) ([]*hndigest.Article, error) {
	content, err := s.fetcher.Fetch(ctx, s.feedURL)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, hndigest.Errorf(hndigest.EPARSE, "empty feed content from %s", s.feedURL)
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(content))
	if err != nil {
		return nil, hndigest.Errorf(hndigest.EPARSE, "parse feed %s: %v", s.feedURL, err)
	}

	articles := make([]*hndigest.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if a := toArticle(item); a != nil {
			articles = append(articles, a)
		}
	}
	return articles, nil
}

func toArticle(item *gofeed.Item) *hndigest.Article {
	if item == nil {
		return nil
	}
	link := strings.TrimSpace(item.Link)
	id := strings.TrimSpace(item.GUID)
	if id == "" {
		id = link
	}
	if id == "" {
		return nil
	}

	a := &hndigest.Article{
		ID:    hndigest.ItemID(id),
		Title: strings.TrimSpace(item.Title),
		URL:   link,
	}
	if item.PublishedParsed != nil {
		a.AddTime = item.PublishedParsed.UTC()
	}
	return a
}
