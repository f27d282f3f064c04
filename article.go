package hndigest

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// ItemID identifies an article. HackerNews item IDs arrive as JSON numbers
// while favorites created locally use string IDs, so both forms decode.
type ItemID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ItemID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ItemID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return Errorf(EINVALID, "invalid item id %s", b)
	}
	*id = ItemID(n.String())
	return nil
}

// MarshalJSON writes numeric IDs back as JSON numbers so HackerNews
// records round-trip unchanged.
func (id ItemID) MarshalJSON() ([]byte, error) {
	if id.numeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ItemID) numeric() bool {
	if id == "" || len(id) > 18 || (id[0] == '0' && len(id) > 1) {
		return false
	}
	return strings.Trim(string(id), "0123456789") == ""
}

// Article is a linked story: a HackerNews item, a feed entry or a favorite.
type Article struct {
	ID      ItemID    `json:"id"`
	Title   string    `json:"title"`
	URL     string    `json:"url"`
	AddTime time.Time `json:"addTime,omitzero"`
}

// Validate returns an error if the article contains invalid fields.
func (a *Article) Validate() error {
	if a.ID == "" {
		return Errorf(EINVALID, "article id required")
	}
	return nil
}

// Paper is an arXiv paper. It is keyed by its arXiv URL.
type Paper struct {
	ArxivURL  string    `json:"arxiv_url"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary,omitempty"`
	Authors   []string  `json:"authors,omitempty"`
	Published string    `json:"published,omitempty"`
	AddTime   time.Time `json:"addTime,omitzero"`
}

// Validate returns an error if the paper contains invalid fields.
func (p *Paper) Validate() error {
	if p.ArxivURL == "" {
		return Errorf(EINVALID, "paper arxiv_url required")
	}
	return nil
}

// Summary is one record of a batch run's output.
type Summary struct {
	ID          ItemID `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	AISummary   string `json:"aiSummary"`
	ContentHash string `json:"contentHash,omitempty"`
}

// ArticleSource lists articles to process.
type ArticleSource interface {
	// ListArticles returns articles in source order.
	ListArticles(ctx context.Context) ([]*Article, error)
}

// SummaryStore persists the output of a batch run. SaveSummaries replaces
// the stored list with the given one.
type SummaryStore interface {
	LoadSummaries(ctx context.Context) ([]*Summary, error)
	SaveSummaries(ctx context.Context, summaries []*Summary) error
}

// PaperLookup resolves paper metadata from an arXiv URL.
type PaperLookup interface {
	// LookupPaper returns ENOTFOUND if the paper does not exist.
	LookupPaper(ctx context.Context, arxivURL string) (*Paper, error)
}
