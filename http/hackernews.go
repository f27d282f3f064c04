package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/fwojciec/hndigest"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultHackerNewsAPI is the HackerNews Firebase API root.
	DefaultHackerNewsAPI = "https://hacker-news.firebaseio.com/v0"

	// DefaultStoryLimit is the number of top stories listed by default.
	DefaultStoryLimit = 500
)

// Ensure HackerNewsSource implements hndigest.ArticleSource.
var _ hndigest.ArticleSource = (*HackerNewsSource)(nil)

// HackerNewsSource lists the current HackerNews top stories.
type HackerNewsSource struct {
	client      *http.Client
	baseURL     string
	limit       int
	concurrency int
}

// SourceOption configures a HackerNewsSource.
type SourceOption func(*HackerNewsSource)

// WithBaseURL overrides DefaultHackerNewsAPI.
func WithBaseURL(u string) SourceOption {
	return func(s *HackerNewsSource) {
		s.baseURL = u
	}
}

// WithLimit caps the number of stories listed.
func WithLimit(n int) SourceOption {
	return func(s *HackerNewsSource) {
		s.limit = n
	}
}

// WithConcurrency sets how many item requests run at once. Defaults to 10.
func WithConcurrency(n int) SourceOption {
	return func(s *HackerNewsSource) {
		s.concurrency = n
	}
}

// NewHackerNewsSource creates a new HackerNewsSource. If client is nil,
// http.DefaultClient is used.
func NewHackerNewsSource(client *http.Client, opts ...SourceOption) *HackerNewsSource {
	if client == nil {
		client = http.DefaultClient
	}
	s := &HackerNewsSource{
		client:      client,
		baseURL:     DefaultHackerNewsAPI,
		limit:       DefaultStoryLimit,
		concurrency: 10,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type hnItem struct {
	ID      int64  `json:"id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Deleted bool   `json:"deleted"`
	Dead    bool   `json:"dead"`
}

// ListArticles returns top stories in rank order. Stories whose item
// request fails, and deleted or dead stories, are left out; an error is
// returned only when the story list itself cannot be read or every item
// request fails.
func (s *HackerNewsSource) ListArticles(ctx context.Context) ([]*hndigest.Article, error) {
	var ids []int64
	if err := s.getJSON(ctx, s.baseURL+"/topstories.json", &ids); err != nil {
		return nil, err
	}
	if s.limit > 0 && len(ids) > s.limit {
		ids = ids[:s.limit]
	}
	if len(ids) == 0 {
		return []*hndigest.Article{}, nil
	}

	items := make([]*hnItem, len(ids))
	errs := make([]error, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.concurrency, 1))
	for i, id := range ids {
		g.Go(func() error {
			var item hnItem
			if err := s.getJSON(gctx, fmt.Sprintf("%s/item/%d.json", s.baseURL, id), &item); err != nil {
				errs[i] = err
				return nil
			}
			items[i] = &item
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	articles := make([]*hndigest.Article, 0, len(ids))
	for _, item := range items {
		if item == nil || item.Deleted || item.Dead || item.ID == 0 {
			continue
		}
		articles = append(articles, &hndigest.Article{
			ID:    hndigest.ItemID(strconv.FormatInt(item.ID, 10)),
			Title: item.Title,
			URL:   item.URL,
		})
	}

	if len(articles) == 0 {
		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
	}

	return articles, nil
}

func (s *HackerNewsSource) getJSON(ctx context.Context, target string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return hndigest.Errorf(hndigest.ENETWORK, "fetch %s: %v", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return hndigest.StatusErrorf(hndigest.EFETCH, resp.StatusCode, "HTTP %d for %s", resp.StatusCode, target)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return hndigest.Errorf(hndigest.EPARSE, "decoding %s: %v", target, err)
	}
	return nil
}
