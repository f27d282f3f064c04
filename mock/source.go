package mock

import (
	"context"

	"github.com/fwojciec/hndigest"
)

var (
	_ hndigest.ArticleSource = (*ArticleSource)(nil)
	_ hndigest.SummaryStore  = (*SummaryStore)(nil)
	_ hndigest.PaperLookup   = (*PaperLookup)(nil)
)

// ArticleSource is a mock implementation of hndigest.ArticleSource.
type ArticleSource struct {
	ListArticlesFn func(ctx context.Context) ([]*hndigest.Article, error)
}

func (s *ArticleSource) ListArticles(ctx context.Context) ([]*hndigest.Article, error) {
	return s.ListArticlesFn(ctx)
}

// SummaryStore is a mock implementation of hndigest.SummaryStore.
type SummaryStore struct {
	LoadSummariesFn func(ctx context.Context) ([]*hndigest.Summary, error)
	SaveSummariesFn func(ctx context.Context, summaries []*hndigest.Summary) error
}

func (s *SummaryStore) LoadSummaries(ctx context.Context) ([]*hndigest.Summary, error) {
	return s.LoadSummariesFn(ctx)
}

func (s *SummaryStore) SaveSummaries(ctx context.Context, summaries []*hndigest.Summary) error {
	return s.SaveSummariesFn(ctx, summaries)
}

// PaperLookup is a mock implementation of hndigest.PaperLookup.
type PaperLookup struct {
	LookupPaperFn func(ctx context.Context, arxivURL string) (*hndigest.Paper, error)
}

func (l *PaperLookup) LookupPaper(ctx context.Context, arxivURL string) (*hndigest.Paper, error) {
	return l.LookupPaperFn(ctx, arxivURL)
}
