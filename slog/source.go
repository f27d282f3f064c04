package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/hndigest"
)

// Ensure LoggingArticleSource implements hndigest.ArticleSource.
var _ hndigest.ArticleSource = (*LoggingArticleSource)(nil)

// LoggingArticleSource wraps an ArticleSource with logging.
type LoggingArticleSource struct {
	next   hndigest.ArticleSource
	name   string
	logger *slog.Logger
}

// NewLoggingArticleSource creates a new LoggingArticleSource. name
// identifies the source in log lines.
func NewLoggingArticleSource(next hndigest.ArticleSource, name string, logger *slog.Logger) *LoggingArticleSource {
	return &LoggingArticleSource{next: next, name: name, logger: logger}
}

// ListArticles delegates and logs the number of articles.
func (s *LoggingArticleSource) ListArticles(ctx context.Context) (articles []*hndigest.Article, err error) {
	defer func(begin time.Time) {
		s.logger.Info("list articles",
			"source", s.name,
			"count", len(articles),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ListArticles(ctx)
}
