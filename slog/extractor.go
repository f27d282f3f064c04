package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/hndigest"
)

// Ensure LoggingExtractor implements hndigest.Extractor.
var _ hndigest.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with debug logging.
type LoggingExtractor struct {
	next   hndigest.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next hndigest.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates and logs what was found.
func (e *LoggingExtractor) Extract(html, sourceURL string) (result *hndigest.ExtractionResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", sourceURL, "duration", time.Since(begin)}
		if result != nil {
			attrs = append(attrs,
				"title", result.Title,
				"has_author", result.Author != "",
				"body_bytes", len(result.Body))
		}
		if err != nil {
			attrs = append(attrs, "err", err)
		}
		e.logger.Debug("extract", attrs...)
	}(time.Now())
	return e.next.Extract(html, sourceURL)
}
