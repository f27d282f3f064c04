// Package trafilatura implements hndigest.Extractor with go-trafilatura.
package trafilatura

import (
	"net/url"
	"strings"

	"github.com/fwojciec/hndigest"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure Extractor implements hndigest.Extractor at compile time.
var _ hndigest.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct {
	locale hndigest.Locale
}

// NewExtractor creates a new Extractor.
func NewExtractor(locale hndigest.Locale) *Extractor {
	return &Extractor{locale: locale}
}

// Extract processes raw HTML and returns the main content as plain text.
func (e *Extractor) Extract(rawHTML, sourceURL string) (*hndigest.ExtractionResult, error) {
	if rawHTML == "" {
		return nil, hndigest.Errorf(hndigest.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}
	if u, err := url.Parse(sourceURL); err == nil && u.Host != "" {
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, hndigest.Errorf(hndigest.EPARSE, "trafilatura: %v", err)
	}

	title := strings.TrimSpace(result.Metadata.Title)
	if title == "" {
		title = e.locale.Messages().Untitled
	}

	return &hndigest.ExtractionResult{
		Title:       title,
		Author:      strings.TrimSpace(result.Metadata.Author),
		Description: strings.TrimSpace(result.Metadata.Description),
		URL:         sourceURL,
		Body:        hndigest.NormalizeWhitespace(result.ContentText),
	}, nil
}
