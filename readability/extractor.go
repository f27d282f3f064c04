// Package readability implements hndigest.Extractor with go-readability,
// a port of Mozilla's Readability.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/hndigest"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements hndigest.Extractor at compile time.
var _ hndigest.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct {
	locale hndigest.Locale
}

// NewExtractor creates a new Extractor. The locale selects the text used
// for pages without a title.
func NewExtractor(locale hndigest.Locale) *Extractor {
	return &Extractor{locale: locale}
}

// Extract processes raw HTML and returns the main content as plain text.
func (e *Extractor) Extract(rawHTML, sourceURL string) (*hndigest.ExtractionResult, error) {
	if rawHTML == "" {
		return nil, hndigest.Errorf(hndigest.EINVALID, "empty HTML input")
	}

	// Relative links are resolved against the page URL when it parses.
	pageURL, _ := url.Parse(sourceURL)
	article, err := readability.FromReader(strings.NewReader(rawHTML), pageURL)
	if err != nil {
		return nil, hndigest.Errorf(hndigest.EPARSE, "readability: %v", err)
	}

	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = e.locale.Messages().Untitled
	}

	return &hndigest.ExtractionResult{
		Title:       title,
		Author:      strings.TrimSpace(article.Byline),
		Description: strings.TrimSpace(article.Excerpt),
		URL:         sourceURL,
		Body:        hndigest.NormalizeWhitespace(article.TextContent),
	}, nil
}
