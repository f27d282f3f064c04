package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/hndigest"
)

// Ensure ArxivExtractor implements hndigest.Extractor at compile time.
var _ hndigest.Extractor = (*ArxivExtractor)(nil)

// ArxivExtractor reads the title, authors and abstract of an arXiv
// abstract page. Pages without an abstract block go to the fallback.
type ArxivExtractor struct {
	fallback hndigest.Extractor
}

// NewArxivExtractor creates a new ArxivExtractor.
func NewArxivExtractor(fallback hndigest.Extractor) *ArxivExtractor {
	return &ArxivExtractor{fallback: fallback}
}

// Extract processes an arXiv abstract page.
func (e *ArxivExtractor) Extract(rawHTML, sourceURL string) (*hndigest.ExtractionResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, hndigest.Errorf(hndigest.EPARSE, "failed to parse HTML: %v", err)
	}

	abstract := labeled(doc.Find("blockquote.abstract").First(), "Abstract:")
	if abstract == "" {
		return e.fallback.Extract(rawHTML, sourceURL)
	}

	title := labeled(doc.Find("h1.title").First(), "Title:")
	if title == "" {
		title = oneLine(firstValue(doc.Selection, TitleRules))
	}

	description, _ := doc.Find(`meta[name="citation_arxiv_id"]`).First().Attr("content")
	if description != "" {
		description = "arXiv:" + description
	}

	return &hndigest.ExtractionResult{
		Title:       title,
		Author:      labeled(doc.Find(".authors").First(), "Authors:"),
		Description: description,
		URL:         sourceURL,
		Body:        hndigest.NormalizeWhitespace(abstract),
	}, nil
}

// labeled returns the selection text on one line without its label
// prefix, e.g. "Title:".
func labeled(sel *goquery.Selection, label string) string {
	text := oneLine(sel.Text())
	return strings.TrimSpace(strings.TrimPrefix(text, label))
}
