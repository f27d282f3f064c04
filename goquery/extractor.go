// Package goquery implements HTML content extraction on top of goquery
// selectors.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/hndigest"
)

// DenySelectors match boilerplate removed before the body is located.
var DenySelectors = []string{
	"script", "style", "nav", "header", "footer", "aside", "iframe",
	".ads", ".advertisement", ".sidebar", ".comments", ".nav", ".menu",
}

// ContainerSelectors are probed in order; the first one matching any
// element is the article container.
var ContainerSelectors = []string{
	"article", `[role="article"]`, ".article", ".post", ".post-content",
	".entry-content", ".content", ".main-content", "main", "#content", "#main",
}

// FieldRule reads a value from the first element matching Selector: the
// Attr attribute, or the element text when Attr is empty.
type FieldRule struct {
	Selector string
	Attr     string
}

// Field rule chains. The first rule yielding a non-empty value wins.
var (
	TitleRules = []FieldRule{
		{Selector: "title"},
		{Selector: "h1"},
	}
	AuthorRules = []FieldRule{
		{Selector: `meta[name="author"]`, Attr: "content"},
		{Selector: ".author"},
		{Selector: ".byline"},
	}
	DescriptionRules = []FieldRule{
		{Selector: `meta[name="description"]`, Attr: "content"},
	}
)

// Ensure Extractor implements hndigest.Extractor at compile time.
var _ hndigest.Extractor = (*Extractor)(nil)

// Extractor locates the main text of an article with a fixed selector
// heuristic: strip boilerplate, take the first matching container and join
// its paragraphs.
type Extractor struct {
	locale hndigest.Locale
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLocale sets the locale of the "untitled" placeholder.
func WithLocale(l hndigest.Locale) Option {
	return func(e *Extractor) {
		e.locale = l
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{locale: hndigest.DefaultLocale}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract processes raw HTML and returns the article content.
func (e *Extractor) Extract(rawHTML, sourceURL string) (*hndigest.ExtractionResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, hndigest.Errorf(hndigest.EPARSE, "failed to parse HTML: %v", err)
	}

	// The title is read before boilerplate removal: pages often keep their
	// only <h1> inside <header>.
	title := oneLine(firstValue(doc.Selection, TitleRules))
	if title == "" {
		title = e.locale.Messages().Untitled
	}

	doc.Find(strings.Join(DenySelectors, ", ")).Remove()

	return &hndigest.ExtractionResult{
		Title:       title,
		Author:      oneLine(firstValue(doc.Selection, AuthorRules)),
		Description: oneLine(firstValue(doc.Selection, DescriptionRules)),
		URL:         sourceURL,
		Body:        hndigest.NormalizeWhitespace(mainText(doc)),
	}, nil
}

// mainText returns the paragraphs of the first matching container joined
// by blank lines, the container text if it has no paragraphs, or the body
// text if no container matches.
func mainText(doc *goquery.Document) string {
	for _, selector := range ContainerSelectors {
		container := doc.Find(selector).First()
		if container.Length() == 0 {
			continue
		}

		var paragraphs []string
		container.Find("p").Each(func(_ int, p *goquery.Selection) {
			if text := strings.TrimSpace(p.Text()); text != "" {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) > 0 {
			return strings.Join(paragraphs, "\n\n")
		}
		return strings.TrimSpace(container.Text())
	}

	body := doc.Find("body")
	if body.Length() == 0 {
		return doc.Text()
	}
	return body.Text()
}

// firstValue evaluates rules in order against root.
func firstValue(root *goquery.Selection, rules []FieldRule) string {
	for _, rule := range rules {
		sel := root.Find(rule.Selector).First()
		if sel.Length() == 0 {
			continue
		}
		var value string
		if rule.Attr != "" {
			value, _ = sel.Attr(rule.Attr)
		} else {
			value = sel.Text()
		}
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return ""
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
