// Package htmltomarkdown extracts article content as Markdown, keeping
// headings, links, lists and tables that plain-text extraction flattens.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/hndigest"
	hngoquery "github.com/fwojciec/hndigest/goquery"
)

// Ensure Extractor implements hndigest.Extractor at compile time.
var _ hndigest.Extractor = (*Extractor)(nil)

// Extractor locates the article container the same way the selector
// extractor does and converts its HTML to Markdown.
type Extractor struct {
	conv   *converter.Converter
	locale hndigest.Locale
}

// NewExtractor creates a new Extractor.
func NewExtractor(locale hndigest.Locale) *Extractor {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Extractor{conv: conv, locale: locale}
}

// Extract converts the main content of rawHTML to Markdown. Relative links
// are resolved against sourceURL.
func (e *Extractor) Extract(rawHTML, sourceURL string) (*hndigest.ExtractionResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, hndigest.Errorf(hndigest.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, hndigest.Errorf(hndigest.EPARSE, "parse html: %v", err)
	}

	title := oneLine(doc.Find("title").First().Text())
	if title == "" {
		title = oneLine(doc.Find("h1").First().Text())
	}
	if title == "" {
		title = e.locale.Messages().Untitled
	}

	doc.Find(strings.Join(hngoquery.DenySelectors, ", ")).Remove()
	content, err := goquery.OuterHtml(container(doc))
	if err != nil {
		return nil, hndigest.Errorf(hndigest.EPARSE, "render html: %v", err)
	}

	md, err := e.conv.ConvertString(content, converter.WithDomain(sourceURL))
	if err != nil {
		return nil, hndigest.Errorf(hndigest.EPARSE, "convert to markdown: %v", err)
	}

	return &hndigest.ExtractionResult{
		Title: title,
		URL:   sourceURL,
		Body:  strings.TrimSpace(md),
	}, nil
}

func container(doc *goquery.Document) *goquery.Selection {
	for _, selector := range hngoquery.ContainerSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			return sel
		}
	}
	if body := doc.Find("body"); body.Length() > 0 {
		return body
	}
	return doc.Selection
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
