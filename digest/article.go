// Package digest orchestrates fetching, extraction and summarization of
// articles and papers, and runs batches of them.
package digest

import (
	"bytes"
	"context"
	"unicode/utf8"

	"github.com/fwojciec/hndigest"
	"golang.org/x/net/html/charset"
)

// ArticleParser fetches an HTML article and extracts its readable text.
type ArticleParser struct {
	Fetcher   hndigest.Fetcher
	Extractor hndigest.Extractor
	Locale    hndigest.Locale
}

// Extract fetches url and returns its extraction result.
// Fetch and parse failures are returned as EPARSE errors.
func (p *ArticleParser) Extract(ctx context.Context, url string) (*hndigest.ExtractionResult, error) {
	body, err := p.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, &hndigest.Error{
			Code:    hndigest.EPARSE,
			Message: "parse article: " + hndigest.ErrorMessage(err),
			Status:  hndigest.ErrorStatus(err),
		}
	}

	result, err := p.Extractor.Extract(decodeHTML(body), url)
	if err != nil {
		return nil, hndigest.Errorf(hndigest.EPARSE, "parse article: %s", hndigest.ErrorMessage(err))
	}
	return result, nil
}

// Parse fetches url and returns the composed article text.
func (p *ArticleParser) Parse(ctx context.Context, url string) (string, error) {
	result, err := p.Extract(ctx, url)
	if err != nil {
		return "", err
	}
	return result.Format(p.Locale), nil
}

// decodeHTML converts body to UTF-8. Bodies that already are valid UTF-8
// are used as is; others are decoded per their BOM or meta charset.
func decodeHTML(body []byte) string {
	if utf8.Valid(body) {
		return string(body)
	}
	enc, _, _ := charset.DetermineEncoding(body, "")
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return string(bytes.ToValidUTF8(body, []byte("�")))
	}
	return string(decoded)
}
