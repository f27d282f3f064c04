package digest

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/hndigest"
)

// DefaultMaxChars bounds the text sent to the summarizer.
const DefaultMaxChars = 10000

// Digester produces the text and AI summary of a single URL, routing PDF
// links to the PDF extractor and everything else to the article parser.
type Digester struct {
	Articles   *ArticleParser
	PDFs       *PDFExtractor
	Summarizer hndigest.Summarizer
	Locale     hndigest.Locale
	MaxChars   int
	Logger     *slog.Logger
}

// Digest is the outcome of digesting one URL. Content and Summary always
// hold displayable text; the errors record what went wrong, if anything.
type Digest struct {
	URL        string
	Content    string
	Summary    string
	ContentErr error
	SummaryErr error
}

// Failed reports whether any step of the digest failed.
func (d *Digest) Failed() bool {
	return d.ContentErr != nil || d.SummaryErr != nil
}

// ContentHash returns the hex xxhash of the extracted content.
func (d *Digest) ContentHash() string {
	return strconv.FormatUint(xxhash.Sum64String(d.Content), 16)
}

// Content returns the readable text behind url. On failure the returned
// text is a localized placeholder and the error is non-nil. A PDF whose
// abstract page stood in for the document counts as a success.
func (d *Digester) Content(ctx context.Context, url string) (string, error) {
	m := d.Locale.Messages()
	if url == "" {
		return m.MissingURL, hndigest.Errorf(hndigest.EINVALID, "url required")
	}
	if d.PDFs != nil && hndigest.IsPDFURL(url) {
		return d.PDFs.extract(ctx, url)
	}
	text, err := d.Articles.Parse(ctx, url)
	if err != nil {
		return fmt.Sprintf(m.ArticleFailedFormat, hndigest.ErrorMessage(err)), err
	}
	return text, nil
}

// Summarize asks the summarizer about text, truncated to MaxChars runes.
// On failure the returned text is a localized placeholder.
func (d *Digester) Summarize(ctx context.Context, text string) (string, error) {
	summary, err := d.Summarizer.Summarize(ctx, hndigest.Truncate(text, d.maxChars()))
	if err != nil {
		return fmt.Sprintf(d.Locale.Messages().SummaryFailedFormat, hndigest.ErrorMessage(err)), err
	}
	return summary, nil
}

// Digest fetches, extracts and summarizes url. Placeholders are never
// sent to the summarizer: when extraction fails the summary repeats the
// extraction placeholder.
func (d *Digester) Digest(ctx context.Context, url string) *Digest {
	dg := &Digest{URL: url}
	dg.Content, dg.ContentErr = d.Content(ctx, url)
	if dg.ContentErr != nil {
		d.logger().Warn("content unavailable", "url", url, "error", dg.ContentErr)
		dg.Summary = dg.Content
		return dg
	}
	dg.Summary, dg.SummaryErr = d.Summarize(ctx, dg.Content)
	if dg.SummaryErr != nil {
		d.logger().Warn("summary unavailable", "url", url, "error", dg.SummaryErr)
	}
	return dg
}

func (d *Digester) maxChars() int {
	if d.MaxChars == 0 {
		return DefaultMaxChars
	}
	return d.MaxChars
}

func (d *Digester) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}
