package digest

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/fwojciec/hndigest"
	"golang.org/x/sync/errgroup"
)

// PDF extraction defaults.
const (
	DefaultPDFTimeout  = 30 * time.Second
	DefaultPDFMaxPages = 5
)

// PDFExtractor turns a PDF URL into text. It never fails: when the
// document cannot be read in time it returns a degraded message, built
// from the abstract page when one can be fetched.
type PDFExtractor struct {
	Fetcher hndigest.Fetcher
	Loader  hndigest.PDFLoader

	// Articles fetches the abstract page used as a fallback.
	// A nil parser disables the fallback.
	Articles *ArticleParser

	Locale   hndigest.Locale
	Timeout  time.Duration
	MaxPages int
	Logger   *slog.Logger
}

// Extract returns the text of the first pages of the PDF at url.
func (e *PDFExtractor) Extract(ctx context.Context, url string) string {
	text, _ := e.extract(ctx, url)
	return text
}

// extract is Extract with the failure of the last tier reported: when
// neither the document nor its abstract page yields text, the bare
// failure message is returned together with the extraction error.
func (e *PDFExtractor) extract(ctx context.Context, url string) (string, error) {
	m := e.Locale.Messages()

	// The abstract page is fetched alongside the document so that it is
	// ready if the document fails.
	fctx, cancel := context.WithCancel(ctx)
	defer cancel()
	abstract := e.startFallback(fctx, url)

	text, err := Race(ctx, e.timeout(), func(ctx context.Context) (string, error) {
		return e.extractPages(ctx, url)
	})
	if err == nil {
		return text, nil
	}

	e.logger().Warn("pdf extraction failed", "url", url, "error", err)
	failed := fmt.Sprintf(m.PDFFailedFormat, hndigest.ErrorMessage(err))
	if s := <-abstract; s != "" {
		return failed + "\n\n" + m.PDFFallbackIntro + "\n\n" + s, nil
	}
	return failed + "\n" + fmt.Sprintf(m.PDFVisitFormat, url), err
}

// startFallback begins fetching the abstract page of url. The returned
// channel yields the page text, or "" when there is no abstract page or
// it could not be parsed.
func (e *PDFExtractor) startFallback(ctx context.Context, url string) <-chan string {
	ch := make(chan string, 1)
	absURL, ok := hndigest.AbstractURL(url)
	if !ok || e.Articles == nil {
		ch <- ""
		return ch
	}
	go func() {
		text, err := e.Articles.Parse(ctx, absURL)
		if err != nil {
			e.logger().Debug("abstract fallback failed", "url", absURL, "error", err)
			text = ""
		}
		ch <- text
	}()
	return ch
}

// extractPages downloads the document and extracts its first pages
// concurrently. It fails when no page yields text.
func (e *PDFExtractor) extractPages(ctx context.Context, url string) (string, error) {
	data, err := e.Fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	doc, err := e.Loader.Load(data)
	if err != nil {
		return "", err
	}

	total := doc.NumPage()
	if total <= 0 {
		return "", hndigest.Errorf(hndigest.EPARSE, "pdf has no pages")
	}
	n := min(total, e.maxPages())

	// Results arrive in completion order and are sorted afterwards.
	resultCh := make(chan hndigest.PageResult, n)
	var g errgroup.Group
	for i := 1; i <= n; i++ {
		g.Go(func() error {
			resultCh <- e.extractPage(ctx, doc, i)
			return nil
		})
	}
	_ = g.Wait()
	close(resultCh)

	results := make([]hndigest.PageResult, 0, n)
	var succeeded int
	for r := range resultCh {
		if r.Success {
			succeeded++
		}
		results = append(results, r)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if succeeded == 0 {
		return "", hndigest.Errorf(hndigest.EPARSE, "no text extracted from the first %d pages", n)
	}

	slices.SortFunc(results, func(a, b hndigest.PageResult) int {
		return cmp.Compare(a.PageIndex, b.PageIndex)
	})
	return e.assemble(total, results), nil
}

// extractPage extracts a single page. Pages without any text count as
// failed so that scanned documents fall back to the abstract.
func (e *PDFExtractor) extractPage(ctx context.Context, doc hndigest.PDFDocument, i int) hndigest.PageResult {
	text, err := doc.PageText(ctx, i)
	if err == nil {
		text = hndigest.NormalizeWhitespace(text)
	}
	if err != nil || text == "" {
		e.logger().Debug("pdf page failed", "page", i, "error", err)
		return hndigest.PageResult{
			PageIndex: i,
			Text:      fmt.Sprintf(e.Locale.Messages().PDFPageFailedFormat, i),
		}
	}
	return hndigest.PageResult{PageIndex: i, Text: text, Success: true}
}

func (e *PDFExtractor) assemble(total int, results []hndigest.PageResult) string {
	m := e.Locale.Messages()
	var b strings.Builder
	fmt.Fprintf(&b, m.PDFHeaderFormat, total, len(results))
	for _, r := range results {
		b.WriteString("\n\n")
		fmt.Fprintf(&b, m.PDFPageFormat, r.PageIndex)
		b.WriteString("\n")
		b.WriteString(r.Text)
	}
	return b.String()
}

func (e *PDFExtractor) timeout() time.Duration {
	if e.Timeout <= 0 {
		return DefaultPDFTimeout
	}
	return e.Timeout
}

func (e *PDFExtractor) maxPages() int {
	if e.MaxPages <= 0 {
		return DefaultPDFMaxPages
	}
	return e.MaxPages
}

func (e *PDFExtractor) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}
