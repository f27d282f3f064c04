package digest_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/hndigest"
	"github.com/fwojciec/hndigest/digest"
	"github.com/fwojciec/hndigest/goquery"
	"github.com/fwojciec/hndigest/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const paperURL = "https://arxiv.org/pdf/2401.00001.pdf"

func pdfFetcher() *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, _ string) ([]byte, error) {
			return []byte("%PDF-1.4"), nil
		},
	}
}

// pdfDocument returns a loader of a document with n pages whose text is
// produced by page.
func pdfDocument(n int, page func(ctx context.Context, i int) (string, error)) *mock.PDFLoader {
	return &mock.PDFLoader{
		LoadFn: func(_ []byte) (hndigest.PDFDocument, error) {
			return &mock.PDFDocument{
				NumPageFn:  func() int { return n },
				PageTextFn: page,
			}, nil
		},
	}
}

func TestPDFExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts at most five pages in page order", func(t *testing.T) {
		t.Parallel()

		var (
			mu        sync.Mutex
			requested []int
		)
		e := &digest.PDFExtractor{
			Fetcher: pdfFetcher(),
			Loader: pdfDocument(12, func(_ context.Context, i int) (string, error) {
				mu.Lock()
				requested = append(requested, i)
				mu.Unlock()
				// Earlier pages finish later.
				time.Sleep(time.Duration(6-i) * 5 * time.Millisecond)
				return fmt.Sprintf("text of page %d", i), nil
			}),
			Locale: hndigest.LocaleEnglish,
		}

		got := e.Extract(context.Background(), paperURL)

		assert.Len(t, requested, 5)
		assert.True(t, strings.HasPrefix(got, "PDF has 12 pages, showing the first 5"))
		last := -1
		for i := 1; i <= 5; i++ {
			idx := strings.Index(got, fmt.Sprintf("--- Page %d ---\ntext of page %d", i, i))
			require.GreaterOrEqual(t, idx, 0, "page %d missing", i)
			assert.Greater(t, idx, last, "page %d out of order", i)
			last = idx
		}
		assert.NotContains(t, got, "Page 6")
	})

	t.Run("failed pages get a placeholder", func(t *testing.T) {
		t.Parallel()

		e := &digest.PDFExtractor{
			Fetcher: pdfFetcher(),
			Loader: pdfDocument(3, func(_ context.Context, i int) (string, error) {
				if i == 2 {
					return "", errors.New("broken page")
				}
				return fmt.Sprintf("page %d", i), nil
			}),
		}

		got := e.Extract(context.Background(), paperURL)

		assert.Contains(t, got, "PDF 共 3 页，以下为前 3 页的内容")
		assert.Contains(t, got, "--- 第 2 页 ---\n[第 2 页提取失败]")
		assert.Contains(t, got, "--- 第 3 页 ---\npage 3")
	})

	t.Run("no successful page and no fallback yields a failure message", func(t *testing.T) {
		t.Parallel()

		url := "https://example.com/files/report.pdf"
		e := &digest.PDFExtractor{
			Fetcher: pdfFetcher(),
			Loader: pdfDocument(2, func(_ context.Context, _ int) (string, error) {
				return "", errors.New("encrypted")
			}),
		}

		got := e.Extract(context.Background(), url)

		assert.True(t, strings.HasPrefix(got, "无法提取 PDF 内容: "), got)
		assert.Contains(t, got, url)
	})

	t.Run("blank pages count as failures", func(t *testing.T) {
		t.Parallel()

		e := &digest.PDFExtractor{
			Fetcher: pdfFetcher(),
			Loader: pdfDocument(1, func(_ context.Context, _ int) (string, error) {
				return "  \n ", nil
			}),
			Locale: hndigest.LocaleEnglish,
		}

		got := e.Extract(context.Background(), "https://example.com/scan.pdf")

		assert.True(t, strings.HasPrefix(got, "Failed to extract PDF content: "), got)
	})

	t.Run("falls back to the abstract page", func(t *testing.T) {
		t.Parallel()

		abstractHTML := `<html><head><title>A Paper</title></head><body>
			<h1 class="title">Title: A Paper</h1>
			<blockquote class="abstract">Abstract: We study things.</blockquote></body></html>`
		e := &digest.PDFExtractor{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) ([]byte, error) {
					return nil, hndigest.StatusErrorf(hndigest.EFETCH, 503, "fetch: 503 Service Unavailable")
				},
			},
			Loader: &mock.PDFLoader{},
			Articles: &digest.ArticleParser{
				Fetcher:   staticFetcher(map[string]string{"https://arxiv.org/abs/2401.00001": abstractHTML}),
				Extractor: goquery.NewDefaultRegistry(goquery.WithLocale(hndigest.LocaleEnglish)),
				Locale:    hndigest.LocaleEnglish,
			},
			Locale: hndigest.LocaleEnglish,
		}

		got := e.Extract(context.Background(), paperURL)

		assert.True(t, strings.HasPrefix(got, "Failed to extract PDF content: fetch: 503"), got)
		assert.Contains(t, got, "Content of the abstract page:")
		assert.Contains(t, got, "We study things.")
	})

	t.Run("times out and reports the deadline", func(t *testing.T) {
		t.Parallel()

		e := &digest.PDFExtractor{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, _ string) ([]byte, error) {
					<-ctx.Done()
					return nil, ctx.Err()
				},
			},
			Loader:  &mock.PDFLoader{},
			Timeout: 20 * time.Millisecond,
			Locale:  hndigest.LocaleEnglish,
		}

		start := time.Now()
		got := e.Extract(context.Background(), "https://example.com/slow.pdf")

		assert.Less(t, time.Since(start), time.Second)
		assert.Contains(t, got, "timed out after 20ms")
		assert.Contains(t, got, "https://example.com/slow.pdf")
	})

	t.Run("unreadable document", func(t *testing.T) {
		t.Parallel()

		e := &digest.PDFExtractor{
			Fetcher: pdfFetcher(),
			Loader: &mock.PDFLoader{
				LoadFn: func(_ []byte) (hndigest.PDFDocument, error) {
					return nil, hndigest.Errorf(hndigest.EPARSE, "not a pdf")
				},
			},
			Locale: hndigest.LocaleEnglish,
		}

		got := e.Extract(context.Background(), "https://example.com/x.pdf")

		assert.Equal(t, "Failed to extract PDF content: not a pdf\nPlease open the original document: https://example.com/x.pdf", got)
	})
}
