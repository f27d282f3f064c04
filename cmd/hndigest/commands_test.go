package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/hndigest"
	main "github.com/fwojciec/hndigest/cmd/hndigest"
	"github.com/fwojciec/hndigest/digest"
	"github.com/fwojciec/hndigest/favorites"
	"github.com/fwojciec/hndigest/fs"
	"github.com/fwojciec/hndigest/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDeps returns dependencies whose fetcher serves pages from the map
// and whose extractor uses the page text as body.
func testDeps(pages map[string]string) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	fetcher := &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) ([]byte, error) {
			body, ok := pages[url]
			if !ok {
				return nil, hndigest.StatusErrorf(hndigest.EFETCH, http.StatusNotFound, "fetch %s: 404 Not Found", url)
			}
			return []byte(body), nil
		},
		CloseFn: func() error { return nil },
	}
	extractor := &mock.Extractor{
		ExtractFn: func(html, sourceURL string) (*hndigest.ExtractionResult, error) {
			return &hndigest.ExtractionResult{Title: "T", URL: sourceURL, Body: html}, nil
		},
	}
	articles := &digest.ArticleParser{Fetcher: fetcher, Extractor: extractor, Locale: hndigest.LocaleEnglish}

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:      context.Background(),
		Stdout:   stdout,
		Stderr:   stderr,
		Articles: articles,
		PDFs: &digest.PDFExtractor{
			Fetcher: fetcher,
			Loader: &mock.PDFLoader{
				LoadFn: func([]byte) (hndigest.PDFDocument, error) {
					return nil, errors.New("not a pdf")
				},
			},
			Articles: articles,
			Locale:   hndigest.LocaleEnglish,
		},
	}, stdout, stderr
}

func TestReadCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints the composed article", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := testDeps(map[string]string{"https://example.com/a": "hello world"})

		err := (&main.ReadCmd{URL: "https://example.com/a"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "Title: T\nURL: https://example.com/a\n\nhello world\n", stdout.String())
	})

	t.Run("reports fetch failures", func(t *testing.T) {
		t.Parallel()

		deps, stdout, stderr := testDeps(nil)

		err := (&main.ReadCmd{URL: "https://example.com/missing"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, hndigest.EPARSE, hndigest.ErrorCode(err))
		assert.Equal(t, http.StatusNotFound, hndigest.ErrorStatus(err))
		assert.Contains(t, stderr.String(), "404")
		assert.Empty(t, stdout.String())
	})
}

func TestPaperCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints the abstract fallback when the pdf is unreadable", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := testDeps(map[string]string{
			"https://arxiv.org/pdf/2401.00001": "%PDF-garbage",
			"https://arxiv.org/abs/2401.00001": "the abstract",
		})

		err := (&main.PaperCmd{URL: "https://arxiv.org/pdf/2401.00001"}).Run(deps)

		require.NoError(t, err)
		out := stdout.String()
		assert.True(t, strings.HasPrefix(out, "Failed to extract PDF content: "), out)
		assert.Contains(t, out, "Content of the abstract page:")
		assert.Contains(t, out, "the abstract")
	})

	t.Run("rejects an empty url", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := testDeps(nil)

		err := (&main.PaperCmd{}).Run(deps)

		assert.Equal(t, hndigest.EINVALID, hndigest.ErrorCode(err))
	})
}

func TestSummarizeCmd_Run(t *testing.T) {
	t.Parallel()

	summarizer := &mock.Summarizer{
		SummarizeFn: func(_ context.Context, text string) (string, error) {
			if strings.Contains(text, "fail") {
				return "", hndigest.StatusErrorf(hndigest.ESUMMARY, http.StatusUnauthorized, "Unauthorized")
			}
			return "an analysis", nil
		},
	}

	t.Run("prints content and summary", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := testDeps(map[string]string{"https://example.com/a": "body"})
		deps.Digester = &digest.Digester{Articles: deps.Articles, PDFs: deps.PDFs, Summarizer: summarizer, Locale: hndigest.LocaleEnglish}

		err := (&main.SummarizeCmd{URL: "https://example.com/a"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "Title: T\nURL: https://example.com/a\n\nbody\n\n---\n\nan analysis\n", stdout.String())
	})

	t.Run("prints the placeholder when the summary fails", func(t *testing.T) {
		t.Parallel()

		deps, stdout, stderr := testDeps(map[string]string{"https://example.com/a": "fail"})
		deps.Digester = &digest.Digester{Articles: deps.Articles, PDFs: deps.PDFs, Summarizer: summarizer, Locale: hndigest.LocaleEnglish}

		err := (&main.SummarizeCmd{URL: "https://example.com/a"}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stdout.String(), "Unable to get AI analysis: Unauthorized")
		assert.Contains(t, stderr.String(), "Unauthorized")
	})

	t.Run("skips the summarizer when the article is unavailable", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := testDeps(nil)
		deps.Digester = &digest.Digester{
			Articles: deps.Articles,
			PDFs:     deps.PDFs,
			Locale:   hndigest.LocaleEnglish,
			Summarizer: &mock.Summarizer{
				SummarizeFn: func(context.Context, string) (string, error) {
					t.Fatal("summarizer must not be called")
					return "", nil
				},
			},
		}

		err := (&main.SummarizeCmd{URL: "https://example.com/gone"}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stdout.String(), "Unable to fetch article content: ")
	})
}

func TestTopCmd_Run(t *testing.T) {
	t.Parallel()

	source := &mock.ArticleSource{
		ListArticlesFn: func(context.Context) ([]*hndigest.Article, error) {
			return []*hndigest.Article{
				{ID: "1", Title: "First", URL: "https://example.com/1"},
				{ID: "2", Title: "Second", URL: "https://example.com/2"},
				{ID: "3", Title: "Third", URL: "https://example.com/3"},
			}, nil
		},
	}

	t.Run("prints stories up to the limit", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := testDeps(nil)
		deps.Source = source

		err := (&main.TopCmd{Limit: 2}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "1  First  https://example.com/1\n2  Second  https://example.com/2\n", stdout.String())
	})

	t.Run("writes stories to a file batch can read", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := testDeps(nil)
		deps.Source = source
		path := filepath.Join(t.TempDir(), "top.json")

		err := (&main.TopCmd{Output: path}).Run(deps)
		require.NoError(t, err)

		got, err := fs.NewArticleFile(path).ListArticles(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, hndigest.ItemID("3"), got[2].ID)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"id": 1`)
	})

	t.Run("reports source failures", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := testDeps(nil)
		deps.Source = &mock.ArticleSource{
			ListArticlesFn: func(context.Context) ([]*hndigest.Article, error) {
				return nil, hndigest.Errorf(hndigest.ENETWORK, "connection refused")
			},
		}

		err := (&main.TopCmd{}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "connection refused")
	})
}

func TestBatchCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("summarizes every article and saves the result", func(t *testing.T) {
		t.Parallel()

		deps, stdout, stderr := testDeps(map[string]string{
			"https://example.com/1": "one",
			"https://example.com/2": "two",
		})
		deps.Source = &mock.ArticleSource{
			ListArticlesFn: func(context.Context) ([]*hndigest.Article, error) {
				return []*hndigest.Article{
					{ID: "1", Title: "One", URL: "https://example.com/1"},
					{ID: "2", Title: "Two", URL: "https://example.com/2"},
					{ID: "3", Title: "Gone", URL: "https://example.com/3"},
					{ID: "4", Title: "Ask HN"},
				}, nil
			},
		}
		deps.Digester = &digest.Digester{
			Articles: deps.Articles,
			PDFs:     deps.PDFs,
			Locale:   hndigest.LocaleEnglish,
			Summarizer: &mock.Summarizer{
				SummarizeFn: func(context.Context, string) (string, error) { return "ok", nil },
			},
		}
		path := filepath.Join(t.TempDir(), "summaries.json")
		deps.Summaries = fs.NewSummaryFile(path)

		err := (&main.BatchCmd{Output: path, Limit: 500, Every: 10, Delay: time.Nanosecond}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Processed 3 of 4 articles (1 failed, 1 skipped)")
		assert.Contains(t, stderr.String(), "[1/4] https://example.com/1")

		summaries, err := fs.NewSummaryFile(path).LoadSummaries(context.Background())
		require.NoError(t, err)
		require.Len(t, summaries, 3)
		assert.Equal(t, "ok", summaries[0].AISummary)
		assert.True(t, strings.HasPrefix(summaries[2].AISummary, "Unable to fetch article content: "))
	})

	t.Run("stops and keeps progress when canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		deps, _, stderr := testDeps(map[string]string{"https://example.com/1": "one"})
		deps.Ctx = ctx
		deps.Source = &mock.ArticleSource{
			ListArticlesFn: func(context.Context) ([]*hndigest.Article, error) {
				return []*hndigest.Article{
					{ID: "1", URL: "https://example.com/1"},
					{ID: "2", URL: "https://example.com/2"},
				}, nil
			},
		}
		deps.Digester = &digest.Digester{
			Articles: deps.Articles,
			Locale:   hndigest.LocaleEnglish,
			Summarizer: &mock.Summarizer{
				SummarizeFn: func(context.Context, string) (string, error) {
					cancel()
					return "ok", nil
				},
			},
		}
		var saved []*hndigest.Summary
		deps.Summaries = &mock.SummaryStore{
			LoadSummariesFn: func(context.Context) ([]*hndigest.Summary, error) { return nil, nil },
			SaveSummariesFn: func(_ context.Context, s []*hndigest.Summary) error {
				saved = s
				return nil
			},
		}

		err := (&main.BatchCmd{Limit: 500, Every: 10}).Run(deps)

		require.ErrorIs(t, err, context.Canceled)
		assert.Len(t, saved, 1)
		assert.Contains(t, stderr.String(), "rerun the same command to resume")
	})
}

func TestFavoritesCmd_Run(t *testing.T) {
	t.Parallel()

	newDeps := func(t *testing.T, kv hndigest.KeyValueStore) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
		t.Helper()
		deps, stdout, stderr := testDeps(nil)
		deps.Favorites = favorites.NewStore(kv)
		require.NoError(t, deps.Favorites.Reload(context.Background()))
		return deps, stdout, stderr
	}

	t.Run("lists favorites as json", func(t *testing.T) {
		t.Parallel()

		kv, _ := mock.MemoryStore()
		deps, stdout, _ := newDeps(t, kv)
		_, err := deps.Favorites.AddArticle(deps.Ctx, &hndigest.Article{ID: "7", Title: "Seven", URL: "https://example.com/7"})
		require.NoError(t, err)

		err = (&main.FavoritesListCmd{JSON: true}).Run(deps)
		require.NoError(t, err)

		var got struct {
			Articles []*hndigest.Article `json:"articles"`
			Papers   []*hndigest.Paper   `json:"papers"`
		}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
		require.Len(t, got.Articles, 1)
		assert.Equal(t, "Seven", got.Articles[0].Title)
		assert.Empty(t, got.Papers)
	})

	t.Run("shows a hint when empty", func(t *testing.T) {
		t.Parallel()

		kv, _ := mock.MemoryStore()
		deps, stdout, _ := newDeps(t, kv)

		err := (&main.FavoritesListCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No favorites yet")
	})

	t.Run("reports a change that could not be persisted", func(t *testing.T) {
		t.Parallel()

		kv := &mock.KeyValueStore{
			LoadFn: func(_ context.Context, key string) ([]byte, error) {
				return nil, hndigest.Errorf(hndigest.ENOTFOUND, "key %q not found", key)
			},
			SaveFn: func(context.Context, string, []byte) error {
				return hndigest.Errorf(hndigest.EINTERNAL, "disk full")
			},
		}
		deps, stdout, stderr := newDeps(t, kv)

		err := (&main.FavoritesAddPaperCmd{URL: "https://arxiv.org/abs/2401.00001", Title: "P"}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stdout.String(), "Added paper")
		assert.Contains(t, stderr.String(), "disk full")
		assert.True(t, deps.Favorites.IsPaperAdded("https://arxiv.org/abs/2401.00001"))
	})

	t.Run("removing an unknown paper is not an error", func(t *testing.T) {
		t.Parallel()

		kv, _ := mock.MemoryStore()
		deps, stdout, _ := newDeps(t, kv)

		err := (&main.FavoritesRemovePaperCmd{URL: "https://arxiv.org/abs/0000.00000"}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "is not a favorite")
	})
}
