package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/hndigest"
	"github.com/fwojciec/hndigest/digest"
	"github.com/fwojciec/hndigest/favorites"
	"github.com/fwojciec/hndigest/fs"
	"github.com/fwojciec/hndigest/gemini"
	"github.com/fwojciec/hndigest/gocache"
	"github.com/fwojciec/hndigest/gofeed"
	"github.com/fwojciec/hndigest/goquery"
	"github.com/fwojciec/hndigest/htmltomarkdown"
	hnhttp "github.com/fwojciec/hndigest/http"
	"github.com/fwojciec/hndigest/openai"
	"github.com/fwojciec/hndigest/pdf"
	"github.com/fwojciec/hndigest/readability"
	"github.com/fwojciec/hndigest/redis"
	"github.com/fwojciec/hndigest/rod"
	hnslog "github.com/fwojciec/hndigest/slog"
	"github.com/fwojciec/hndigest/sqlite"
	"github.com/fwojciec/hndigest/trafilatura"
	hnyaml "github.com/fwojciec/hndigest/yaml"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// DefaultConfigPath is the configuration file read when it exists.
const DefaultConfigPath = "~/.hndigest/config.yaml"

// Main represents the program.
type Main struct {
	// Configuration files consulted for flag values, in order.
	ConfigPaths []string

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPaths: []string{DefaultConfigPath},
	}
}

// Close releases every resource opened while wiring dependencies.
func (m *Main) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		errs = append(errs, m.closers[i].Close())
	}
	m.closers = nil
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("hndigest"),
		kong.Description("Fetch, extract and summarize HackerNews articles and arXiv papers"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Configuration(hnyaml.Loader, m.ConfigPaths...),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'hndigest --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	locale, err := hndigest.ParseLocale(cli.Locale)
	if err != nil {
		return err
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: newLogger(stderr, cli.Verbose),
	}
	defer m.Close()

	if err := m.wire(ctx, cli, commandName(kongCtx), locale, deps); err != nil {
		return err
	}

	return kongCtx.Run(deps)
}

// wire builds the services the selected command needs.
func (m *Main) wire(ctx context.Context, cli *CLI, cmd string, locale hndigest.Locale, deps *Dependencies) error {
	logger := deps.Logger

	// One fetcher per run, shared by the article, PDF and feed paths.
	var fetcher hndigest.Fetcher
	needFetcher := cmd == "read" || cmd == "paper" || cmd == "summarize" || cmd == "batch" ||
		(cmd == "top" && cli.Top.Feed != "")
	if needFetcher {
		f, err := m.fetcher(cli, logger)
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: the rod backend needs Chrome or Chromium installed")
			return fmt.Errorf("failed to create fetcher: %w", err)
		}
		fetcher = f
	}

	switch cmd {
	case "read", "paper", "summarize", "batch":

		deps.Articles = &digest.ArticleParser{
			Fetcher:   fetcher,
			Extractor: hnslog.NewLoggingExtractor(newExtractor(cli.Extractor, locale), logger),
			Locale:    locale,
		}
		deps.PDFs = &digest.PDFExtractor{
			Fetcher:  fetcher,
			Loader:   pdf.NewLoader(),
			Articles: deps.Articles,
			Locale:   locale,
			Timeout:  cli.Paper.Timeout,
			MaxPages: cli.Paper.MaxPages,
			Logger:   logger,
		}
	}

	switch cmd {
	case "summarize", "batch":
		summarizer, err := m.summarizer(ctx, cli, locale, logger)
		if err != nil {
			return err
		}
		deps.Digester = &digest.Digester{
			Articles:   deps.Articles,
			PDFs:       deps.PDFs,
			Summarizer: summarizer,
			Locale:     locale,
			MaxChars:   cli.LLM.MaxChars,
			Logger:     logger,
		}
	}

	switch cmd {
	case "top":
		deps.Source = m.source(fetcher, cli.Top.Feed, cli.Top.Limit, logger)

	case "batch":
		input := cli.Batch.Input
		switch {
		case input == "hackernews":
			input = ""
		case !isURL(input):
			deps.Source = hnslog.NewLoggingArticleSource(fs.NewArticleFile(input), "file", logger)
		}
		if deps.Source == nil {
			deps.Source = m.source(fetcher, input, cli.Batch.Limit, logger)
		}

		summaries, err := m.summaryStore(cli.Batch.Output)
		if err != nil {
			return err
		}
		deps.Summaries = summaries

	case "favorites":
		kv, err := m.keyValueStore(ctx, cli)
		if err != nil {
			return err
		}
		deps.Favorites = favorites.NewStore(
			hnslog.NewLoggingKeyValueStore(kv, logger),
			favorites.WithLogger(logger),
			favorites.WithPaperLookup(hnhttp.NewArxivService(nil, "")),
		)
		if err := deps.Favorites.Reload(ctx); err != nil {
			return fmt.Errorf("failed to load favorites: %w", err)
		}
	}

	return nil
}

func (m *Main) fetcher(cli *CLI, logger *slog.Logger) (hndigest.Fetcher, error) {
	var fetcher hndigest.Fetcher
	switch cli.Fetch.Backend {
	case "rod":
		f, err := rod.NewFetcher(
			rod.WithFetchTimeout(cli.Fetch.Timeout),
			rod.WithBrowser(rod.WithBin(cli.Fetch.Chrome), rod.WithLogger(logger)),
		)
		if err != nil {
			return nil, err
		}
		fetcher = f
	default:
		fetcher = hnhttp.NewFetcher(
			hnhttp.WithProxy(cli.Fetch.Proxy),
			hnhttp.WithTimeout(cli.Fetch.Timeout),
		)
	}
	m.closers = append(m.closers, fetcher)
	return hnslog.NewLoggingFetcher(fetcher, logger), nil
}

// newExtractor returns the named extractor. Every choice keeps the
// dedicated arXiv abstract extractor, which the PDF fallback relies on.
func newExtractor(name string, locale hndigest.Locale) hndigest.Extractor {
	var fallback hndigest.Extractor
	switch name {
	case "readability":
		fallback = readability.NewExtractor(locale)
	case "trafilatura":
		fallback = trafilatura.NewExtractor(locale)
	case "markdown":
		fallback = htmltomarkdown.NewExtractor(locale)
	default:
		return goquery.NewDefaultRegistry(goquery.WithLocale(locale))
	}
	registry := goquery.NewRegistry(fallback)
	registry.Register("arxiv.org", goquery.NewArxivExtractor(fallback))
	return registry
}

func (m *Main) summarizer(ctx context.Context, cli *CLI, locale hndigest.Locale, logger *slog.Logger) (hndigest.Summarizer, error) {
	var summarizer hndigest.Summarizer
	switch cli.LLM.Provider {
	case "gemini":
		if cli.LLM.GeminiAPIKey == "" {
			return nil, hndigest.Errorf(hndigest.EINVALID, "GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cli.LLM.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		summarizer = gemini.NewSummarizer(client, cli.LLM.Model, locale)
	default:
		if cli.LLM.APIKey == "" {
			return nil, hndigest.Errorf(hndigest.EINVALID, "DEEPSEEK_API_KEY not set. Pass --llm-api-key or set the environment variable")
		}
		opts := []openai.Option{openai.WithLocale(locale)}
		if cli.LLM.Model != "" {
			opts = append(opts, openai.WithModel(cli.LLM.Model))
		}
		summarizer = openai.NewSummarizer(openai.NewClient(cli.LLM.APIKey, cli.LLM.BaseURL, nil), opts...)
	}

	summarizer = hnslog.NewLoggingSummarizer(summarizer, logger)
	if cli.LLM.Cache {
		summarizer = gocache.NewSummarizer(summarizer, locale, cli.LLM.CacheTTL)
	}
	return summarizer, nil
}

// source lists articles from feedURL, or from the HackerNews API when
// feedURL is empty.
func (m *Main) source(fetcher hndigest.Fetcher, feedURL string, limit int, logger *slog.Logger) hndigest.ArticleSource {
	if feedURL == "" {
		return hnslog.NewLoggingArticleSource(hnhttp.NewHackerNewsSource(nil, hnhttp.WithLimit(limit)), "hackernews", logger)
	}
	return hnslog.NewLoggingArticleSource(gofeed.NewSource(fetcher, feedURL), "feed", logger)
}

func (m *Main) summaryStore(path string) (hndigest.SummaryStore, error) {
	if filepath.Ext(path) != ".db" {
		return fs.NewSummaryFile(path), nil
	}
	db, err := m.openDB(path)
	if err != nil {
		return nil, err
	}
	return sqlite.NewSummaryStore(db), nil
}

func (m *Main) keyValueStore(ctx context.Context, cli *CLI) (hndigest.KeyValueStore, error) {
	switch cli.Store.Backend {
	case "sqlite":
		if err := os.MkdirAll(cli.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		db, err := m.openDB(filepath.Join(cli.DataDir, "hndigest.db"))
		if err != nil {
			return nil, err
		}
		return sqlite.NewKeyValueStore(db), nil
	case "redis":
		client, err := redis.NewClient(ctx, cli.Store.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		m.closers = append(m.closers, client)
		return redis.NewKeyValueStore(client, redis.DefaultPrefix), nil
	default:
		return fs.NewKeyValueStore(cli.DataDir), nil
	}
}

func (m *Main) openDB(path string) (*sqlite.DB, error) {
	db := sqlite.NewDB(path)
	if err := db.Open(); err != nil {
		return nil, fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	m.closers = append(m.closers, db)
	return db, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// commandName returns the top-level command of a parsed command line,
// such as "favorites" for "favorites add-article <url>".
func commandName(kctx *kong.Context) string {
	fields := strings.Fields(kctx.Command())
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
