package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/hndigest"
	"github.com/fwojciec/hndigest/digest"
	"github.com/fwojciec/hndigest/favorites"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Articles  *digest.ArticleParser
	PDFs      *digest.PDFExtractor
	Digester  *digest.Digester
	Source    hndigest.ArticleSource
	Summaries hndigest.SummaryStore
	Favorites *favorites.Store
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  kong.ConfigFlag `help:"Path to a YAML configuration file"`
	Verbose bool            `short:"v" help:"Log debug output to stderr"`
	Locale  string          `default:"zh" env:"HNDIGEST_LOCALE" help:"Language of labels, placeholders and summaries (zh, en)"`
	DataDir string          `type:"path" default:"~/.hndigest" env:"HNDIGEST_DATA_DIR" help:"Directory for favorites and the SQLite database"`

	Fetch     FetchFlags `embed:"" prefix:"fetch-"`
	Extractor string     `enum:"goquery,readability,trafilatura,markdown" default:"goquery" help:"HTML extractor (goquery, readability, trafilatura, markdown)"`
	LLM       LLMFlags   `embed:"" prefix:"llm-"`
	Store     StoreFlags `embed:"" prefix:"store-"`

	Read      ReadCmd      `cmd:"" help:"Print the readable text of an HTML article"`
	Paper     PaperCmd     `cmd:"" help:"Print the text of the first pages of a PDF"`
	Summarize SummarizeCmd `cmd:"" help:"Print the content and AI summary of a URL"`
	Top       TopCmd       `cmd:"" help:"List HackerNews top stories"`
	Batch     BatchCmd     `cmd:"" help:"Summarize a list of articles, resuming earlier runs"`
	Favorites FavoritesCmd `cmd:"" help:"Manage favorite articles and papers"`
}

// FetchFlags configures how pages are retrieved.
type FetchFlags struct {
	Backend string        `name:"backend" enum:"http,rod" default:"http" help:"Fetch through the CORS proxy (http) or a headless browser (rod)"`
	Proxy   string        `name:"proxy" default:"https://api.codetabs.com/v1/proxy?quest=" env:"HNDIGEST_PROXY" help:"CORS proxy prefix; empty fetches directly"`
	Timeout time.Duration `name:"timeout" default:"30s" help:"Timeout for a single fetch"`
	Chrome  string        `name:"chrome" type:"path" env:"HNDIGEST_CHROME" help:"Chrome or Chromium executable for the rod backend"`
}

// LLMFlags configures the summarizer.
type LLMFlags struct {
	Provider     string        `name:"provider" enum:"openai,gemini" default:"openai" help:"Summary backend (openai, gemini)"`
	APIKey       string        `name:"api-key" env:"DEEPSEEK_API_KEY" help:"API key for the OpenAI-compatible endpoint"`
	BaseURL      string        `name:"base-url" default:"https://api.deepseek.com/v1" help:"OpenAI-compatible API base URL"`
	Model        string        `name:"model" help:"Model name; defaults depend on the provider"`
	GeminiAPIKey string        `name:"gemini-api-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
	Cache        bool          `name:"cache" negatable:"" default:"true" help:"Cache summaries of identical texts in memory"`
	CacheTTL     time.Duration `name:"cache-ttl" default:"24h" help:"Lifetime of cached summaries"`
	MaxChars     int           `name:"max-chars" default:"10000" help:"Maximum characters sent to the summarizer"`
}

// StoreFlags configures persistent storage for favorites.
type StoreFlags struct {
	Backend  string `name:"backend" enum:"fs,sqlite,redis" default:"fs" env:"HNDIGEST_STORE" help:"Favorites storage (fs, sqlite, redis)"`
	RedisURL string `name:"redis-url" default:"redis://localhost:6379/0" env:"REDIS_URL" help:"Redis connection URL"`
}

// ReadCmd is the "read" subcommand.
type ReadCmd struct {
	URL string `arg:"" help:"Article URL"`
}

// PaperCmd is the "paper" subcommand.
type PaperCmd struct {
	URL      string        `arg:"" help:"PDF URL"`
	MaxPages int           `default:"5" help:"Number of leading pages to extract"`
	Timeout  time.Duration `default:"30s" help:"Overall extraction timeout"`
}

// SummarizeCmd is the "summarize" subcommand.
type SummarizeCmd struct {
	URL string `arg:"" help:"Article or PDF URL"`
}

// TopCmd is the "top" subcommand.
type TopCmd struct {
	Limit  int    `short:"n" default:"30" help:"Number of stories"`
	Feed   string `help:"List an RSS or Atom feed instead of the HackerNews API"`
	Output string `short:"o" type:"path" help:"Write the stories as JSON to this file instead of printing them"`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	Input  string        `short:"i" required:"" help:"Articles JSON file, feed URL, or 'hackernews'"`
	Output string        `short:"o" default:"summaries.json" help:"Output file; a .db extension stores summaries in SQLite"`
	Limit  int           `default:"500" help:"Maximum number of input articles"`
	Every  int           `default:"10" help:"Save after this many processed articles"`
	Delay  time.Duration `default:"2s" help:"Pause between articles"`
}

// FavoritesCmd groups the favorites subcommands.
type FavoritesCmd struct {
	List          FavoritesListCmd          `cmd:"" default:"1" help:"List favorite articles and papers"`
	AddArticle    FavoritesAddArticleCmd    `cmd:"" help:"Add an article to favorites"`
	RemoveArticle FavoritesRemoveArticleCmd `cmd:"" help:"Remove an article from favorites"`
	AddPaper      FavoritesAddPaperCmd      `cmd:"" help:"Add an arXiv paper to favorites"`
	RemovePaper   FavoritesRemovePaperCmd   `cmd:"" help:"Remove an arXiv paper from favorites"`
}

// FavoritesListCmd is the "favorites list" subcommand.
type FavoritesListCmd struct {
	JSON bool `help:"Print as JSON"`
}

// FavoritesAddArticleCmd is the "favorites add-article" subcommand.
type FavoritesAddArticleCmd struct {
	URL   string `arg:"" help:"Article URL"`
	Title string `short:"t" help:"Article title"`
	ID    string `help:"Article ID; a random ID is assigned when empty"`
}

// FavoritesRemoveArticleCmd is the "favorites remove-article" subcommand.
type FavoritesRemoveArticleCmd struct {
	ID string `arg:"" help:"Article ID"`
}

// FavoritesAddPaperCmd is the "favorites add-paper" subcommand.
type FavoritesAddPaperCmd struct {
	URL   string `arg:"" help:"arXiv abstract or PDF URL"`
	Title string `short:"t" help:"Paper title; looked up on arXiv when empty"`
}

// FavoritesRemovePaperCmd is the "favorites remove-paper" subcommand.
type FavoritesRemovePaperCmd struct {
	URL string `arg:"" help:"arXiv URL the paper was added with"`
}
