// Package favorites keeps the bookmarked articles and papers in memory and
// mirrors them to a key-value store after every change.
package favorites

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/fwojciec/hndigest"
	"github.com/google/uuid"
)

// Store holds the favorite articles, keyed by ID, and the favorite papers,
// keyed by arXiv URL. A key is never present twice.
//
// Add and remove methods report whether the list changed. Every change is
// followed by a Persist of both lists; when that fails the in-memory change
// is kept and the error is returned alongside true.
type Store struct {
	kv     hndigest.KeyValueStore
	lookup hndigest.PaperLookup
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	articles []*hndigest.Article
	papers   []*hndigest.Paper
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for swallowed errors.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithPaperLookup enables filling in paper metadata when a paper is added
// with its URL only.
func WithPaperLookup(l hndigest.PaperLookup) Option {
	return func(s *Store) {
		s.lookup = l
	}
}

// WithClock sets the function used to stamp AddTime.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an empty Store backed by kv. Call Reload to populate it.
func NewStore(kv hndigest.KeyValueStore, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddArticle adds a copy of a. Articles without an ID get a random one and
// a zero AddTime is set to the current time.
func (s *Store) AddArticle(ctx context.Context, a *hndigest.Article) (bool, error) {
	article := *a
	if article.ID == "" {
		article.ID = hndigest.ItemID(uuid.NewString())
	}
	if article.AddTime.IsZero() {
		article.AddTime = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.articleIndex(article.ID) >= 0 {
		return false, nil
	}
	s.articles = append(s.articles, &article)
	return true, s.persist(ctx)
}

// RemoveArticle removes the article with the given ID.
func (s *Store) RemoveArticle(ctx context.Context, id hndigest.ItemID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.articleIndex(id)
	if i < 0 {
		return false, nil
	}
	s.articles = slices.Delete(s.articles, i, i+1)
	return true, s.persist(ctx)
}

// IsArticleAdded reports whether an article with the given ID is stored.
func (s *Store) IsArticleAdded(id hndigest.ItemID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.articleIndex(id) >= 0
}

// Articles returns a copy of the favorite articles in insertion order.
func (s *Store) Articles() []*hndigest.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.articles)
}

// AddPaper adds a copy of p. When p has no title and a lookup is
// configured, the metadata is fetched first; a failed lookup is logged
// and the paper is added as given.
func (s *Store) AddPaper(ctx context.Context, p *hndigest.Paper) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, err
	}
	if s.IsPaperAdded(p.ArxivURL) {
		return false, nil
	}

	paper := *p
	if paper.Title == "" && s.lookup != nil {
		found, err := s.lookup.LookupPaper(ctx, paper.ArxivURL)
		if err != nil {
			s.logger.Warn("paper lookup failed", "url", paper.ArxivURL, "error", err)
		} else {
			found.ArxivURL = paper.ArxivURL
			found.AddTime = paper.AddTime
			paper = *found
		}
	}
	if paper.AddTime.IsZero() {
		paper.AddTime = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paperIndex(paper.ArxivURL) >= 0 {
		return false, nil
	}
	s.papers = append(s.papers, &paper)
	return true, s.persist(ctx)
}

// RemovePaper removes the paper with the given arXiv URL.
func (s *Store) RemovePaper(ctx context.Context, arxivURL string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.paperIndex(arxivURL)
	if i < 0 {
		return false, nil
	}
	s.papers = slices.Delete(s.papers, i, i+1)
	return true, s.persist(ctx)
}

// IsPaperAdded reports whether a paper with the given arXiv URL is stored.
func (s *Store) IsPaperAdded(arxivURL string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paperIndex(arxivURL) >= 0
}

// Papers returns a copy of the favorite papers in insertion order.
func (s *Store) Papers() []*hndigest.Paper {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.papers)
}

// Persist writes both lists to the key-value store.
func (s *Store) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(ctx)
}

func (s *Store) persist(ctx context.Context) error {
	if err := save(ctx, s.kv, hndigest.ArticlesKey, s.articles); err != nil {
		return err
	}
	return save(ctx, s.kv, hndigest.PapersKey, s.papers)
}

// Reload replaces the in-memory lists with the stored ones. A missing key
// yields an empty list; so does malformed JSON, which is logged.
func (s *Store) Reload(ctx context.Context) error {
	articles, err := load[hndigest.Article](ctx, s.kv, hndigest.ArticlesKey, s.logger)
	if err != nil {
		return err
	}
	papers, err := load[hndigest.Paper](ctx, s.kv, hndigest.PapersKey, s.logger)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles = dedupe(articles, func(a *hndigest.Article) hndigest.ItemID { return a.ID })
	s.papers = dedupe(papers, func(p *hndigest.Paper) string { return p.ArxivURL })
	return nil
}

func (s *Store) articleIndex(id hndigest.ItemID) int {
	return slices.IndexFunc(s.articles, func(a *hndigest.Article) bool { return a.ID == id })
}

func (s *Store) paperIndex(arxivURL string) int {
	return slices.IndexFunc(s.papers, func(p *hndigest.Paper) bool { return p.ArxivURL == arxivURL })
}

func save[T any](ctx context.Context, kv hndigest.KeyValueStore, key string, items []*T) error {
	if items == nil {
		items = []*T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return hndigest.Errorf(hndigest.EINTERNAL, "encode %s: %v", key, err)
	}
	return kv.Save(ctx, key, data)
}

func load[T any](ctx context.Context, kv hndigest.KeyValueStore, key string, logger *slog.Logger) ([]*T, error) {
	data, err := kv.Load(ctx, key)
	if hndigest.ErrorCode(err) == hndigest.ENOTFOUND {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var items []*T
	if err := json.Unmarshal(data, &items); err != nil {
		logger.Warn("ignoring malformed favorites", "key", key, "error", err)
		return nil, nil
	}
	return slices.DeleteFunc(items, func(v *T) bool { return v == nil }), nil
}

// dedupe keeps the first item of each key.
func dedupe[T any, K comparable](items []*T, key func(*T) K) []*T {
	seen := make(map[K]bool, len(items))
	return slices.DeleteFunc(items, func(v *T) bool {
		k := key(v)
		if seen[k] {
			return true
		}
		seen[k] = true
		return false
	})
}

func cloneAll[T any](items []*T) []*T {
	out := make([]*T, len(items))
	for i, v := range items {
		c := *v
		out[i] = &c
	}
	return out
}
