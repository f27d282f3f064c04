// Package gocache provides an in-memory summary cache on top of
// patrickmn/go-cache.
package gocache

import (
	"context"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/hndigest"
	"github.com/patrickmn/go-cache"
)

// DefaultTTL is how long a summary stays cached.
const DefaultTTL = 24 * time.Hour

// Ensure Summarizer implements hndigest.Summarizer at compile time.
var _ hndigest.Summarizer = (*Summarizer)(nil)

// Summarizer caches the summaries of an inner Summarizer, keyed by the
// locale and the hash of the text. Errors are not cached.
type Summarizer struct {
	inner  hndigest.Summarizer
	locale hndigest.Locale
	cache  *cache.Cache
	ttl    time.Duration
}

// NewSummarizer wraps inner. A non-positive ttl selects DefaultTTL.
// The locale is part of the key because the prompt depends on it.
func NewSummarizer(inner hndigest.Summarizer, locale hndigest.Locale, ttl time.Duration) *Summarizer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Summarizer{
		inner:  inner,
		locale: locale,
		cache:  cache.New(ttl, 2*ttl),
		ttl:    ttl,
	}
}

// Summarize returns the cached summary of text or asks the inner
// summarizer and caches its answer.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	key := s.key(text)
	if v, ok := s.cache.Get(key); ok {
		return v.(string), nil
	}

	summary, err := s.inner.Summarize(ctx, text)
	if err != nil {
		return "", err
	}
	s.cache.Set(key, summary, s.ttl)
	return summary, nil
}

// Len returns the number of cached summaries, including expired ones not
// yet cleaned up.
func (s *Summarizer) Len() int {
	return s.cache.ItemCount()
}

func (s *Summarizer) key(text string) string {
	d := xxhash.New()
	_, _ = d.WriteString(string(s.locale))
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(text)
	return strconv.FormatUint(d.Sum64(), 16)
}
