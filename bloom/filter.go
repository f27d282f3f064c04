// Package bloom provides approximate URL deduplication using Bloom filters.
package bloom

import (
	"net/url"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter wraps a Bloom filter keyed by normalized URLs, so that
// "https://Example.com/a/" and "https://example.com/a#top" collide.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = 1
	}
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add adds a URL to the filter.
func (f *Filter) Add(rawURL string) {
	f.f.AddString(Key(rawURL))
}

// Seen adds the URL and reports whether it was (probably) present before.
// False positives are possible; false negatives are not.
func (f *Filter) Seen(rawURL string) bool {
	return f.f.TestAndAddString(Key(rawURL))
}

// Key normalizes a URL for deduplication: scheme and host are lowercased,
// the fragment is dropped and a trailing slash is trimmed from the path.
// Unparseable input is returned trimmed but otherwise unchanged.
func Key(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawPath = ""
	return u.String()
}
