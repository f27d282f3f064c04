package goquery

import (
	"net/url"
	"strings"

	"github.com/fwojciec/hndigest"
)

var _ hndigest.Extractor = (*Registry)(nil)

// Registry dispatches extraction to site-specific extractors keyed by
// host, falling back to a generic extractor for every other site. A host
// also matches its subdomains.
type Registry struct {
	fallback   hndigest.Extractor
	extractors map[string]hndigest.Extractor
}

// NewRegistry creates a new Registry with the given fallback extractor.
func NewRegistry(fallback hndigest.Extractor) *Registry {
	return &Registry{
		fallback:   fallback,
		extractors: make(map[string]hndigest.Extractor),
	}
}

// NewDefaultRegistry returns a Registry with the heuristic Extractor as
// fallback and the arXiv extractor registered for arxiv.org.
func NewDefaultRegistry(opts ...Option) *Registry {
	fallback := NewExtractor(opts...)
	r := NewRegistry(fallback)
	r.Register("arxiv.org", NewArxivExtractor(fallback))
	return r
}

// Register adds an extractor for host.
// If an extractor is already registered for host, it is replaced.
func (r *Registry) Register(host string, e hndigest.Extractor) {
	r.extractors[strings.ToLower(host)] = e
}

// forURL returns the extractor for rawURL's host or one of its parent
// domains, or the fallback.
func (r *Registry) forURL(rawURL string) hndigest.Extractor {
	u, err := url.Parse(rawURL)
	if err != nil {
		return r.fallback
	}
	host := strings.ToLower(u.Hostname())
	for host != "" {
		if e, ok := r.extractors[host]; ok {
			return e
		}
		i := strings.IndexByte(host, '.')
		if i < 0 {
			break
		}
		host = host[i+1:]
	}
	return r.fallback
}

// Extract delegates to the extractor for sourceURL.
func (r *Registry) Extract(rawHTML, sourceURL string) (*hndigest.ExtractionResult, error) {
	return r.forURL(sourceURL).Extract(rawHTML, sourceURL)
}

