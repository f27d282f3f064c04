// Package http provides net/http implementations of hndigest services:
// a Fetcher that relays requests through a CORS proxy, the HackerNews top
// stories source, and arXiv metadata lookup.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fwojciec/hndigest"
)

const (
	// DefaultFetchTimeout is the default timeout for a single request.
	DefaultFetchTimeout = 30 * time.Second

	// DefaultProxy is the CORS relay the target URL is appended to,
	// query-escaped.
	DefaultProxy = "https://api.codetabs.com/v1/proxy?quest="

	// DefaultUserAgent identifies as a desktop browser; several sites and
	// relays reject Go's default agent.
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/96.0.4664.93 Safari/537.36"

	// DefaultMaxBytes caps the size of a response body.
	DefaultMaxBytes = 32 << 20
)

// Ensure Fetcher implements hndigest.Fetcher at compile time.
var _ hndigest.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves raw response bodies, relaying each request through a
// CORS proxy unless the proxy is disabled. Requests are attempted exactly
// once.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	proxy     string
	userAgent string
	maxBytes  int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithProxy sets the proxy prefix. The query-escaped target URL is
// appended to it. An empty prefix fetches targets directly.
func WithProxy(prefix string) Option {
	return func(f *Fetcher) {
		f.proxy = prefix
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBytes caps the size of a response body. Larger responses fail
// with EFETCH. A value <= 0 disables the cap.
func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBytes = n
	}
}

// NewFetcher creates a new Fetcher using DefaultProxy.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		proxy:     DefaultProxy,
		userAgent: DefaultUserAgent,
		maxBytes:  DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// RequestURL returns the URL actually requested for target.
func (f *Fetcher) RequestURL(target string) string {
	if f.proxy == "" {
		return target
	}
	return f.proxy + url.QueryEscape(target)
}

// Fetch retrieves the body of target.
func (f *Fetcher) Fetch(ctx context.Context, target string) ([]byte, error) {
	if target == "" {
		return nil, hndigest.Errorf(hndigest.EINVALID, "url required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.RequestURL(target), nil)
	if err != nil {
		return nil, hndigest.Errorf(hndigest.EINVALID, "invalid url %q: %v", target, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, hndigest.Errorf(hndigest.ENETWORK, "fetch %s: %v", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, hndigest.StatusErrorf(hndigest.EFETCH, resp.StatusCode, "fetch %s: %s", target, statusText(resp))
	}

	var r io.Reader = resp.Body
	if f.maxBytes > 0 {
		r = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, hndigest.Errorf(hndigest.ENETWORK, "read %s: %v", target, err)
	}
	if f.maxBytes > 0 && int64(len(body)) > f.maxBytes {
		return nil, hndigest.Errorf(hndigest.EFETCH, "fetch %s: response exceeds %d bytes", target, f.maxBytes)
	}

	return body, nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// statusText returns "404 Not Found" style text for a response.
func statusText(resp *http.Response) string {
	if resp.Status != "" {
		return resp.Status
	}
	return fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}
