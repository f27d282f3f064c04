package hndigest

import "context"

// Fetcher retrieves the raw body of a URL.
type Fetcher interface {
	// Fetch returns the response body for url.
	// Returns ENETWORK on transport failure and EFETCH on a non-success
	// status, with the status recorded on the error.
	Fetch(ctx context.Context, url string) ([]byte, error)

	// Close releases resources held by the fetcher.
	Close() error
}
