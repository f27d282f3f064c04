package hndigest

import "context"

// Summarizer produces an analysis of article text.
type Summarizer interface {
	// Summarize returns the model's analysis of text.
	// Returns ESUMMARY when the endpoint fails or replies with a malformed
	// payload.
	Summarize(ctx context.Context, text string) (string, error)
}
