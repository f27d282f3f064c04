package mock

import "github.com/fwojciec/hndigest"

var _ hndigest.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of hndigest.Extractor.
type Extractor struct {
	ExtractFn func(html, sourceURL string) (*hndigest.ExtractionResult, error)
}

func (e *Extractor) Extract(html, sourceURL string) (*hndigest.ExtractionResult, error) {
	return e.ExtractFn(html, sourceURL)
}
