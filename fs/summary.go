package fs

import (
	"context"
	"encoding/json"

	"github.com/fwojciec/hndigest"
)

// Ensure SummaryFile implements hndigest.SummaryStore at compile time.
var _ hndigest.SummaryStore = (*SummaryFile)(nil)

// SummaryFile stores batch summaries as an indented JSON array.
type SummaryFile struct {
	path string
}

// NewSummaryFile creates a SummaryFile at path.
func NewSummaryFile(path string) *SummaryFile {
	return &SummaryFile{path: path}
}

// LoadSummaries reads the file. Returns ENOTFOUND if it does not exist and
// EINVALID if it is not a JSON array of summaries.
func (f *SummaryFile) LoadSummaries(_ context.Context) ([]*hndigest.Summary, error) {
	data, err := readFile(f.path)
	if err != nil {
		return nil, err
	}
	var summaries []*hndigest.Summary
	if err := json.Unmarshal(data, &summaries); err != nil {
		return nil, hndigest.Errorf(hndigest.EINVALID, "malformed summaries in %s: %v", f.path, err)
	}
	return summaries, nil
}

// SaveSummaries atomically replaces the file contents.
func (f *SummaryFile) SaveSummaries(_ context.Context, summaries []*hndigest.Summary) error {
	if summaries == nil {
		summaries = []*hndigest.Summary{}
	}
	data, err := marshalIndent(summaries)
	if err != nil {
		return err
	}
	return writeFileAtomic(f.path, data)
}
