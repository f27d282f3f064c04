// Package pdf loads PDF documents with github.com/ledongthuc/pdf.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/fwojciec/hndigest"
	"github.com/ledongthuc/pdf"
)

// Ensure Loader implements hndigest.PDFLoader at compile time.
var _ hndigest.PDFLoader = (*Loader)(nil)

// Loader parses PDF bytes held in memory.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses data. The library panics on some malformed input; panics
// are returned as EPARSE errors.
func (l *Loader) Load(data []byte) (doc hndigest.PDFDocument, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, hndigest.Errorf(hndigest.EPARSE, "malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, hndigest.Errorf(hndigest.EPARSE, "load PDF: %v", err)
	}
	return &Document{reader: r}, nil
}

// Ensure Document implements hndigest.PDFDocument at compile time.
var _ hndigest.PDFDocument = (*Document)(nil)

// Document is a loaded PDF. It is safe for concurrent use; calls into the
// underlying reader are serialized.
type Document struct {
	mu     sync.Mutex
	reader *pdf.Reader
}

// NumPage returns the number of pages.
func (d *Document) NumPage() (n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	defer func() {
		if recover() != nil {
			n = 0
		}
	}()
	return d.reader.NumPage()
}

// PageText returns the plain text of page i (1-based).
func (d *Document) PageText(ctx context.Context, i int) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			text, err = "", hndigest.Errorf(hndigest.EPARSE, "page %d: %v", i, r)
		}
	}()

	if i < 1 || i > d.reader.NumPage() {
		return "", hndigest.Errorf(hndigest.ENOTFOUND, "page %d out of range", i)
	}
	page := d.reader.Page(i)
	if page.V.IsNull() {
		return "", hndigest.Errorf(hndigest.ENOTFOUND, "page %d not found", i)
	}

	text, err = page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("page %d: %w", i, err)
	}
	return text, nil
}
