package hndigest

import (
	"context"
	"net/url"
	"strings"
)

// PageResult is the outcome of extracting one PDF page. PageIndex is
// 1-based. Failed pages carry a placeholder in Text.
type PageResult struct {
	PageIndex int
	Text      string
	Success   bool
}

// PDFDocument is a loaded PDF.
type PDFDocument interface {
	// NumPage returns the number of pages.
	NumPage() int

	// PageText returns the plain text of page i (1-based).
	PageText(ctx context.Context, i int) (string, error)
}

// PDFLoader parses raw PDF bytes.
type PDFLoader interface {
	Load(data []byte) (PDFDocument, error)
}

// IsPDFURL reports whether rawURL points at a PDF: its path ends in
// ".pdf" or contains a "/pdf/" segment.
func IsPDFURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	p := strings.ToLower(u.Path)
	return strings.HasSuffix(p, ".pdf") || strings.Contains(p, "/pdf/")
}

// AbstractURL rewrites the URL of a full document ("/pdf/") to the URL of
// its abstract landing page ("/abs/"), dropping a trailing ".pdf".
// The second return value is false when rawURL has no "/pdf/" segment.
func AbstractURL(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || !strings.Contains(u.Path, "/pdf/") {
		return "", false
	}
	u.Path = strings.Replace(u.Path, "/pdf/", "/abs/", 1)
	u.Path = strings.TrimSuffix(u.Path, ".pdf")
	u.RawPath = ""
	return u.String(), true
}
