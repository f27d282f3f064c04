package mock

import (
	"context"

	"github.com/fwojciec/hndigest"
)

var (
	_ hndigest.PDFLoader   = (*PDFLoader)(nil)
	_ hndigest.PDFDocument = (*PDFDocument)(nil)
)

// PDFLoader is a mock implementation of hndigest.PDFLoader.
type PDFLoader struct {
	LoadFn func(data []byte) (hndigest.PDFDocument, error)
}

func (l *PDFLoader) Load(data []byte) (hndigest.PDFDocument, error) {
	return l.LoadFn(data)
}

// PDFDocument is a mock implementation of hndigest.PDFDocument.
type PDFDocument struct {
	NumPageFn  func() int
	PageTextFn func(ctx context.Context, i int) (string, error)
}

func (d *PDFDocument) NumPage() int {
	return d.NumPageFn()
}

func (d *PDFDocument) PageText(ctx context.Context, i int) (string, error) {
	return d.PageTextFn(ctx, i)
}
