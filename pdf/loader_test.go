package pdf_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/fwojciec/hndigest"
	"github.com/fwojciec/hndigest/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPDF writes a minimal PDF with one line of Helvetica text per page,
// computing the cross-reference offsets as it goes.
func buildPDF(t *testing.T, pages ...string) []byte {
	t.Helper()

	n := len(pages)
	// Object numbers: 1 catalog, 2 page tree, 3 font, then a page and a
	// content stream per page.
	var objects []string
	objects = append(objects, "<< /Type /Catalog /Pages 2 0 R >>")

	kids := ""
	for i := range pages {
		kids += fmt.Sprintf("%d 0 R ", 4+2*i)
	}
	objects = append(objects, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, n))
	objects = append(objects, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	for i, text := range pages {
		content := fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	t.Run("reads page count and page text", func(t *testing.T) {
		t.Parallel()

		data := buildPDF(t, "Hello page one", "Hello page two", "Hello page three")

		doc, err := pdf.NewLoader().Load(data)
		require.NoError(t, err)

		assert.Equal(t, 3, doc.NumPage())
		text, err := doc.PageText(context.Background(), 2)
		require.NoError(t, err)
		assert.Contains(t, text, "Hello page two")
	})

	t.Run("returns error for out of range pages", func(t *testing.T) {
		t.Parallel()

		doc, err := pdf.NewLoader().Load(buildPDF(t, "only page"))
		require.NoError(t, err)

		_, err = doc.PageText(context.Background(), 2)
		assert.Equal(t, hndigest.ENOTFOUND, hndigest.ErrorCode(err))
	})

	t.Run("honors a canceled context", func(t *testing.T) {
		t.Parallel()

		doc, err := pdf.NewLoader().Load(buildPDF(t, "only page"))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = doc.PageText(ctx, 1)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("rejects data that is not a PDF", func(t *testing.T) {
		t.Parallel()

		_, err := pdf.NewLoader().Load([]byte("<html>not a pdf</html>"))

		require.Error(t, err)
		assert.Equal(t, hndigest.EPARSE, hndigest.ErrorCode(err))
	})
}
