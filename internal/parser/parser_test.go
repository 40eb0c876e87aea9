package parser

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-extractor/internal/testutil"
)

func TestLoadPDFSinglePage(t *testing.T) {
	path := testutil.WritePDF(t, "ACME Corp\nInvoice No: INV-001\nTotal Due: 120.00")

	pages, err := LoadPDF(path)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 1, pages[0].Number)
	assert.Contains(t, pages[0].Content, "INV-001")
	assert.Contains(t, pages[0].Content, "ACME Corp")
}

func TestLoadPDFKeepsPageOrder(t *testing.T) {
	path := testutil.WritePDF(t, "first page", "second page", "third page")

	pages, err := LoadPDF(path)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	for i, want := range []string{"first", "second", "third"} {
		assert.Equal(t, i+1, pages[i].Number)
		assert.Contains(t, pages[i].Content, want)
	}
}

func TestLoadPDFZeroPages(t *testing.T) {
	path := testutil.WritePDF(t)

	pages, err := LoadPDF(path)
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestParsePDFNullPageKeepsPosition(t *testing.T) {
	data := testutil.BuildPDFWithNullPages(1, "Invoice No: INV-001")

	pages, err := ParsePDF(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Contains(t, pages[0].Content, "INV-001")
	assert.Equal(t, 2, pages[1].Number)
	assert.Empty(t, pages[1].Content)
}

func TestParsePDFFromMemory(t *testing.T) {
	data := testutil.BuildPDF("Order Number: 42")

	pages, err := ParsePDF(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Contains(t, pages[0].Content, "Order Number")
}

func TestLoadPDFErrors(t *testing.T) {
	dir := t.TempDir()

	notPDF := filepath.Join(dir, "notes.pdf")
	require.NoError(t, os.WriteFile(notPDF, []byte("just some text"), 0o600))

	truncated := filepath.Join(dir, "broken.pdf")
	require.NoError(t, os.WriteFile(truncated, []byte("%PDF-1.4\n1 0 obj\n<<"), 0o600))

	tests := []struct {
		name   string
		path   string
		target error
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.pdf"), target: os.ErrNotExist},
		{name: "no pdf header", path: notPDF, target: ErrNotPDF},
		{name: "truncated pdf", path: truncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages, err := LoadPDF(tt.path)
			require.Error(t, err)
			assert.Nil(t, pages)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestPDFLoaderImplementsLoad(t *testing.T) {
	path := testutil.WritePDF(t, "Tax: 5.00")

	pages, err := PDFLoader{}.Load(path)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Contains(t, pages[0].Content, "Tax")
}
