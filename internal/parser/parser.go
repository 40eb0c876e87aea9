package parser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"

	"invoice-extractor/internal/models"
)

// ErrNotPDF is returned for files that do not carry the PDF header.
var ErrNotPDF = errors.New("not a pdf document")

var pdfMagic = []byte("%PDF-")

// PDFLoader loads pages from a file on disk.
type PDFLoader struct{}

func (PDFLoader) Load(path string) ([]models.Page, error) {
	return LoadPDF(path)
}

// LoadPDF returns the text of every page of the PDF at filePath, in document order.
func LoadPDF(filePath string) ([]models.Page, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filepath.Base(filePath), err)
	}
	defer f.Close()

	// Get file size for reader initialization
	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	return ParsePDF(f, stat.Size())
}

// ParsePDF reads pages from an in-memory or on-disk PDF.
func ParsePDF(r io.ReaderAt, size int64) (pages []models.Page, err error) {
	if !IsPDF(r) {
		return nil, ErrNotPDF
	}

	// the pdf package panics on some malformed xref tables
	defer func() {
		if rec := recover(); rec != nil {
			pages = nil
			err = fmt.Errorf("failed to parse pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pdf: %w", err)
	}

	numPages := reader.NumPage()
	pages = make([]models.Page, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, models.Page{Number: i})
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read text of page %d: %w", i, err)
		}
		pages = append(pages, models.Page{
			Number:  i,
			Content: strings.TrimSpace(pageText),
		})
	}

	log.Debug().Int("pages", len(pages)).Msg("Parsed pdf")
	return pages, nil
}

// IsPDF reports whether r starts with the PDF header.
func IsPDF(r io.ReaderAt) bool {
	head := make([]byte, len(pdfMagic))
	n, _ := r.ReadAt(head, 0)
	return n == len(pdfMagic) && string(head) == string(pdfMagic)
}
