// Package testutil builds small fixtures for tests.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// BuildPDF returns a minimal uncompressed PDF with one page per entry.
// Each page string is drawn line by line in Helvetica.
func BuildPDF(pages ...string) []byte {
	return buildPDF(pages, 0)
}

// BuildPDFWithNullPages is BuildPDF plus nulls trailing entries in the page
// tree. Count includes them, so readers see pages without an object.
func BuildPDFWithNullPages(nulls int, pages ...string) []byte {
	return buildPDF(pages, nulls)
}

func buildPDF(pages []string, nulls int) []byte {
	var objects []string

	// 1 catalog, 2 pages, 3 font, then page/content pairs
	kids := make([]string, 0, len(pages)+nulls)
	for i := range pages {
		kids = append(kids, fmt.Sprintf("%d 0 R", 4+2*i))
	}
	for i := 0; i < nulls; i++ {
		kids = append(kids, "null")
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(kids)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
	for i, text := range pages {
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			contentStream(text),
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

func contentStream(text string) string {
	var s strings.Builder
	s.WriteString("BT /F1 12 Tf 72 720 Td 14 TL\n")
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(&s, "(%s) Tj T*\n", escape(line))
	}
	s.WriteString("ET")
	body := s.String()
	return fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(body), body)
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`)
	return r.Replace(s)
}

// WritePDF writes BuildPDF(pages...) to a file in t.TempDir and returns its path.
func WritePDF(t *testing.T, pages ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "invoice.pdf")
	if err := os.WriteFile(path, BuildPDF(pages...), 0o600); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	return path
}
