// Package presenter renders a models.Report as markdown, html, plain text or xlsx.
package presenter

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"invoice-extractor/internal/models"
)

// Header is used for the entity table. Rows wider than two cells get blank headers.
var Header = []string{"Entity", "Value"}

// Markdown renders the page count, every page and the entity table.
func Markdown(report *models.Report) string {
	var b strings.Builder
	switch report.Status {
	case models.StatusNoFile, models.StatusNoPages:
		b.WriteString(report.Message)
		b.WriteString("\n")
		return b.String()
	}

	fmt.Fprintf(&b, models.PageCountFormat+"\n\n", report.PageCount())
	for _, page := range report.Pages {
		fence := codeFence(page.Content)
		fmt.Fprintf(&b, "%stext\n%s\n%s\n\n", fence, page.Content, fence)
	}

	if report.Status != models.StatusRendered {
		b.WriteString(report.Message)
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(models.EntitiesHeading)
	b.WriteString("\n\n")
	rows := Normalize(report.Entities)
	width := len(rows[0])
	b.WriteString(markdownRow(rows[0]))
	b.WriteString("|" + strings.Repeat(" --- |", width) + "\n")
	for _, row := range rows[1:] {
		b.WriteString(markdownRow(row))
	}
	return b.String()
}

// HTML converts Markdown(report) with goldmark.
func HTML(report *models.Report) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(report)), &buf); err != nil {
		return "", fmt.Errorf("failed to render html: %w", err)
	}
	return buf.String(), nil
}

// Text writes a plain text rendering for terminals.
func Text(w io.Writer, report *models.Report) error {
	switch report.Status {
	case models.StatusNoFile, models.StatusNoPages:
		_, err := fmt.Fprintln(w, report.Message)
		return err
	}

	if _, err := fmt.Fprintf(w, models.PageCountFormat+"\n", report.PageCount()); err != nil {
		return err
	}
	for _, page := range report.Pages {
		if _, err := fmt.Fprintf(w, "\n%s\n", page.Content); err != nil {
			return err
		}
	}

	if report.Status != models.StatusRendered {
		_, err := fmt.Fprintf(w, "\n%s\n", report.Message)
		return err
	}

	if _, err := fmt.Fprintf(w, "\n%s\n", models.EntitiesHeading); err != nil {
		return err
	}
	rows := Normalize(report.Entities)
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeader(rows[0])
	table.AppendBulk(rows[1:])
	table.Render()
	return nil
}

// Normalize returns a header row followed by the entity rows, all padded to the
// widest row. The entity rows are not modified.
func Normalize(entities []models.EntityRow) [][]string {
	width := len(Header)
	for _, row := range entities {
		if len(row) > width {
			width = len(row)
		}
	}

	out := make([][]string, 0, len(entities)+1)
	out = append(out, pad(Header, width))
	for _, row := range entities {
		out = append(out, pad(row, width))
	}
	return out
}

func pad(row []string, width int) []string {
	cells := make([]string, width)
	copy(cells, row)
	return cells
}

func markdownRow(cells []string) string {
	var b strings.Builder
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(escapeCell(c))
		b.WriteString(" |")
	}
	b.WriteString("\n")
	return b.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// codeFence returns a backtick fence longer than any run inside content.
func codeFence(content string) string {
	longest, run := 0, 0
	for _, r := range content {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	if longest < 3 {
		return "```"
	}
	return strings.Repeat("`", longest+1)
}
