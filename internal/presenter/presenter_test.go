package presenter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"invoice-extractor/internal/models"
)

func renderedReport() *models.Report {
	return &models.Report{
		Status:   models.StatusRendered,
		Filename: "acme.pdf",
		Pages: []models.Page{
			{Number: 1, Content: "ACME Corp\nInvoice No: INV-001"},
			{Number: 2, Content: "Terms and conditions"},
		},
		Raw: "Invoice Number : INV-001\nAddress : 1 Main St: Suite 2\nTotal Due : 120.00",
		Entities: []models.EntityRow{
			{"Invoice Number", "INV-001"},
			{"Address", "1 Main St", "Suite 2"},
			{"Total Due", "120.00"},
		},
	}
}

func TestMarkdownMessages(t *testing.T) {
	tests := []struct {
		name   string
		report *models.Report
		want   string
	}{
		{
			name:   "no file",
			report: &models.Report{Status: models.StatusNoFile, Message: models.MsgNoFile},
			want:   "No file uploaded.\n",
		},
		{
			name:   "no pages",
			report: &models.Report{Status: models.StatusNoPages, Message: models.MsgNoPages},
			want:   "No pages found in the uploaded file.\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Markdown(tt.report))
		})
	}
}

func TestMarkdownNoEntitiesStillShowsPages(t *testing.T) {
	report := &models.Report{
		Status:  models.StatusNoEntities,
		Message: models.MsgNoEntities,
		Pages:   []models.Page{{Number: 1, Content: "hello"}},
	}
	out := Markdown(report)
	assert.Contains(t, out, "Number of pages: 1")
	assert.Contains(t, out, "hello")
	assert.True(t, strings.HasSuffix(out, "No entities extracted.\n"))
}

func TestMarkdownTablePreservesOrder(t *testing.T) {
	out := Markdown(renderedReport())

	assert.Contains(t, out, "Number of pages: 2")
	assert.Contains(t, out, "Extracted entities:")
	assert.Contains(t, out, "| Entity | Value |  |")
	assert.Contains(t, out, "| Invoice Number | INV-001 |  |")
	assert.Contains(t, out, "| Address | 1 Main St | Suite 2 |")

	first := strings.Index(out, "Invoice Number")
	second := strings.Index(out, "| Address")
	third := strings.Index(out, "Total Due")
	assert.True(t, first < second && second < third)
	assert.True(t, strings.Index(out, "ACME Corp") < strings.Index(out, "Terms and conditions"))
}

func TestMarkdownEscapesPipes(t *testing.T) {
	report := &models.Report{
		Status:   models.StatusRendered,
		Pages:    []models.Page{{Number: 1}},
		Entities: []models.EntityRow{{"Service", "a|b"}},
	}
	assert.Contains(t, Markdown(report), `| Service | a\|b |`)
}

func TestCodeFence(t *testing.T) {
	assert.Equal(t, "```", codeFence("plain"))
	assert.Equal(t, "````", codeFence("has ``` inside"))
}

func TestHTML(t *testing.T) {
	out, err := HTML(renderedReport())
	require.NoError(t, err)

	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>INV-001</td>")
	assert.Contains(t, out, "Number of pages: 2")
	assert.Contains(t, out, "<pre><code")
}

func TestHTMLEscapesPageText(t *testing.T) {
	report := &models.Report{
		Status:  models.StatusNoEntities,
		Message: models.MsgNoEntities,
		Pages:   []models.Page{{Number: 1, Content: "<script>alert(1)</script>"}},
	}
	out, err := HTML(report)
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, renderedReport()))

	out := buf.String()
	assert.Contains(t, out, "Number of pages: 2")
	assert.Contains(t, out, "Extracted entities:")
	assert.Contains(t, out, "INV-001")
	assert.Contains(t, out, "Suite 2")
	assert.Less(t, strings.Index(out, "INV-001\n"), strings.Index(out, "120.00"))
}

func TestTextMessage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, &models.Report{Status: models.StatusNoFile, Message: models.MsgNoFile}))
	assert.Equal(t, "No file uploaded.\n", buf.String())
}

func TestNormalizeDoesNotModifyRows(t *testing.T) {
	entities := []models.EntityRow{{"only label"}, {"a", "b", "c"}}
	rows := Normalize(entities)

	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Len(t, row, 3)
	}
	assert.Equal(t, models.EntityRow{"only label"}, entities[0])
	assert.Equal(t, []string{"only label", "", ""}, rows[1])
}

func TestXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, XLSX(&buf, renderedReport()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(entitiesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Entity", "Value"}, rows[0][:2])
	assert.Equal(t, []string{"Invoice Number", "INV-001"}, rows[1])
	assert.Equal(t, []string{"Address", "1 Main St", "Suite 2"}, rows[2])

	pages, err := f.GetRows(pagesSheet)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, "Terms and conditions", pages[2][1])
}
