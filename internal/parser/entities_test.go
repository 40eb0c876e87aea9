package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-extractor/internal/config"
	"invoice-extractor/internal/models"
)

func TestParseEntities(t *testing.T) {
	tests := []struct {
		name string
		text string
		opts ParseOptions
		want []models.EntityRow
	}{
		{
			name: "single pair",
			text: "Invoice Number : INV-001",
			want: []models.EntityRow{{"Invoice Number", "INV-001"}},
		},
		{
			name: "keeps line order and skips blank lines",
			text: "Invoice Number : INV-001\n\nDue Date : 2024-02-01\r\nTotal Due : 120.00\n",
			want: []models.EntityRow{
				{"Invoice Number", "INV-001"},
				{"Due Date", "2024-02-01"},
				{"Total Due", "120.00"},
			},
		},
		{
			name: "lenient splits on every delimiter",
			text: "Address : 1 Main St: Suite 2",
			opts: ParseOptions{Mode: config.ParseModeLenient},
			want: []models.EntityRow{{"Address", "1 Main St", "Suite 2"}},
		},
		{
			name: "lenient keeps lines without delimiter",
			text: "Here are the entities\nTax : 5.00",
			want: []models.EntityRow{{"Here are the entities"}, {"Tax", "5.00"}},
		},
		{
			name: "first splits once",
			text: "Address : 1 Main St: Suite 2\nno delimiter",
			opts: ParseOptions{Mode: config.ParseModeFirst},
			want: []models.EntityRow{{"Address", "1 Main St: Suite 2"}, {"no delimiter"}},
		},
		{
			name: "custom delimiter",
			text: "Qty = 3",
			opts: ParseOptions{Delimiter: "="},
			want: []models.EntityRow{{"Qty", "3"}},
		},
		{
			name: "empty text",
			text: "  \n ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ParseEntities(tt.text, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rows)
		})
	}
}

func TestParseEntitiesStrict(t *testing.T) {
	opts := ParseOptions{Mode: config.ParseModeStrict}

	rows, err := ParseEntities("Invoice Number : INV-001\nTax : 5.00", opts)
	require.NoError(t, err)
	assert.Equal(t, []models.EntityRow{{"Invoice Number", "INV-001"}, {"Tax", "5.00"}}, rows)

	tests := []struct {
		name string
		text string
		line int
	}{
		{name: "missing delimiter", text: "Invoice Number : INV-001\n\nHere you go", line: 3},
		{name: "too many delimiters", text: "Date : 10:30", line: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ParseEntities(tt.text, opts)
			assert.Nil(t, rows)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.line, parseErr.Line)
		})
	}
}

func TestEntityRowAccessors(t *testing.T) {
	assert.Equal(t, "", models.EntityRow{}.Label())
	assert.Equal(t, "", models.EntityRow{"Tax"}.Value())
	row := models.EntityRow{"Tax", "5.00", "extra"}
	assert.Equal(t, "Tax", row.Label())
	assert.Equal(t, "5.00", row.Value())
}
