package parser

import (
	"fmt"
	"strings"

	"invoice-extractor/internal/config"
	"invoice-extractor/internal/models"
)

const defaultDelimiter = ":"

// ParseOptions controls how model output lines become rows.
// Mode is one of config.ParseModeLenient, config.ParseModeFirst, config.ParseModeStrict.
type ParseOptions struct {
	Mode      string
	Delimiter string
}

// ParseError reports a line that does not have the label/value shape in strict mode.
type ParseError struct {
	Line int // 1-based, counting blank lines
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d is not a label/value pair: %q", e.Line, e.Text)
}

// ParseEntities splits model output into rows, one per non-blank line, in order.
func ParseEntities(text string, opts ParseOptions) ([]models.EntityRow, error) {
	delim := opts.Delimiter
	if delim == "" {
		delim = defaultDelimiter
	}

	var rows []models.EntityRow
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		var parts []string
		switch opts.Mode {
		case config.ParseModeFirst:
			parts = strings.SplitN(line, delim, 2)
		case config.ParseModeStrict:
			parts = strings.Split(line, delim)
			if len(parts) != 2 {
				return nil, &ParseError{Line: i + 1, Text: line}
			}
		default:
			parts = strings.Split(line, delim)
		}

		row := make(models.EntityRow, len(parts))
		for j, p := range parts {
			row[j] = strings.TrimSpace(p)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
