// Package pipeline runs one upload through intake, loading, extraction and parsing.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"invoice-extractor/internal/intake"
	"invoice-extractor/internal/models"
	"invoice-extractor/internal/parser"
)

// Loader turns a file on disk into pages.
type Loader interface {
	Load(path string) ([]models.Page, error)
}

// Extractor turns one page of text into raw "entity : value" lines.
type Extractor interface {
	Extract(ctx context.Context, pageContent string) (string, error)
}

// Upload is what the user submitted. A nil *Upload means no file was chosen.
type Upload struct {
	Filename string
	Body     io.Reader
}

type Options struct {
	TempDir string
	Parse   parser.ParseOptions
	// zero means no deadline
	Timeout time.Duration
}

type Pipeline struct {
	loader    Loader
	extractor Extractor
	opts      Options
}

func New(loader Loader, extractor Extractor, opts Options) *Pipeline {
	return &Pipeline{loader: loader, extractor: extractor, opts: opts}
}

// Run processes one upload. Only the first page is sent to the extractor.
// The temporary copy of the upload is removed before Run returns.
func (p *Pipeline) Run(ctx context.Context, up *Upload) (*models.Report, error) {
	if up == nil || up.Body == nil {
		log.Debug().Msg("No file uploaded")
		return &models.Report{Status: models.StatusNoFile, Message: models.MsgNoFile}, nil
	}

	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}

	tmp, err := intake.Accept(up.Body, p.opts.TempDir)
	if err != nil {
		return nil, err
	}
	defer tmp.Release()

	pages, err := p.loader.Load(tmp.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", up.Filename, err)
	}

	report := &models.Report{Filename: up.Filename, Pages: pages}
	if len(pages) == 0 {
		report.Status = models.StatusNoPages
		report.Message = models.MsgNoPages
		return report, nil
	}

	log.Debug().Str("file", up.Filename).Int("pages", len(pages)).Msg("Extracting entities from first page")
	raw, err := p.extractor.Extract(ctx, pages[0].Content)
	if err != nil {
		return nil, fmt.Errorf("failed to extract entities: %w", err)
	}
	if strings.TrimSpace(raw) == "" {
		report.Status = models.StatusNoEntities
		report.Message = models.MsgNoEntities
		return report, nil
	}

	// ParseError line numbers count lines of raw as returned by the model
	rows, err := parser.ParseEntities(raw, p.opts.Parse)
	if err != nil {
		return nil, err
	}

	report.Status = models.StatusRendered
	report.Raw = raw
	report.Entities = rows
	log.Info().Str("file", up.Filename).Int("entities", len(rows)).Msg("Extraction finished")
	return report, nil
}
