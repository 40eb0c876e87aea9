// Package server exposes the extraction pipeline as a single page web form.
package server

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"invoice-extractor/internal/models"
	"invoice-extractor/internal/parser"
	"invoice-extractor/internal/pipeline"
	"invoice-extractor/internal/presenter"
)

const (
	formField = "file"
	xlsxMIME  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Runner is satisfied by *pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, up *pipeline.Upload) (*models.Report, error)
}

type Handler struct {
	Runner         Runner
	MaxUploadBytes int64
}

// NewRouter wires the handler into a gin engine.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.SetHTMLTemplate(indexTemplate)

	r.GET("/", h.HandleIndex)
	r.POST("/extract", h.HandleExtract)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func (h *Handler) HandleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, indexTemplateName, pageData{})
}

func (h *Handler) HandleExtract(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}

	up, closeUpload, status, err := readUpload(c)
	if err != nil {
		h.fail(c, status, "", err)
		return
	}
	defer closeUpload()

	report, err := h.Runner.Run(c.Request.Context(), up)
	if err != nil {
		filename := ""
		if up != nil {
			filename = up.Filename
		}
		h.fail(c, statusFor(err), filename, err)
		return
	}

	switch c.Query("format") {
	case "json":
		c.JSON(http.StatusOK, report)
	case "xlsx":
		var buf bytes.Buffer
		if err := presenter.XLSX(&buf, report); err != nil {
			h.fail(c, http.StatusInternalServerError, report.Filename, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+exportName(report.Filename)+`"`)
		c.Data(http.StatusOK, xlsxMIME, buf.Bytes())
	default:
		body, err := presenter.HTML(report)
		if err != nil {
			h.fail(c, http.StatusInternalServerError, report.Filename, err)
			return
		}
		c.HTML(http.StatusOK, indexTemplateName, pageData{
			Filename: report.Filename,
			Body:     template.HTML(body),
		})
	}
}

// readUpload returns a nil upload when the form carries no file.
func readUpload(c *gin.Context) (*pipeline.Upload, func(), int, error) {
	noop := func() {}

	fh, err := c.FormFile(formField)
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			return nil, noop, 0, nil
		case errors.As(err, &maxErr):
			return nil, noop, http.StatusRequestEntityTooLarge, err
		default:
			return nil, noop, http.StatusBadRequest, err
		}
	}

	if !looksLikePDF(fh) {
		return nil, noop, http.StatusUnsupportedMediaType, parser.ErrNotPDF
	}

	f, err := fh.Open()
	if err != nil {
		return nil, noop, http.StatusBadRequest, err
	}
	return &pipeline.Upload{Filename: fh.Filename, Body: f}, func() { _ = f.Close() }, 0, nil
}

func looksLikePDF(fh *multipart.FileHeader) bool {
	if strings.EqualFold(filepath.Ext(fh.Filename), ".pdf") {
		return true
	}
	return strings.HasPrefix(fh.Header.Get("Content-Type"), "application/pdf")
}

func statusFor(err error) int {
	var parseErr *parser.ParseError
	switch {
	case errors.Is(err, parser.ErrNotPDF):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &parseErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, status int, filename string, err error) {
	log.Error().Err(err).Int("status", status).Str("file", filename).Msg("Extraction failed")
	if c.Query("format") == "json" {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.HTML(status, indexTemplateName, pageData{Filename: filename, Error: err.Error()})
}

func exportName(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if base == "" || base == "." {
		base = "invoice"
	}
	return base + "-entities.xlsx"
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("Request")
	}
}
