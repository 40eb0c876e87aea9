package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"invoice-extractor/internal/config"
	"invoice-extractor/internal/extractor"
	"invoice-extractor/internal/helper"
	"invoice-extractor/internal/llmservice"
	"invoice-extractor/internal/parser"
	"invoice-extractor/internal/pipeline"
	"invoice-extractor/internal/presenter"
	"invoice-extractor/internal/server"
)

const (
	configFilePath  = "./configs/config.yaml"
	shutdownTimeout = 10 * time.Second
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Caller().Logger()

	app := &cli.App{
		Name:  "invoice-extractor",
		Usage: "extract invoice fields from a PDF with a local language model",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: configFilePath, Usage: "path to the yaml config"},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start the upload form",
				Action: serve,
			},
			{
				Name:  "extract",
				Usage: "run one PDF through the pipeline and print the result",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "path to the PDF invoice"},
					&cli.StringFlag{Name: "format", Value: "text", Usage: "text, markdown, json or xlsx"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write to this file instead of stdout"},
				},
				Action: extract,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("Error running command")
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}
	zerolog.SetGlobalLevel(level)

	log.Debug().Interface("config", cfg).Msg("Loaded config")
	return cfg, nil
}

// newPipeline builds the model client once and shares it with every request.
func newPipeline(cfg *config.Config) (*pipeline.Pipeline, error) {
	model, err := llmservice.NewModel(&cfg.LLM)
	if err != nil {
		return nil, err
	}

	ext, err := extractor.New(model,
		extractor.WithMaxTokens(cfg.LLM.MaxTokens),
		extractor.WithTemperature(cfg.LLM.Temperature),
	)
	if err != nil {
		return nil, err
	}

	return pipeline.New(parser.PDFLoader{}, ext, pipeline.Options{
		TempDir: cfg.Upload.TempDir,
		Parse: parser.ParseOptions{
			Mode:      cfg.Extraction.ParseMode,
			Delimiter: cfg.Extraction.Delimiter,
		},
		Timeout: cfg.LLM.Timeout,
	}), nil
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}

	if zerolog.GlobalLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(&server.Handler{
		Runner:         p,
		MaxUploadBytes: cfg.Server.MaxUploadMB << 20,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("Serving upload form")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func extract(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}

	var up *pipeline.Upload
	if path := c.String("file"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		up = &pipeline.Upload{Filename: filepath.Base(path), Body: f}
	}

	report, err := p.Run(c.Context, up)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if out := c.String("out"); out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch c.String("format") {
	case "markdown", "md":
		_, err = io.WriteString(w, presenter.Markdown(report))
	case "json":
		err = helper.PrettyPrint(w, report)
	case "xlsx":
		if c.String("out") == "" {
			return errors.New("--out is required for xlsx")
		}
		err = presenter.XLSX(w, report)
	default:
		err = presenter.Text(w, report)
	}
	return err
}
