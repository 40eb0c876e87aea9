// Package extractor asks a language model to list invoice fields found in a page.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"

	"invoice-extractor/internal/models"
)

const (
	DefaultMaxTokens   = 128
	DefaultTemperature = 0.01
)

type Extractor struct {
	model       llms.Model
	template    prompts.PromptTemplate
	maxTokens   int
	temperature float64
}

type Option func(*Extractor)

func WithMaxTokens(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxTokens = n
		}
	}
}

func WithTemperature(t float64) Option {
	return func(e *Extractor) {
		if t >= 0 {
			e.temperature = t
		}
	}
}

// WithTemplate replaces the prompt; it must reference {{.page_content}}.
func WithTemplate(tmpl string) Option {
	return func(e *Extractor) {
		e.template = newTemplate(tmpl)
	}
}

func New(model llms.Model, opts ...Option) (*Extractor, error) {
	if model == nil {
		return nil, errors.New("model is required")
	}
	e := &Extractor{
		model:       model,
		template:    newTemplate(models.ExtractionPromptTemplate),
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func newTemplate(tmpl string) prompts.PromptTemplate {
	return prompts.PromptTemplate{
		Template:       tmpl,
		InputVariables: []string{models.PageContentVar},
		TemplateFormat: prompts.TemplateFormatGoTemplate,
	}
}

// Prompt fills the template with one page of text.
func (e *Extractor) Prompt(pageContent string) (string, error) {
	prompt, err := e.template.Format(map[string]any{models.PageContentVar: pageContent})
	if err != nil {
		return "", fmt.Errorf("failed to format prompt: %w", err)
	}
	return prompt, nil
}

// Extract returns the raw model answer for pageContent. An empty answer is not an error.
func (e *Extractor) Extract(ctx context.Context, pageContent string) (string, error) {
	prompt, err := e.Prompt(pageContent)
	if err != nil {
		return "", err
	}

	msgContent := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	start := time.Now()
	res, err := e.model.GenerateContent(ctx, msgContent,
		llms.WithMaxTokens(e.maxTokens),
		llms.WithTemperature(e.temperature),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if res == nil || len(res.Choices) == 0 {
		return "", nil
	}
	out := res.Choices[0].Content

	log.Debug().
		Dur("took", time.Since(start)).
		Int("prompt_chars", len(prompt)).
		Int("answer_chars", len(out)).
		Msg("Model answered")
	return out, nil
}
