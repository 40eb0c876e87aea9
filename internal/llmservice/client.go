package llmservice

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"invoice-extractor/internal/config"
)

// llama-2 chat format; ollama fills .System and .Prompt
const llamaTemplate = `[INST] {{ if .System }}<<SYS>>
{{ .System }}
<</SYS>>

{{ end }}{{ .Prompt }} [/INST]`

var chatTemplates = map[string]string{
	"llama": llamaTemplate,
}

// chatTemplate returns the prompt format for a model family, if one is known.
func chatTemplate(modelType string) (string, bool) {
	tmpl, ok := chatTemplates[strings.ToLower(strings.TrimSpace(modelType))]
	return tmpl, ok
}

// NewModel builds the model client once; callers share it across requests.
func NewModel(llmConfig *config.LLMConfig) (llms.Model, error) {
	if llmConfig == nil {
		return nil, fmt.Errorf("llm config is required")
	}

	log.Debug().Interface("llm", map[string]string{
		"provider":   llmConfig.Provider,
		"base_url":   llmConfig.BaseURL,
		"model":      llmConfig.Model,
		"model_type": llmConfig.ModelType,
	}).Msg("Initializing model client")

	switch llmConfig.Provider {
	case config.ProviderOllama, "":
		opts := []ollama.Option{ollama.WithModel(llmConfig.Model)}
		if llmConfig.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(llmConfig.BaseURL))
		}
		if tmpl, ok := chatTemplate(llmConfig.ModelType); ok {
			opts = append(opts, ollama.WithCustomTemplate(tmpl))
		} else if llmConfig.ModelType != "" {
			log.Warn().Str("model_type", llmConfig.ModelType).Msg("Unknown model type, using the server's template")
		}
		llm, err := ollama.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama client: %w", err)
		}
		return llm, nil
	case config.ProviderOpenAI:
		opts := []openai.Option{openai.WithModel(llmConfig.Model)}
		if llmConfig.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(llmConfig.BaseURL))
		}
		// local servers ignore the token but the client refuses to start without one
		token := strings.TrimPrefix(llmConfig.Key, "Bearer ")
		if token == "" {
			token = "local"
		}
		opts = append(opts, openai.WithToken(token))
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai client: %w", err)
		}
		return llm, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", llmConfig.Provider)
	}
}
