package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/llms"
)

// StubModel is a deterministic llms.Model. It answers Answer (or Err) and
// records every prompt and call options it receives.
type StubModel struct {
	Answer    string
	NoChoices bool
	Err       error

	mu      sync.Mutex
	Prompts []string
	Options []llms.CallOptions
}

var _ llms.Model = (*StubModel)(nil)

func (m *StubModel) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	var opts llms.CallOptions
	for _, o := range options {
		o(&opts)
	}

	var prompt strings.Builder
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				prompt.WriteString(text.Text)
			}
		}
	}

	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt.String())
	m.Options = append(m.Options, opts)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if m.NoChoices {
		return &llms.ContentResponse{}, nil
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.Answer}},
	}, nil
}

func (m *StubModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

// Calls returns how many times the model was invoked.
func (m *StubModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}
