// Package llm talks to the text-generation model that drafts workout plans.
package llm

import (
	"context"
	"fmt"
	"os"
	"time"

	"alcyxob/fitgen/internal/config"
)

// Provider is the interface for model backends.
type Provider interface {
	// Complete sends one system+user exchange and returns the raw response text.
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)

	// Name returns the display name of this provider, e.g. "OpenAI".
	Name() string
}

// CompletionRequest is one call to the model.
type CompletionRequest struct {
	System      string
	User        string
	Temperature float64
	TopP        float64
	MaxTokens   int
	Schema      *JSONSchema // nil for free-form output
}

// JSONSchema constrains the response to a strict structured output.
type JSONSchema struct {
	Name        string
	Description string
	Schema      map[string]any
}

// Completion holds the model's output.
type Completion struct {
	Content    string
	Model      string
	TokensUsed int64
	Duration   time.Duration
}

// UpstreamError is a non-2xx answer from the model API.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("llm: %s returned %d: %s", e.Provider, e.StatusCode, e.Message)
}

// NewProvider builds the provider selected by cfg.Provider.
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIProvider(cfg), nil
	case "mock":
		content := SamplePlanJSON
		if cfg.MockFile != "" {
			b, err := os.ReadFile(cfg.MockFile)
			if err != nil {
				return nil, fmt.Errorf("llm: reading mock plan: %w", err)
			}
			content = string(b)
		}
		return NewMockProvider(content), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}
