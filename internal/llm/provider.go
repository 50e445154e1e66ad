// Package llm provides a minimal text-generation client interface used by
// the briefing summarizer, with a Gemini implementation.
package llm

import (
	"context"
	"errors"
	"time"
)

// Common errors returned by LLM providers.
var (
	ErrNoAPIKey     = errors.New("llm: API key not configured")
	ErrRateLimit    = errors.New("llm: rate limit exceeded")
	ErrProviderDown = errors.New("llm: provider unavailable")
	ErrInvalidModel = errors.New("llm: invalid model")
	ErrEmptyReply   = errors.New("llm: empty response")
)

// GenerateOptions configures a single generation request.
type GenerateOptions struct {
	Model       string  `json:"model,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

// Response represents a completed generation.
type Response struct {
	Content string        `json:"content"`
	Model   string        `json:"model"`
	Tokens  int           `json:"tokens"`
	Latency time.Duration `json:"latency"`
}

// Provider is the interface the summarizer depends on. A provider makes
// exactly one outbound call per Generate invocation and never retries.
type Provider interface {
	// Name returns the provider identifier (e.g., "gemini").
	Name() string

	// Generate sends a one-shot prompt and returns the text response.
	// No conversation state is retained between calls.
	Generate(ctx context.Context, prompt string, opts *GenerateOptions) (*Response, error)

	// Ping checks if the provider is reachable and the API key is valid.
	Ping(ctx context.Context) error
}
