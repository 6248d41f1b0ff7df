// Package llm provides the text-generation clients used for SQL
// synthesis. OpenAI-compatible endpoints and Anthropic are supported;
// the provider is chosen by configuration.
package llm

import (
	"context"
)

// Client defines the interface for text-generation operations.
// Use this interface for dependency injection to enable mocking in tests.
type Client interface {
	// GenerateResponse generates a single-turn chat completion.
	GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error)

	// GetModel returns the configured model name.
	GetModel() string

	// GetEndpoint returns the configured endpoint.
	GetEndpoint() string
}

// Ensure implementations satisfy Client at compile time.
var (
	_ Client = (*OpenAIClient)(nil)
	_ Client = (*AnthropicClient)(nil)
	_ Client = (*MockClient)(nil)
)
