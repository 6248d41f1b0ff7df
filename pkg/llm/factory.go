package llm

import (
	"fmt"

	"go.uber.org/zap"
)

// NewClient creates the provider-appropriate client for the given
// configuration. provider is "openai" (any OpenAI-compatible endpoint)
// or "anthropic".
func NewClient(provider string, cfg *Config, logger *zap.Logger) (Client, error) {
	switch provider {
	case "openai":
		return NewOpenAIClient(cfg, logger)
	case "anthropic":
		return NewAnthropicClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}
