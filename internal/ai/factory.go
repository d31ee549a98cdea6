package ai

import (
	"fmt"

	"github.com/gedeagusprabawadewa-dot/ielts-prep-pro-x-sub000/internal/config"
)

// NewProvider creates a Provider from configuration.
func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.AIProvider {
	case "openai":
		return NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.AIModel)
	case "anthropic":
		return NewAnthropicProvider(cfg.AnthropicKey, cfg.AIModel)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown AI provider: %q", cfg.AIProvider)
	}
}
