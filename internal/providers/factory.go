package providers

import (
	"fmt"

	"github.com/mattdef/miniclaw/internal/config"
)

// FromConfig builds the configured LLMProvider based on cfg.ProviderType and
// cfg.ProviderConfig. The legacy cfg.APIKey is used as a fallback for the
// claude provider when no provider_config block is set, preserving
// backward compatibility with older config files.
func FromConfig(cfg *config.Config) (LLMProvider, error) {
	pc := cfg.ProviderConfig

	switch cfg.ProviderType {
	case "", "claude":
		apiKey := cfg.APIKey
		model := ""
		if pc != nil && pc.Claude != nil {
			if pc.Claude.APIKey != "" {
				apiKey = pc.Claude.APIKey
			}
			model = pc.Claude.DefaultModel
		}
		if apiKey == "" {
			return nil, fmt.Errorf("claude provider selected but no api_key configured")
		}
		return NewClaudeProvider(apiKey, model), nil

	case "openrouter":
		if pc == nil || pc.OpenRouter == nil {
			return nil, fmt.Errorf("provider_type is openrouter but provider_config.openrouter is missing")
		}
		baseURL := pc.OpenRouter.BaseURL
		if baseURL == "" {
			baseURL = "https://openrouter.ai/api/v1"
		}
		return NewOpenAICompatProvider(pc.OpenRouter.APIKey, baseURL, pc.OpenRouter.DefaultModel), nil

	case "ollama":
		if pc == nil || pc.Ollama == nil {
			return nil, fmt.Errorf("provider_type is ollama but provider_config.ollama is missing")
		}
		baseURL := pc.Ollama.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434/v1"
		}
		return NewOpenAICompatProvider("", baseURL, pc.Ollama.DefaultModel), nil

	default:
		return nil, fmt.Errorf("unknown provider_type: %q", cfg.ProviderType)
	}
}
