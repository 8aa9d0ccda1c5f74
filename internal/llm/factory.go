package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/vitalgraph/mediq/internal/config"
)

const siliconFlowBaseURL = "https://api.siliconflow.cn/v1"

// NewClient builds a provider client from configuration. The mock provider
// (or an empty one) yields a nil client; callers fall back to template
// answers in that case.
func NewClient(ctx context.Context, cfg config.LLMConfig) (Client, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "", "mock":
		return nil, nil

	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	case "siliconflow":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = siliconFlowBaseURL
		}
		return NewOpenAIClient(cfg.APIKey, cfg.Model, baseURL), nil

	case "claude":
		return NewClaudeClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	case "gemini":
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Model)

	case "ollama":
		// Ollama exposes an OpenAI-compatible endpoint under /v1. The API
		// key is ignored server-side but the client config requires one.
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		if !strings.HasSuffix(baseURL, "/v1") {
			baseURL = strings.TrimRight(baseURL, "/") + "/v1"
		}
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = "ollama"
		}
		return NewOpenAIClient(apiKey, cfg.Model, baseURL), nil

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}
}
