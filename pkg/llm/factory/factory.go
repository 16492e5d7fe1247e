package factory

import (
	"career-mentor-be/pkg/llm"
	"career-mentor-be/pkg/llm/anthropic"
	"career-mentor-be/pkg/llm/ollama"
	"career-mentor-be/pkg/llm/openai"
	"fmt"
	"time"
)

const huggingFaceRouterURL = "https://router.huggingface.co/v1"

type Params struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
}

// NewLLMProvider builds the configured backend wrapped in the per-call timeout.
func NewLLMProvider(p Params) (llm.LLMProvider, error) {
	var provider llm.LLMProvider

	switch p.Provider {
	case "ollama":
		baseURL := p.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		provider = ollama.NewOllamaProvider(baseURL, p.Model)
	case "anthropic":
		if p.APIKey == "" {
			return nil, fmt.Errorf("anthropic provider requires an API key")
		}
		provider = anthropic.NewAnthropicProvider(p.APIKey, p.Model)
	case "openai":
		if p.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		provider = openai.NewOpenAIProvider(p.APIKey, p.BaseURL, p.Model)
	case "huggingface":
		provider = openai.NewOpenAIProvider(p.APIKey, huggingFaceRouterURL, p.Model)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", p.Provider)
	}

	return llm.WithTimeout(provider, p.Provider, p.Timeout), nil
}
