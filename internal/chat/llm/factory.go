package llm

import (
	"fmt"

	"github.com/manus-labs/manus-backend/config"
)

// Factory builds a wire client for a provider name. Clients are cheap; one
// is built per request so per-agent credential overrides take effect
// immediately.
type Factory struct {
	cfg config.LLMConfig
}

func NewFactory(cfg config.LLMConfig) *Factory {
	return &Factory{cfg: cfg}
}

// ClientFor returns the wire client for provider. An empty apiKey falls back
// to the process-wide default credential.
func (f *Factory) ClientFor(provider, apiKey string) (Client, error) {
	if apiKey == "" {
		apiKey = f.cfg.DefaultAPIKey
	}

	switch provider {
	case "gemini", "":
		return NewGeminiClient(apiKey, f.cfg.GeminiBaseURL, "", f.cfg.Timeout), nil
	case "openai":
		return NewOpenAIClient(apiKey, f.cfg.OpenAIBaseURL, "", f.cfg.Timeout), nil
	case "anthropic":
		return NewAnthropicClient(apiKey, f.cfg.AnthropicBaseURL, "", f.cfg.Timeout), nil
	case "deepseek":
		return NewOpenAIClient(apiKey, f.cfg.DeepSeekBaseURL, "deepseek-chat", f.cfg.Timeout), nil
	case "other":
		if f.cfg.CompatBaseURL == "" {
			return nil, fmt.Errorf("no compatible endpoint configured for provider %q", provider)
		}
		return NewOpenAIClient(apiKey, f.cfg.CompatBaseURL, "", f.cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
}
