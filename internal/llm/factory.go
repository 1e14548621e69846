package llm

import (
	"context"
	"fmt"
	"net/http"
)

// NewProvider builds the configured provider and wraps it:
// caller → retry (only when MaxAttempts > 1) → logging → base.
// events may be nil, in which case requests are not recorded.
func NewProvider(ctx context.Context, cfg Config, events EventRecorder) (Provider, error) {
	var httpClient *http.Client
	if cfg.Timeout > 0 {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini, httpClient)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI, httpClient)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic, httpClient)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter, httpClient)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	p := base
	if events != nil {
		p = WithLogging(p, cfg.Provider, events)
	}
	if cfg.Retry.MaxAttempts > 1 {
		p = WithRetry(p, cfg.Retry)
	}
	return p, nil
}
