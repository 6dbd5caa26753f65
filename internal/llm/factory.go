package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/dpt/internal/store"
)

// Factory builds a Provider from configuration. Session code takes a
// Factory so tests can substitute mock providers.
type Factory func(ctx context.Context, cfg Config) (Provider, error)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with retry, timeout and logging middleware.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case KindAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case KindOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case KindGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case KindOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case KindMock:
		base = NewDemoProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → retry → timeout → logging → base
	var p Provider = base
	if eventRepo != nil {
		p = WithLogging(p, string(cfg.Provider), eventRepo)
	}
	p = WithTimeout(p, cfg.Timeout)
	p = WithRetry(p, cfg.Retry)

	return p, nil
}

// NewFactory returns a Factory that records every call in eventRepo.
func NewFactory(eventRepo store.EventRepo) Factory {
	return func(ctx context.Context, cfg Config) (Provider, error) {
		return NewProvider(ctx, cfg, eventRepo)
	}
}
