package llm

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Kind identifies a provider binding.
type Kind string

const (
	KindAnthropic  Kind = "anthropic"
	KindOpenAI     Kind = "openai"
	KindGemini     Kind = "gemini"
	KindOpenRouter Kind = "openrouter"
	KindMock       Kind = "mock"
)

// Kinds returns the selectable providers in display order. Mock is omitted.
func Kinds() []Kind {
	return []Kind{KindAnthropic, KindOpenAI, KindGemini, KindOpenRouter}
}

// ParseKind returns the Kind named s. Matching ignores case.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if k == KindMock || slices.Contains(Kinds(), k) {
		return k, nil
	}
	return "", fmt.Errorf("unknown LLM provider: %q", s)
}

// DisplayName returns the name shown to users for a provider.
func (k Kind) DisplayName() string {
	switch k {
	case KindAnthropic:
		return "Claude"
	case KindOpenAI:
		return "ChatGPT"
	case KindGemini:
		return "Gemini"
	case KindOpenRouter:
		return "OpenRouter"
	case KindMock:
		return "Mock"
	default:
		return string(k)
	}
}

// EnvKey returns the environment variable holding the provider's API key.
func (k Kind) EnvKey() string {
	switch k {
	case KindAnthropic:
		return "ANTHROPIC_API_KEY"
	case KindOpenAI:
		return "OPENAI_API_KEY"
	case KindGemini:
		return "GEMINI_API_KEY"
	case KindOpenRouter:
		return "OPENROUTER_API_KEY"
	default:
		return ""
	}
}

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	Provider Kind

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single LLM request. Zero disables the bound; the
	// environment can only set a positive one.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-sonnet"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o"
	BaseURL string // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "openai/gpt-4o"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
// MaxAttempts of 1 means a failed call is reported without re-attempt.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: KindAnthropic,
		Anthropic: AnthropicConfig{
			Model: "claude-sonnet",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "openai/gpt-4o",
		},
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values. A malformed or non-positive
// DPT_LLM_TIMEOUT or DPT_LLM_MAX_ATTEMPTS is an error.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if p := os.Getenv("DPT_LLM_PROVIDER"); p != "" {
		cfg.Provider = Kind(p)
	}

	cfg.Anthropic.APIKey = os.Getenv(KindAnthropic.EnvKey())
	if m := os.Getenv("DPT_ANTHROPIC_MODEL"); m != "" {
		cfg.Anthropic.Model = m
	}

	cfg.OpenAI.APIKey = os.Getenv(KindOpenAI.EnvKey())
	if m := os.Getenv("DPT_OPENAI_MODEL"); m != "" {
		cfg.OpenAI.Model = m
	}
	if u := os.Getenv("DPT_OPENAI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
	}

	cfg.Gemini.APIKey = os.Getenv(KindGemini.EnvKey())
	if m := os.Getenv("DPT_GEMINI_MODEL"); m != "" {
		cfg.Gemini.Model = m
	}

	cfg.OpenRouter.APIKey = os.Getenv(KindOpenRouter.EnvKey())
	if m := os.Getenv("DPT_OPENROUTER_MODEL"); m != "" {
		cfg.OpenRouter.Model = m
	}

	if t := os.Getenv("DPT_LLM_TIMEOUT"); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil {
			return Config{}, fmt.Errorf("DPT_LLM_TIMEOUT: %w", err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("DPT_LLM_TIMEOUT must be positive, got %q", t)
		}
		cfg.Timeout = d
	}
	if a := os.Getenv("DPT_LLM_MAX_ATTEMPTS"); a != "" {
		n, err := strconv.Atoi(a)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("DPT_LLM_MAX_ATTEMPTS must be a whole number of at least 1, got %q", a)
		}
		cfg.Retry.MaxAttempts = n
	}

	return cfg, nil
}

// APIKey returns the key configured for the selected provider.
func (c Config) APIKey() string {
	switch c.Provider {
	case KindAnthropic:
		return c.Anthropic.APIKey
	case KindOpenAI:
		return c.OpenAI.APIKey
	case KindGemini:
		return c.Gemini.APIKey
	case KindOpenRouter:
		return c.OpenRouter.APIKey
	default:
		return ""
	}
}

// WithAPIKey returns a copy of c with the selected provider's key set.
func (c Config) WithAPIKey(key string) Config {
	switch c.Provider {
	case KindAnthropic:
		c.Anthropic.APIKey = key
	case KindOpenAI:
		c.OpenAI.APIKey = key
	case KindGemini:
		c.Gemini.APIKey = key
	case KindOpenRouter:
		c.OpenRouter.APIKey = key
	}
	return c
}

// WithModel returns a copy of c with the selected provider's model set.
// An empty model leaves the default in place.
func (c Config) WithModel(model string) Config {
	if model == "" {
		return c
	}
	switch c.Provider {
	case KindAnthropic:
		c.Anthropic.Model = model
	case KindOpenAI:
		c.OpenAI.Model = model
	case KindGemini:
		c.Gemini.Model = model
	case KindOpenRouter:
		c.OpenRouter.Model = model
	}
	return c
}

// Validate checks that the selected provider has its required API key set
// and that the limits are usable.
func (c Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("LLM timeout must not be negative, got %s", c.Timeout)
	}
	if c.Retry.MaxAttempts < 0 {
		return fmt.Errorf("LLM max attempts must not be negative, got %d", c.Retry.MaxAttempts)
	}

	switch c.Provider {
	case KindAnthropic, KindOpenAI, KindGemini, KindOpenRouter:
		if c.APIKey() == "" {
			return fmt.Errorf("%s is required for the %s provider", c.Provider.EnvKey(), c.Provider)
		}
	case KindMock:
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
