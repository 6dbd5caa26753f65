package exercise

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/dpt/internal/llm"
)

// Generator produces coding exercises.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Exercise, error)
}

// LLMGenerator implements Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// NewGenerator creates an LLMGenerator with the given provider and config.
func NewGenerator(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// Generate asks the provider for an exercise matching req.
func (g *LLMGenerator) Generate(ctx context.Context, req Request) (*Exercise, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid exercise request: %w", err)
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeExerciseGen)

	p := BuildGenerationPrompt(req.Pattern, string(req.Difficulty), string(req.Topic))
	resp, err := g.provider.Generate(ctx, llm.UserRequest(p.System, p.User, g.config.MaxTokens, g.config.Temperature))
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	if strings.TrimSpace(resp.Text) == "" {
		return nil, &llm.ErrMalformedResponse{
			Raw: resp.Text,
			Err: fmt.Errorf("provider returned an empty exercise"),
		}
	}

	return FromText(req, resp.Text, resp.Model), nil
}
