package exercise

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/dpt/internal/llm"
)

// Reviewer grades a solution against its exercise.
type Reviewer interface {
	Review(ctx context.Context, req ReviewRequest) (*Review, error)
}

// LLMReviewer implements Reviewer using an LLM provider.
type LLMReviewer struct {
	provider llm.Provider
	config   ReviewConfig
}

// NewReviewer creates an LLMReviewer with the given provider and config.
func NewReviewer(provider llm.Provider, cfg ReviewConfig) *LLMReviewer {
	return &LLMReviewer{provider: provider, config: cfg}
}

// reviewOutput is the structured review payload.
type reviewOutput struct {
	Score       int    `json:"score"`
	Suggestions string `json:"suggestions"`
}

// Review sends the code and problem to the provider and parses the critique.
func (r *LLMReviewer) Review(ctx context.Context, req ReviewRequest) (*Review, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid review request: %w", err)
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeCodeReview)

	format := textReviewFormat
	if r.config.Structured {
		format = jsonReviewFormat
	}
	p := buildReviewPrompt(req.Pattern, req.Code, req.Problem, format)

	llmReq := llm.UserRequest(p.System, p.User, r.config.MaxTokens, r.config.Temperature)
	if r.config.Structured {
		llmReq.Schema = ReviewSchema
	}

	resp, err := r.provider.Generate(ctx, llmReq)
	if err != nil {
		return nil, fmt.Errorf("LLM review failed: %w", err)
	}

	if strings.TrimSpace(resp.Text) == "" {
		return nil, &llm.ErrMalformedResponse{
			Raw: resp.Text,
			Err: fmt.Errorf("provider returned an empty review"),
		}
	}

	if !r.config.Structured {
		review := ParseReview(resp.Text)
		review.Model = resp.Model
		return &review, nil
	}

	var out reviewOutput
	if err := json.Unmarshal([]byte(resp.Text), &out); err != nil {
		return nil, &llm.ErrMalformedResponse{Raw: resp.Text, Err: err}
	}
	review := Review{
		Raw:         fmt.Sprintf("Score: %d\nSuggestions: %s", out.Score, out.Suggestions),
		Suggestions: out.Suggestions,
		Model:       resp.Model,
	}
	if out.Score >= MinScore && out.Score <= MaxScore {
		review.Score, review.Scored = out.Score, true
	}
	return &review, nil
}
