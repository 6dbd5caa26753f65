package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"
	client := openai.NewClientWithConfig(config)

	return &OpenAIProvider{
		client: client,
		model:  "gpt-4o-mini",
		name:   KindOpenAI.DisplayName(),
	}
}

func openAICompletion(choices []map[string]any) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4o-mini",
		"choices": choices,
		"usage": map[string]any{
			"prompt_tokens":     40,
			"completion_tokens": 25,
			"total_tokens":      65,
		},
	}
}

func openAIError(w http.ResponseWriter, status int, typ, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"type": typ, "message": msg},
	})
}

func TestOpenAIProvider_HappyPath(t *testing.T) {
	const review = "Score: 4/5\nFeedback: Solid use of the pattern."
	var gotSystem string
	handler := func(w http.ResponseWriter, r *http.Request) {
		var body openai.ChatCompletionRequest
		json.NewDecoder(r.Body).Decode(&body)
		if len(body.Messages) > 0 {
			gotSystem = body.Messages[0].Content
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openAICompletion([]map[string]any{
			{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": review},
				"finish_reason": "stop",
			},
		}))
	}

	p := newTestOpenAIProvider(t, handler)
	resp, err := p.Generate(context.Background(), UserRequest("expert", "Review this.", 4096, 0.3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != review {
		t.Fatalf("text = %q, want %q", resp.Text, review)
	}
	if gotSystem != "expert" {
		t.Fatalf("system message = %q", gotSystem)
	}
	if resp.Usage.InputTokens != 40 || resp.Usage.OutputTokens != 25 {
		t.Fatalf("unexpected usage: %+v", resp.Usage)
	}
	if resp.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp.StopReason)
	}
}

func TestOpenAIProvider_NoChoicesIsMalformed(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openAICompletion([]map[string]any{}))
	}

	p := newTestOpenAIProvider(t, handler)
	_, err := p.Generate(context.Background(), UserRequest("", "test", 100, 0))
	var malformed *ErrMalformedResponse
	if !errors.As(err, &malformed) {
		t.Fatalf("expected ErrMalformedResponse, got: %T (%v)", err, err)
	}
}

func TestOpenAIProvider_CredentialRejected(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		openAIError(w, http.StatusUnauthorized, "invalid_request_error", "Incorrect API key provided")
	}

	p := newTestOpenAIProvider(t, handler)
	_, err := p.Generate(context.Background(), UserRequest("", "Hello", 10, 0))
	var rejected *ErrCredentialRejected
	if !errors.As(err, &rejected) {
		t.Fatalf("expected ErrCredentialRejected, got: %T (%v)", err, err)
	}
	if rejected.Provider != "ChatGPT" {
		t.Fatalf("provider = %q", rejected.Provider)
	}
}

func TestOpenAIProvider_RateLimit(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		openAIError(w, http.StatusTooManyRequests, "tokens", "Rate limit exceeded")
	}

	p := newTestOpenAIProvider(t, handler)
	_, err := p.Generate(context.Background(), UserRequest("", "test", 100, 0))
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T (%v)", err, err)
	}
}

func TestOpenAIProvider_ServerError(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		openAIError(w, http.StatusInternalServerError, "server_error", "Internal server error")
	}

	p := newTestOpenAIProvider(t, handler)
	_, err := p.Generate(context.Background(), UserRequest("", "test", 100, 0))
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T (%v)", err, err)
	}
}

func TestOpenAIProvider_ModelID(t *testing.T) {
	p := &OpenAIProvider{model: "gpt-4o-mini"}
	if p.ModelID() != "gpt-4o-mini" {
		t.Fatalf("expected 'gpt-4o-mini', got %q", p.ModelID())
	}
}

func TestNewOpenAIProvider_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIProvider(OpenAIConfig{Model: "gpt-4o"}); err == nil {
		t.Fatal("expected error for empty API key")
	}

	p, err := NewOpenAIProvider(OpenAIConfig{
		APIKey:  "test-key",
		Model:   "gpt-4o",
		BaseURL: "https://llm.internal.example/v1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "gpt-4o" {
		t.Fatalf("expected 'gpt-4o', got %q", p.ModelID())
	}
}
