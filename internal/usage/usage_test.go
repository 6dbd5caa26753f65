package usage

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/dpt/internal/store"
)

func seededRepo(t *testing.T) store.EventRepo {
	t.Helper()
	s, err := store.Open()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	repo := s.EventRepo()
	ctx := context.Background()
	require.NoError(t, repo.AppendLLMRequest(ctx, store.LLMRequestEventData{
		Provider: "openai", Model: "gpt-4o", Purpose: "exercise-gen",
		InputTokens: 1000, OutputTokens: 500, LatencyMs: 120, Success: true,
		RequestBody: `{"system":"s"}`, ResponseBody: "Problem: x",
	}))
	require.NoError(t, repo.AppendLLMRequest(ctx, store.LLMRequestEventData{
		Provider: "mock", Model: "mystery-model", Purpose: "code-review",
		InputTokens: 10, OutputTokens: 5, LatencyMs: 3, Success: false,
		ErrorMessage: "boom",
	}))
	return repo
}

func TestBuildAggregatesAndPrices(t *testing.T) {
	r, err := Build(context.Background(), seededRepo(t))
	require.NoError(t, err)

	assert.Equal(t, 2, r.Calls)
	assert.Equal(t, 1010, r.InputTokens)
	assert.Equal(t, 505, r.OutputTokens)
	assert.InDelta(t, 0.0075, r.Cost, 1e-9)
	assert.Equal(t, []string{"mystery-model"}, r.Unpriced)
	assert.True(t, r.Partial())
	require.Len(t, r.Models, 2)
}

func TestBuildEmpty(t *testing.T) {
	s, err := store.Open()
	require.NoError(t, err)
	defer s.Close()

	r, err := Build(context.Background(), s.EventRepo())
	require.NoError(t, err)
	assert.Zero(t, r.Calls)
	assert.False(t, r.Partial())

	var buf bytes.Buffer
	WriteReport(&buf, r)
	assert.Contains(t, buf.String(), "No LLM usage recorded.")
}

func TestWriteReport(t *testing.T) {
	r, err := Build(context.Background(), seededRepo(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	WriteReport(&buf, r)
	out := buf.String()
	for _, want := range []string{"Usage by Purpose", "exercise-gen", "code-review", "TOTAL (partial)", "$0.0075", "Pricing unavailable for: mystery-model"} {
		assert.Contains(t, out, want)
	}
}

func TestWriteEventsAndEvent(t *testing.T) {
	repo := seededRepo(t)
	events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{})
	require.NoError(t, err)

	var buf bytes.Buffer
	WriteEvents(&buf, events)
	assert.Contains(t, buf.String(), "gpt-4o")
	assert.Contains(t, buf.String(), "✗")

	buf.Reset()
	WriteEvent(&buf, &events[len(events)-1])
	out := buf.String()
	assert.Contains(t, out, "REQUEST")
	assert.Contains(t, out, `{"system":"s"}`)
	assert.Contains(t, out, "Problem: x")

	buf.Reset()
	WriteEvent(&buf, &events[0])
	assert.Contains(t, buf.String(), "Error:     boom")
	assert.Contains(t, buf.String(), "(not captured)")
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0075", FormatCost(0.0075))
	assert.Equal(t, "$1.25", FormatCost(1.25))
}
