package session

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/dpt/internal/llm"
	"github.com/abhisek/dpt/internal/syntaxgate"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{nil, KindNone},
		{ErrNotBound, KindPrecondition},
		{fmt.Errorf("wrapped: %w", ErrEmptySubmission), KindPrecondition},
		{&llm.ErrCredentialRejected{Provider: "Claude", Err: errors.New("bad key")}, KindCredentialRejected},
		{&syntaxgate.SyntaxError{Line: 1, Column: 5, Msg: "missing \")\""}, KindSyntax},
		{&llm.ErrMalformedResponse{Raw: "??", Err: errors.New("no text")}, KindMalformedResponse},
		{&llm.ErrMaxTokensExceeded{Raw: "{"}, KindTruncated},
		{&llm.ErrTimeout{After: time.Second, Err: &llm.ErrProviderUnavailable{}}, KindTimeout},
		{fmt.Errorf("LLM generation failed: %w", &llm.ErrRateLimit{}), KindNetworkOrProvider},
		{&llm.ErrProviderUnavailable{Err: errors.New("dial tcp")}, KindNetworkOrProvider},
		{errors.New("boom"), KindUnknown},
	}

	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.want {
			t.Errorf("Classify(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&llm.ErrCredentialRejected{Provider: "ChatGPT", Err: errors.New("Incorrect API key")}, "Message from API provider: Incorrect API key"},
		{&syntaxgate.SyntaxError{Line: 2, Column: 3, Msg: "invalid syntax"}, "Syntax Error: invalid syntax at line 2, column 3"},
		{&llm.ErrMalformedResponse{Raw: "<html>", Err: errors.New("x")}, "<html>"},
		{&llm.ErrTimeout{After: 30 * time.Second}, "30s"},
		{ErrNoExercise, "generate a problem"},
	}

	for _, tt := range tests {
		if got := Describe(tt.err); !strings.Contains(got, tt.want) {
			t.Errorf("Describe(%v) = %q, want it to contain %q", tt.err, got, tt.want)
		}
	}
	if Describe(nil) != "" {
		t.Error("Describe(nil) should be empty")
	}
}
