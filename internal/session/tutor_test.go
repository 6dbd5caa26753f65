package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/dpt/internal/catalog"
	"github.com/abhisek/dpt/internal/exercise"
	"github.com/abhisek/dpt/internal/llm"
	"github.com/abhisek/dpt/internal/store"
	"github.com/abhisek/dpt/internal/syntaxgate"
)

const problemText = "Problem: Build a feature flag registry for a deployment tool.\nRequirements:\n- Only one registry exists\n- Flags can be toggled at runtime"

const validCode = "class Registry:\n    _instance = None\n\n    def __new__(cls):\n        if cls._instance is None:\n            cls._instance = super().__new__(cls)\n        return cls._instance\n"

func mockFactory(p llm.Provider) llm.Factory {
	return func(ctx context.Context, cfg llm.Config) (llm.Provider, error) {
		return p, nil
	}
}

func noEnv(string) string { return "" }

// boundState returns a state bound to mock through a Tutor.
func boundState(t *testing.T, mock *llm.MockProvider, opts ...Option) (*Tutor, *State) {
	t.Helper()
	tutor := NewTutor(mockFactory(mock), llm.DefaultConfig(), append([]Option{WithGetenv(noEnv)}, opts...)...)
	st := NewState()
	if _, err := tutor.Bind(context.Background(), st, llm.KindMock, ""); err != nil {
		t.Fatalf("bind: %v", err)
	}
	return tutor, st
}

func singletonEasyTech() exercise.Request {
	return exercise.Request{
		Pattern:    "Singleton",
		Difficulty: catalog.DifficultyEasy,
		Topic:      catalog.TopicTech,
	}
}

func TestNewState(t *testing.T) {
	st := NewState()
	if st.ID == "" {
		t.Fatal("expected session ID")
	}
	if st.Bound() {
		t.Fatal("new state must not be bound")
	}
	if err := st.Selection.Validate(); err != nil {
		t.Fatalf("default selection invalid: %v", err)
	}
}

func TestGenerate_StoresProviderText(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: problemText})
	tutor, st := boundState(t, mock)

	ex, err := tutor.Generate(context.Background(), st, singletonEasyTech())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Exercise != ex || st.Exercise.Text != problemText {
		t.Fatalf("exercise text = %q, want provider text", st.Exercise.Text)
	}
	if st.Selection != singletonEasyTech() {
		t.Errorf("selection = %+v", st.Selection)
	}
	if mock.CallCount() != 1 {
		t.Errorf("calls = %d, want 1", mock.CallCount())
	}
}

func TestGenerate_NotBound(t *testing.T) {
	tutor := NewTutor(mockFactory(llm.NewMockProvider()), llm.DefaultConfig())
	_, err := tutor.Generate(context.Background(), NewState(), singletonEasyTech())
	if !errors.Is(err, ErrNotBound) {
		t.Fatalf("expected ErrNotBound, got %v", err)
	}
}

func TestGenerate_FailureKeepsPreviousExercise(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: problemText},
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("503")}},
	)
	tutor, st := boundState(t, mock)

	first, err := tutor.Generate(context.Background(), st, singletonEasyTech())
	if err != nil {
		t.Fatalf("first generate: %v", err)
	}

	_, err = tutor.Generate(context.Background(), st, singletonEasyTech())
	if Classify(err) != KindNetworkOrProvider {
		t.Fatalf("kind = %s, want network-or-provider", Classify(err))
	}
	if st.Exercise != first {
		t.Fatal("failed generation must keep the previous exercise")
	}
}

func TestSubmit_SyntaxErrorSkipsProvider(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: problemText})
	tutor, st := boundState(t, mock)
	if _, err := tutor.Generate(context.Background(), st, singletonEasyTech()); err != nil {
		t.Fatalf("generate: %v", err)
	}
	prior := &exercise.Review{Raw: "Score: 3"}
	st.Review = prior
	calls := mock.CallCount()

	_, err := tutor.Submit(context.Background(), st, "x = (")

	var se *syntaxgate.SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("expected *syntaxgate.SyntaxError, got %T (%v)", err, err)
	}
	if mock.CallCount() != calls {
		t.Fatal("provider must not be called for a syntax error")
	}
	if st.Review != prior {
		t.Fatal("review must be unchanged after a syntax error")
	}
	if st.LastDiagnostic == "" {
		t.Fatal("expected diagnostic to be recorded")
	}
}

func TestSubmit_ReviewEmbedsExerciseAndCode(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: problemText},
		llm.MockResponse{Text: "Score: 5\nSuggestions: None."},
	)
	tutor, st := boundState(t, mock)
	if _, err := tutor.Generate(context.Background(), st, singletonEasyTech()); err != nil {
		t.Fatalf("generate: %v", err)
	}
	st.LastDiagnostic = "stale"

	review, err := tutor.Submit(context.Background(), st, validCode)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !review.Scored || review.Score != 5 {
		t.Errorf("review = %+v", review)
	}
	if st.Review != review {
		t.Error("review not stored in state")
	}
	if st.LastDiagnostic != "" {
		t.Error("diagnostic should clear after a valid submission")
	}

	req, _ := mock.LastCall()
	user := req.Messages[0].Content
	if !strings.Contains(user, problemText) {
		t.Error("review instruction must contain the exercise text")
	}
	if !strings.Contains(user, validCode) {
		t.Error("review instruction must contain the code verbatim")
	}
}

func TestSubmit_Preconditions(t *testing.T) {
	mock := llm.NewMockProvider()
	tutor, st := boundState(t, mock)

	if _, err := tutor.Submit(context.Background(), st, "   "); !errors.Is(err, ErrEmptySubmission) {
		t.Errorf("blank code: got %v", err)
	}
	if _, err := tutor.Submit(context.Background(), st, validCode); !errors.Is(err, ErrNoExercise) {
		t.Errorf("no exercise: got %v", err)
	}

	unbound := NewState()
	if _, err := tutor.Submit(context.Background(), unbound, validCode); !errors.Is(err, ErrNotBound) {
		t.Errorf("unbound: got %v", err)
	}
	if mock.CallCount() != 0 {
		t.Fatal("provider must not be called")
	}
}

func TestSubmit_FailureKeepsPreviousReview(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: problemText},
		llm.MockResponse{Err: &llm.ErrTimeout{After: time.Minute, Err: context.DeadlineExceeded}},
	)
	tutor, st := boundState(t, mock)
	if _, err := tutor.Generate(context.Background(), st, singletonEasyTech()); err != nil {
		t.Fatalf("generate: %v", err)
	}
	prior := &exercise.Review{Raw: "Score: 2"}
	st.Review = prior

	_, err := tutor.Submit(context.Background(), st, validCode)
	if Classify(err) != KindTimeout {
		t.Fatalf("kind = %s, want timeout", Classify(err))
	}
	if st.Review != prior {
		t.Fatal("failed review must keep the previous review")
	}
}

// keyedFactory returns providers that accept only the key "good".
func keyedFactory(checked *[]string) llm.Factory {
	return func(ctx context.Context, cfg llm.Config) (llm.Provider, error) {
		key := cfg.APIKey()
		*checked = append(*checked, key)
		if key == "good" {
			return llm.NewMockProvider(llm.MockResponse{Text: "Hi"}), nil
		}
		return llm.NewMockProvider(llm.MockResponse{
			Err: &llm.ErrCredentialRejected{Provider: cfg.Provider.DisplayName(), Err: errors.New("invalid x-api-key")},
		}), nil
	}
}

func TestBind_EnteredKeyFirstThenEnvironment(t *testing.T) {
	var checked []string
	env := func(k string) string {
		if k == "ANTHROPIC_API_KEY" {
			return "good"
		}
		return ""
	}
	tutor := NewTutor(keyedFactory(&checked), llm.DefaultConfig(), WithGetenv(env))
	st := NewState()

	res, err := tutor.Bind(context.Background(), st, llm.KindAnthropic, "typo")
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if !res.Valid() || res.Source != llm.SourceEnvironment {
		t.Fatalf("result = %+v", res)
	}
	if len(checked) != 2 || checked[0] != "typo" || checked[1] != "good" {
		t.Fatalf("check order = %q", checked)
	}
	if !st.Bound() || st.Binding.Kind != llm.KindAnthropic || st.Binding.Source != llm.SourceEnvironment {
		t.Fatalf("binding = %+v", st.Binding)
	}
}

func TestBind_AllRejectedKeepsPreviousBinding(t *testing.T) {
	var checked []string
	tutor := NewTutor(keyedFactory(&checked), llm.DefaultConfig(), WithGetenv(noEnv))
	st := NewState()

	if _, err := tutor.Bind(context.Background(), st, llm.KindOpenAI, "good"); err != nil {
		t.Fatalf("first bind: %v", err)
	}
	prior := st.Binding

	res, err := tutor.Bind(context.Background(), st, llm.KindAnthropic, "bad")
	if err == nil {
		t.Fatal("expected error")
	}
	if res.Valid() || res.Reason == "" {
		t.Fatalf("result = %+v", res)
	}
	if Classify(err) != KindCredentialRejected {
		t.Fatalf("kind = %s", Classify(err))
	}
	if !strings.Contains(Describe(err), "invalid x-api-key") {
		t.Errorf("description should carry the provider message: %q", Describe(err))
	}
	if st.Binding != prior {
		t.Fatal("failed bind must keep the previous binding")
	}
}

func TestBind_NoCredential(t *testing.T) {
	var checked []string
	tutor := NewTutor(keyedFactory(&checked), llm.DefaultConfig(), WithGetenv(noEnv))

	_, err := tutor.Bind(context.Background(), NewState(), llm.KindGemini, "")
	if !errors.Is(err, ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential, got %v", err)
	}
	if len(checked) != 0 {
		t.Fatal("no provider should be built without a key")
	}
}

func TestAttemptsAreRecorded(t *testing.T) {
	s, err := store.Open()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	mock := llm.NewMockProvider(
		llm.MockResponse{Text: problemText},
		llm.MockResponse{Text: "Score: 4\nSuggestions: ok"},
	)
	tutor, st := boundState(t, mock, WithEvents(s.EventRepo()))
	ctx := context.Background()

	if _, err := tutor.Generate(ctx, st, singletonEasyTech()); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := tutor.Submit(ctx, st, "def f(:\n"); err == nil {
		t.Fatal("expected syntax error")
	}
	if _, err := tutor.Submit(ctx, st, validCode); err != nil {
		t.Fatalf("submit: %v", err)
	}

	attempts, err := tutor.Attempts(ctx, st)
	if err != nil {
		t.Fatalf("attempts: %v", err)
	}
	if len(attempts) != 3 {
		t.Fatalf("attempts = %d, want 3", len(attempts))
	}

	sum := BuildSummary(st, attempts, st.StartedAt.Add(time.Minute))
	if sum.Generated != 1 || sum.Reviewed != 1 || sum.SyntaxRejected != 1 {
		t.Errorf("summary = %+v", sum)
	}
	if sum.BestScore != 4 || sum.AverageScore != 4 {
		t.Errorf("scores = %d / %v", sum.BestScore, sum.AverageScore)
	}
	if sum.Duration != time.Minute {
		t.Errorf("duration = %s", sum.Duration)
	}
}
