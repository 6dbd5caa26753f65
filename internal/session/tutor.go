package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/abhisek/dpt/internal/exercise"
	"github.com/abhisek/dpt/internal/llm"
	"github.com/abhisek/dpt/internal/store"
	"github.com/abhisek/dpt/internal/syntaxgate"
)

// SyntaxChecker validates source before it is reviewed.
type SyntaxChecker interface {
	Check(ctx context.Context, src string) error
}

// Tutor runs the generate/submit workflow against an explicit State.
type Tutor struct {
	factory llm.Factory
	base    llm.Config
	gate    SyntaxChecker
	events  store.EventRepo
	getenv  func(string) string

	genConfig    exercise.Config
	reviewConfig exercise.ReviewConfig
}

// Option configures a Tutor.
type Option func(*Tutor)

// WithEvents records every attempt in repo.
func WithEvents(repo store.EventRepo) Option {
	return func(t *Tutor) { t.events = repo }
}

// WithGetenv overrides how provider environment variables are read.
func WithGetenv(getenv func(string) string) Option {
	return func(t *Tutor) { t.getenv = getenv }
}

// WithSyntaxChecker replaces the tree-sitter gate.
func WithSyntaxChecker(c SyntaxChecker) Option {
	return func(t *Tutor) { t.gate = c }
}

// WithReviewConfig overrides review token budget, temperature and mode.
func WithReviewConfig(cfg exercise.ReviewConfig) Option {
	return func(t *Tutor) { t.reviewConfig = cfg }
}

// WithGenerationConfig overrides the generation token budget and temperature.
func WithGenerationConfig(cfg exercise.Config) Option {
	return func(t *Tutor) { t.genConfig = cfg }
}

// NewTutor creates a Tutor that builds providers with factory from base.
func NewTutor(factory llm.Factory, base llm.Config, opts ...Option) *Tutor {
	t := &Tutor{
		factory:      factory,
		base:         base,
		gate:         syntaxgate.New(),
		getenv:       os.Getenv,
		genConfig:    exercise.DefaultGenerationConfig(),
		reviewConfig: exercise.DefaultReviewConfig(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Candidates lists the credentials Bind would try for kind, without
// probing them.
func (t *Tutor) Candidates(kind llm.Kind, enteredKey string) []llm.Credential {
	return llm.Candidates(kind, enteredKey, t.getenv)
}

// Bind validates the credentials for kind and binds the first one the
// provider accepts. An entered key is tried before the environment
// variable. When nothing is accepted the previous binding stays in place
// and the returned error wraps the last rejection.
func (t *Tutor) Bind(ctx context.Context, st *State, kind llm.Kind, enteredKey string) (llm.CredentialResult, error) {
	cfg := t.base
	cfg.Provider = kind

	if kind == llm.KindMock {
		p, err := t.factory(ctx, cfg)
		if err != nil {
			return llm.CredentialResult{Status: llm.CredentialRejected, Reason: err.Error(), Err: err}, err
		}
		st.Binding = &Binding{Kind: kind, Provider: p, Model: p.ModelID(), BoundAt: time.Now()}
		return llm.CredentialResult{Status: llm.CredentialValid}, nil
	}

	candidates := t.Candidates(kind, enteredKey)
	if len(candidates) == 0 {
		res := llm.CredentialResult{
			Status: llm.CredentialRejected,
			Reason: fmt.Sprintf("no key entered and %s is not set", kind.EnvKey()),
			Err:    ErrNoCredential,
		}
		return res, ErrNoCredential
	}

	var last llm.CredentialResult
	for _, c := range candidates {
		p, err := t.factory(ctx, cfg.WithAPIKey(c.Key))
		if err != nil {
			last = llm.CredentialResult{Status: llm.CredentialRejected, Source: c.Source, Reason: err.Error(), Err: err}
			continue
		}

		res := llm.CheckCredential(ctx, p)
		res.Source = c.Source
		if res.Valid() {
			st.Binding = &Binding{
				Kind:     kind,
				Source:   c.Source,
				Model:    p.ModelID(),
				Provider: p,
				BoundAt:  time.Now(),
			}
			slog.Info("provider bound", "provider", kind, "source", c.Source, "model", p.ModelID())
			return res, nil
		}

		slog.Info("credential rejected", "provider", kind, "source", c.Source, "reason", res.Reason)
		last = res
		if ctx.Err() != nil {
			break
		}
	}

	return last, fmt.Errorf("bind %s: %w", kind.DisplayName(), last.Err)
}

// Generate asks the bound provider for an exercise and stores it as the
// current one. A new exercise clears the previous review. On failure the
// state is left as it was.
func (t *Tutor) Generate(ctx context.Context, st *State, req exercise.Request) (*exercise.Exercise, error) {
	if !st.Bound() {
		return nil, ErrNotBound
	}
	st.Selection = req

	ex, err := exercise.NewGenerator(st.Binding.Provider, t.genConfig).Generate(ctx, req)
	t.record(ctx, st, store.AttemptEventData{
		Kind:       store.AttemptGenerate,
		Pattern:    req.Pattern,
		Difficulty: string(req.Difficulty),
		Topic:      string(req.Topic),
		SyntaxOK:   true,
	}, err)
	if err != nil {
		return nil, err
	}

	st.SetExercise(ex)
	return ex, nil
}

// Submit gates code through the syntax checker and, if it parses, has the
// bound provider review it against the current exercise. A syntax failure
// returns the *syntaxgate.SyntaxError without any provider call. On
// failure the previous review is kept.
func (t *Tutor) Submit(ctx context.Context, st *State, code string) (*exercise.Review, error) {
	if !st.Bound() {
		return nil, ErrNotBound
	}
	if strings.TrimSpace(code) == "" {
		return nil, ErrEmptySubmission
	}
	if st.Exercise == nil {
		return nil, ErrNoExercise
	}

	attempt := store.AttemptEventData{
		Kind:       store.AttemptReview,
		Pattern:    st.Exercise.Request.Pattern,
		Difficulty: string(st.Exercise.Request.Difficulty),
		Topic:      string(st.Exercise.Request.Topic),
	}

	if err := t.gate.Check(ctx, code); err != nil {
		var se *syntaxgate.SyntaxError
		if errors.As(err, &se) {
			st.LastDiagnostic = se.Error()
		}
		t.record(ctx, st, attempt, err)
		return nil, err
	}
	st.LastDiagnostic = ""
	attempt.SyntaxOK = true

	review, err := exercise.NewReviewer(st.Binding.Provider, t.reviewConfig).Review(ctx, exercise.ReviewRequest{
		Pattern: st.Exercise.Request.Pattern,
		Code:    code,
		Problem: st.Exercise.Text,
	})
	if review != nil {
		attempt.Score, attempt.Scored = review.Score, review.Scored
	}
	t.record(ctx, st, attempt, err)
	if err != nil {
		return nil, err
	}

	st.Review = review
	return review, nil
}

// Attempts returns the attempts recorded for st, newest first.
func (t *Tutor) Attempts(ctx context.Context, st *State) ([]store.AttemptEvent, error) {
	if t.events == nil {
		return nil, nil
	}
	return t.events.QueryAttempts(ctx, st.ID, store.QueryOpts{})
}

func (t *Tutor) record(ctx context.Context, st *State, data store.AttemptEventData, err error) {
	if t.events == nil {
		return
	}
	data.SessionID = st.ID
	if err != nil {
		data.ErrorMessage = err.Error()
	}
	if logErr := t.events.AppendAttempt(ctx, data); logErr != nil {
		slog.Warn("failed to record attempt", "kind", data.Kind, "error", logErr)
	}
}
