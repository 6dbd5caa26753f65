package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/dpt/internal/catalog"
	"github.com/abhisek/dpt/internal/exercise"
	"github.com/abhisek/dpt/internal/llm"
)

// Binding is the provider a session talks to.
type Binding struct {
	Kind     llm.Kind
	Source   llm.CredentialSource
	Model    string
	Provider llm.Provider
	BoundAt  time.Time
}

// State is everything the tutor knows about the current interactive
// session. It is created once, passed to every Tutor operation, and
// discarded at exit.
type State struct {
	// ID is the UUID for this session.
	ID string

	StartedAt time.Time

	// Binding is nil until a credential has been validated.
	Binding *Binding

	// Selection is the pattern/difficulty/topic currently chosen.
	Selection exercise.Request

	// Exercise is the last successfully generated exercise.
	Exercise *exercise.Exercise

	// Review is the last successful review of the current exercise.
	Review *exercise.Review

	// LastDiagnostic holds the syntax error from the last rejected
	// submission, cleared by the next one that parses.
	LastDiagnostic string
}

// NewState creates a session with the first entry of each catalog list
// selected.
func NewState() *State {
	return &State{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Selection: exercise.Request{
			Pattern:    catalog.PatternNames()[0],
			Difficulty: catalog.AllDifficulties()[0],
			Topic:      catalog.AllTopics()[0],
		},
	}
}

// Bound reports whether a provider binding is active.
func (s *State) Bound() bool {
	return s.Binding != nil && s.Binding.Provider != nil
}

// Label describes the binding for status lines, e.g.
// "Claude · claude-sonnet-4-0 (environment)".
func (b *Binding) Label() string {
	label := b.Kind.DisplayName()
	if b.Model != "" {
		label += " · " + b.Model
	}
	if b.Source != "" {
		label += " (" + string(b.Source) + ")"
	}
	return label
}

// Status returns the binding label, or "not connected".
func (s *State) Status() string {
	if !s.Bound() {
		return "not connected"
	}
	return s.Binding.Label()
}

// SetExercise makes ex the current exercise and clears anything recorded
// against the previous one.
func (s *State) SetExercise(ex *exercise.Exercise) {
	s.Exercise = ex
	s.Selection = ex.Request
	s.Review = nil
	s.LastDiagnostic = ""
}
