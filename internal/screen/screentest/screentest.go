// Package screentest builds screen dependencies backed by a mock provider
// and an in-memory event log.
package screentest

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/dpt/internal/llm"
	"github.com/abhisek/dpt/internal/screen"
	"github.com/abhisek/dpt/internal/session"
	"github.com/abhisek/dpt/internal/store"
)

// Deps returns screen dependencies whose tutor always builds mock. When
// bound is set the session is already bound to the mock kind.
func Deps(t testing.TB, mock *llm.MockProvider, bound bool) screen.Deps {
	t.Helper()

	s, err := store.Open()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	factory := func(context.Context, llm.Config) (llm.Provider, error) {
		return mock, nil
	}
	tutor := session.NewTutor(factory, llm.DefaultConfig(),
		session.WithEvents(s.EventRepo()),
		session.WithGetenv(func(string) string { return "" }),
	)
	st := session.NewState()
	if bound {
		if _, err := tutor.Bind(context.Background(), st, llm.KindMock, ""); err != nil {
			t.Fatalf("bind: %v", err)
		}
	}
	return screen.Deps{Tutor: tutor, State: st, Events: s.EventRepo()}
}

// Drain runs cmd and returns the messages it produces, flattening one
// level of tea.Batch. Nil commands and nil messages are skipped.
func Drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		if c == nil {
			continue
		}
		if m := c(); m != nil {
			out = append(out, m)
		}
	}
	return out
}

// Find returns the first message of type T in msgs.
func Find[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
