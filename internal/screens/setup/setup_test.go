package setup

import (
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/dpt/internal/llm"
	"github.com/abhisek/dpt/internal/router"
	"github.com/abhisek/dpt/internal/screen/screentest"
)

func typeText(s *SetupScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

// selectKind moves the provider selector until kind is selected.
func selectKind(t *testing.T, s *SetupScreen, kind llm.Kind) {
	t.Helper()
	for range s.kinds {
		if s.selectedKind() == kind {
			return
		}
		s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	}
	t.Fatalf("provider %s not selectable", kind)
}

func TestDefaultsToFirstProvider(t *testing.T) {
	s := New(screentest.Deps(t, llm.NewMockProvider(), false))
	if s.selectedKind() != llm.KindAnthropic {
		t.Errorf("expected Claude preselected, got %s", s.selectedKind())
	}
	if !strings.Contains(s.View(100, 30), "ANTHROPIC_API_KEY") {
		t.Error("expected env var hint for Claude")
	}
}

func TestPreselectsCurrentBinding(t *testing.T) {
	s := New(screentest.Deps(t, llm.NewMockProvider(), true))
	if s.selectedKind() != llm.KindMock {
		t.Errorf("expected bound provider preselected, got %s", s.selectedKind())
	}
}

func TestChangingProviderClearsKey(t *testing.T) {
	s := New(screentest.Deps(t, llm.NewMockProvider(), false))
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	typeText(s, "sk-abc")
	if s.key.Value() != "sk-abc" {
		t.Fatalf("expected typed key, got %q", s.key.Value())
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if s.selectedKind() != llm.KindOpenAI {
		t.Fatalf("expected ChatGPT, got %s", s.selectedKind())
	}
	if s.key.Value() != "" {
		t.Error("expected key cleared after provider change")
	}
}

func TestConnectValidKeyBindsAndPops(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "Hello"})
	deps := screentest.Deps(t, mock, false)
	s := New(deps)

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	typeText(s, "sk-good")

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !s.busy {
		t.Fatal("expected busy while binding")
	}
	msg, ok := screentest.Find[boundMsg](screentest.Drain(cmd))
	if !ok {
		t.Fatal("expected boundMsg from connect command")
	}
	if msg.Err != nil {
		t.Fatalf("unexpected bind error: %v", msg.Err)
	}
	if !deps.State.Bound() || deps.State.Binding.Source != llm.SourceEntered {
		t.Fatalf("expected binding from entered key, got %+v", deps.State.Binding)
	}

	_, cmd = s.Update(msg)
	if s.busy {
		t.Error("expected busy cleared")
	}
	if _, ok := screentest.Find[router.PopScreenMsg](screentest.Drain(cmd)); !ok {
		t.Error("expected screen to pop after binding")
	}
}

func TestConnectRejectedKeyShowsProviderMessage(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrCredentialRejected{Provider: "Claude", Err: errors.New("invalid x-api-key")},
	})
	deps := screentest.Deps(t, mock, false)
	s := New(deps)

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	typeText(s, "sk-bad")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	msg, _ := screentest.Find[boundMsg](screentest.Drain(cmd))

	_, cmd = s.Update(msg)
	if cmd != nil {
		t.Error("rejected key must not leave the screen")
	}
	if deps.State.Bound() {
		t.Error("state must stay unbound")
	}
	if !strings.Contains(s.errMsg, "invalid x-api-key") {
		t.Errorf("expected provider message, got %q", s.errMsg)
	}
	if s.key.Value() != "" {
		t.Error("expected key cleared after rejection")
	}
}

func TestConnectWithoutKeyOrEnv(t *testing.T) {
	mock := llm.NewMockProvider()
	s := New(screentest.Deps(t, mock, false))

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	msg, _ := screentest.Find[boundMsg](screentest.Drain(cmd))
	s.Update(msg)

	if mock.CallCount() != 0 {
		t.Errorf("no credential check expected without a key, got %d calls", mock.CallCount())
	}
	if !strings.Contains(s.errMsg, "API key") {
		t.Errorf("unexpected message %q", s.errMsg)
	}
}

func TestConnectMockNeedsNoKey(t *testing.T) {
	deps := screentest.Deps(t, llm.NewMockProvider(), false)
	s := New(deps)
	selectKind(t, s, llm.KindMock)
	if !strings.Contains(s.View(100, 30), "No key needed") {
		t.Error("expected demo hint")
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	msg, _ := screentest.Find[boundMsg](screentest.Drain(cmd))
	if msg.Err != nil {
		t.Fatalf("unexpected error: %v", msg.Err)
	}
	if !deps.State.Bound() {
		t.Error("expected mock binding")
	}
}

func TestKeysIgnoredWhileBusy(t *testing.T) {
	s := New(screentest.Deps(t, llm.NewMockProvider(), false))
	s.busy = true
	s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if s.selectedKind() != llm.KindAnthropic {
		t.Error("selection changed while busy")
	}
	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("enter while busy must not start another bind")
	}
}
