package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/dpt/internal/llm"
	"github.com/abhisek/dpt/internal/router"
	"github.com/abhisek/dpt/internal/screen/screentest"
	"github.com/abhisek/dpt/internal/screens/editor"
	"github.com/abhisek/dpt/internal/screens/home"
	"github.com/abhisek/dpt/internal/screens/practice"
	"github.com/abhisek/dpt/internal/screens/welcome"
)

func newTestModel(t *testing.T, skipWelcome bool) AppModel {
	t.Helper()
	deps := screentest.Deps(t, llm.NewMockProvider(), false)
	return newAppModel(Options{
		Tutor:       deps.Tutor,
		State:       deps.State,
		Events:      deps.Events,
		SkipWelcome: skipWelcome,
	})
}

func sized(m AppModel, w, h int) AppModel {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return updated.(AppModel)
}

func TestStartsOnWelcome(t *testing.T) {
	m := newTestModel(t, false)
	if _, ok := m.router.Active().(*welcome.WelcomeScreen); !ok {
		t.Fatalf("expected welcome screen, got %T", m.router.Active())
	}
	if m.Init() == nil {
		t.Error("expected the welcome animation to start")
	}
}

func TestWelcomeHandsOverToHome(t *testing.T) {
	m := newTestModel(t, false)
	updated, cmd := m.Update(tea.KeyPressMsg{Code: ' '})
	m = updated.(AppModel)
	if cmd == nil {
		t.Fatal("expected transition command")
	}
	m.Update(cmd())
	if _, ok := m.router.Active().(*home.HomeScreen); !ok {
		t.Errorf("expected home screen, got %T", m.router.Active())
	}
	if m.router.Depth() != 1 {
		t.Errorf("depth = %d, want 1", m.router.Depth())
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newTestModel(t, true)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg, got %T", cmd())
	}
}

func TestEscPopsOnlyAboveHome(t *testing.T) {
	m := newTestModel(t, true)
	if _, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape}); cmd != nil {
		t.Error("esc on the home screen should do nothing")
	}

	m.Update(router.PushScreenMsg{Screen: home.New(screentest.Deps(t, llm.NewMockProvider(), false))})
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
}

func TestViewShowsBindingStatus(t *testing.T) {
	m := sized(newTestModel(t, true), 100, 30)
	content := m.render()
	if !strings.Contains(content, "not connected") {
		t.Errorf("expected unbound status in header:\n%s", content)
	}
	if !strings.Contains(content, "Practice") {
		t.Errorf("expected home menu:\n%s", content)
	}
}

func TestViewTooSmall(t *testing.T) {
	m := sized(newTestModel(t, true), 40, 10)
	if !strings.Contains(m.render(), "Terminal too small") {
		t.Error("expected minimum size message")
	}
}

func TestReviewSurvivesEscWhileInFlight(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "Problem: Keep one configuration object.\nRequirements:\n- Only one instance"},
		llm.MockResponse{Text: "Score: 4\nSuggestions: Use a lock around creation."},
		llm.MockResponse{Text: "Score: 5\nSuggestions: Done."},
	)
	deps := screentest.Deps(t, mock, true)
	m := sized(newAppModel(Options{
		Tutor:       deps.Tutor,
		State:       deps.State,
		Events:      deps.Events,
		SkipWelcome: true,
	}), 100, 30)

	send := func(msg tea.Msg) tea.Cmd {
		updated, cmd := m.Update(msg)
		m = updated.(AppModel)
		return cmd
	}
	deliver := func(cmd tea.Cmd) {
		for _, msg := range screentest.Drain(cmd) {
			send(msg)
		}
	}

	deliver(send(router.PushScreenMsg{Screen: practice.New(deps)}))
	deliver(send(tea.KeyPressMsg{Code: 'g', Text: "g"}))
	deliver(send(tea.KeyPressMsg{Code: 'e', Text: "e"}))

	ed, ok := m.router.Active().(*editor.EditorScreen)
	if !ok {
		t.Fatalf("expected editor, got %T", m.router.Active())
	}
	ed.SetCode("class Config:\n    pass\n")

	ctrlS := tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl}
	review := send(ctrlS)
	if review == nil {
		t.Fatal("expected submit command")
	}

	if cmd := send(tea.KeyPressMsg{Code: tea.KeyEscape}); cmd != nil {
		t.Error("esc should be ignored while a review is in flight")
	}
	send(router.PopScreenMsg{})
	if m.router.Active() != ed {
		t.Fatalf("editor should stay on top while busy, got %T", m.router.Active())
	}

	deliver(review)
	if ed.Busy() {
		t.Fatal("editor should be idle once the review arrives")
	}
	if content := m.render(); !strings.Contains(content, "4/5") {
		t.Errorf("expected the review in the frame:\n%s", content)
	}
	if cmd := send(ctrlS); cmd == nil {
		t.Error("expected a second submission to start")
	}
}
