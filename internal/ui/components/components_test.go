package components

import (
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

type pressedMsg struct{ label string }

func pressCmd(label string) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg { return pressedMsg{label} }
	}
}

func TestMenuSkipsDisabledItems(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "Off", Disabled: true},
		{Label: "One"},
		{Label: "Two", Disabled: true},
		{Label: "Three"},
	})
	if m.Selected != 1 {
		t.Fatalf("expected first enabled item selected, got %d", m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("expected down to skip disabled item, got %d", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 1 {
		t.Errorf("expected up to skip disabled item, got %d", m.Selected)
	}
}

func TestMenuEnterRunsAction(t *testing.T) {
	m := NewMenu([]MenuItem{{Label: "Go", Action: pressCmd("go")}})
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected command from enter")
	}
	if got, ok := cmd().(pressedMsg); !ok || got.label != "go" {
		t.Errorf("unexpected message %#v", cmd())
	}
}

func TestMenuDigitShortcut(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "A", Action: pressCmd("a")},
		{Label: "B", Action: pressCmd("b")},
	})
	m, cmd := m.Update(tea.KeyPressMsg{Code: '2', Text: "2"})
	if m.Selected != 1 {
		t.Errorf("expected selection to move to 1, got %d", m.Selected)
	}
	if cmd == nil || cmd().(pressedMsg).label != "b" {
		t.Error("expected digit to activate item B")
	}
}

func TestMenuViewShowsHelpForSelected(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "Practice", Help: "generate an exercise"},
		{Label: "Quit", Help: "leave"},
	})
	view := m.View()
	if !strings.Contains(view, "generate an exercise") {
		t.Error("expected help of selected item")
	}
	if strings.Contains(view, "leave") {
		t.Error("help of unselected item should be hidden")
	}
}

func TestSelectorCyclesWhenFocused(t *testing.T) {
	s := NewSelector("Pattern", []string{"A", "B", "C"}, "B")
	if s.Value() != "B" {
		t.Fatalf("expected preselected B, got %q", s.Value())
	}

	s, _ = s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if s.Value() != "B" {
		t.Error("unfocused selector should ignore keys")
	}

	s.Focused = true
	s, _ = s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	s, _ = s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if s.Value() != "A" {
		t.Errorf("expected wrap to A, got %q", s.Value())
	}
	s, _ = s.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	if s.Value() != "C" {
		t.Errorf("expected wrap back to C, got %q", s.Value())
	}
}

func TestSelectorUnknownCurrentDefaultsToFirst(t *testing.T) {
	s := NewSelector("Topic", []string{"x", "y"}, "z")
	if s.Value() != "x" {
		t.Errorf("expected first option, got %q", s.Value())
	}
	if empty := NewSelector("None", nil, ""); empty.Value() != "" {
		t.Errorf("expected empty value, got %q", empty.Value())
	}
}

func TestButtonDisabledIgnoresEnter(t *testing.T) {
	b := NewButton("Generate", pressCmd("gen"))
	b.Focused = true
	b.Disabled = true
	if _, cmd := b.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("disabled button should not fire")
	}
	b.Disabled = false
	if _, cmd := b.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd == nil {
		t.Error("focused button should fire on enter")
	}
}

func TestScoreBarLabel(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{4, "4/5"},
		{0, "0/5"},
		{9, "5/5"},
		{-1, "0/5"},
	}
	for _, tt := range tests {
		if got := NewScoreBar(tt.score, 40).View(); !strings.Contains(got, tt.want) {
			t.Errorf("score %d: expected %q in %q", tt.score, tt.want, got)
		}
	}
}

func TestKeyInputMasksValue(t *testing.T) {
	k := NewKeyInput("sk-...")
	k.Model.SetValue("sk-secret")
	if k.Value() != "sk-secret" {
		t.Fatalf("expected raw value, got %q", k.Value())
	}
	if strings.Contains(k.View(), "sk-secret") {
		t.Error("key must not be echoed")
	}
	k.Reset()
	if k.Value() != "" {
		t.Error("expected reset to clear the key")
	}
}

func TestScrollPanePages(t *testing.T) {
	var lines []string
	for i := 1; i <= 12; i++ {
		lines = append(lines, fmt.Sprintf("line %02d", i))
	}
	p := NewScrollPane()
	p.SetContent(strings.Join(lines, "\n"))
	p.SetSize(20, 5)

	if !p.Scrollable() {
		t.Fatal("expected twelve lines not to fit in five")
	}
	view := p.View()
	if !strings.Contains(view, "line 01") || strings.Contains(view, "line 12") {
		t.Errorf("expected only the top of the text:\n%s", view)
	}
	if !strings.Contains(view, ScrollHint) {
		t.Errorf("expected a scroll hint:\n%s", view)
	}

	for range 3 {
		if !p.Scroll("pgdown") {
			t.Fatal("pgdown should scroll")
		}
	}
	if view := p.View(); !strings.Contains(view, "line 12") {
		t.Errorf("expected the end of the text after paging:\n%s", view)
	}

	p.GotoTop()
	if view := p.View(); !strings.Contains(view, "line 01") {
		t.Errorf("expected the top again:\n%s", view)
	}
	if p.Scroll("down") {
		t.Error("only pgup and pgdown scroll the pane")
	}
}

func TestScrollPaneFitsShortText(t *testing.T) {
	p := NewScrollPane()
	p.SetContent("a\nb")
	p.SetSize(20, 5)

	if p.Scrollable() {
		t.Error("two lines fit in five")
	}
	if got := strings.Count(p.View(), "\n") + 1; got != 2 {
		t.Errorf("view height = %d, want 2", got)
	}
}
