package setup

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/dpt/internal/llm"
	"github.com/abhisek/dpt/internal/router"
	"github.com/abhisek/dpt/internal/screen"
	"github.com/abhisek/dpt/internal/session"
	"github.com/abhisek/dpt/internal/ui/components"
	"github.com/abhisek/dpt/internal/ui/layout"
	"github.com/abhisek/dpt/internal/ui/theme"
)

const (
	focusProvider = iota
	focusKey
)

// boundMsg carries the outcome of a Bind started by this screen.
type boundMsg struct {
	Kind   llm.Kind
	Result llm.CredentialResult
	Err    error
}

// SetupScreen lets the user pick a provider and enter an API key. The key
// is validated with a test request before the session is bound to it.
type SetupScreen struct {
	deps     screen.Deps
	kinds    []llm.Kind
	provider components.Selector
	key      components.KeyInput
	focus    int
	spinner  spinner.Model
	busy     bool
	errMsg   string
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// New creates a SetupScreen. The current binding, if any, is preselected.
func New(deps screen.Deps) *SetupScreen {
	kinds := append(llm.Kinds(), llm.KindMock)
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.DisplayName()
	}

	current := ""
	if deps.State.Bound() {
		current = deps.State.Binding.Kind.DisplayName()
	}

	provider := components.NewSelector("Provider", names, current)
	provider.Focused = true

	return &SetupScreen{
		deps:     deps,
		kinds:    kinds,
		provider: provider,
		key:      components.NewKeyInput("paste an API key"),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (s *SetupScreen) Init() tea.Cmd {
	return nil
}

func (s *SetupScreen) Title() string {
	return "Connect"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	if s.busy {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{
		{Key: "←→", Description: "Provider"},
		{Key: "Tab", Description: "Switch field"},
		{Key: "Enter", Description: "Connect"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SetupScreen) selectedKind() llm.Kind {
	return s.kinds[s.provider.Selected]
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case boundMsg:
		s.busy = false
		if msg.Err != nil {
			s.errMsg = session.Describe(msg.Err)
			s.key.Reset()
			return s, nil
		}
		s.errMsg = ""
		return s, func() tea.Msg { return router.PopScreenMsg{} }

	case spinner.TickMsg:
		if !s.busy {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		return s.handleKey(msg)
	}

	if s.focus == focusKey {
		var cmd tea.Cmd
		s.key, cmd = s.key.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SetupScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return s, s.connect()
	case "tab", "shift+tab", "up", "down":
		s.toggleFocus()
		return s, nil
	}

	if s.focus == focusProvider {
		before := s.provider.Selected
		s.provider, _ = s.provider.Update(msg)
		if s.provider.Selected != before {
			s.key.Reset()
			s.errMsg = ""
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.key, cmd = s.key.Update(msg)
	return s, cmd
}

func (s *SetupScreen) toggleFocus() {
	if s.focus == focusProvider {
		s.focus = focusKey
	} else {
		s.focus = focusProvider
	}
	s.provider.Focused = s.focus == focusProvider
}

// connect starts a Bind in the background.
func (s *SetupScreen) connect() tea.Cmd {
	kind := s.selectedKind()
	key := s.key.Value()
	deps := s.deps

	s.busy = true
	s.errMsg = ""
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		res, err := deps.Tutor.Bind(context.Background(), deps.State, kind, key)
		return boundMsg{Kind: kind, Result: res, Err: err}
	})
}

// keyHint tells the user where a key will come from if they leave the
// field blank.
func (s *SetupScreen) keyHint() string {
	kind := s.selectedKind()
	if kind == llm.KindMock {
		return "Offline demo answers. No key needed."
	}
	env := kind.EnvKey()
	if len(s.deps.Tutor.Candidates(kind, "")) > 0 {
		return fmt.Sprintf("Leave blank to use $%s, which is set.", env)
	}
	return fmt.Sprintf("Paste a key, or set $%s and leave this blank.", env)
}

func (s *SetupScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(s.provider.View())
	b.WriteString("\n\n")

	keyLabel := lipgloss.NewStyle().Foreground(theme.TextDim).Width(12).Render("API key")
	prefix := "  "
	if s.focus == focusKey {
		keyLabel = lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Width(12).Render("API key")
		prefix = "▸ "
	}
	b.WriteString(prefix + keyLabel + s.key.View())
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("  " + s.keyHint()))
	b.WriteString("\n\n")

	switch {
	case s.busy:
		b.WriteString(theme.Busy.Render(s.spinner.View() + " Checking credential with " + s.selectedKind().DisplayName() + "..."))
	case s.errMsg != "":
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Width(cw - 4).Render(s.errMsg))
	case s.deps.State.Bound():
		b.WriteString(theme.Pass.Render("Connected: " + s.deps.State.Status()))
	}

	panel := components.Panel("Connect a model provider", b.String(), cw, true)
	return components.Centered(panel, width, height)
}
