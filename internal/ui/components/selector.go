package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/dpt/internal/ui/theme"
)

// Selector picks one value out of a fixed list. Left/right cycle through
// the options while the selector is focused.
type Selector struct {
	Label    string
	Options  []string
	Selected int
	Focused  bool
}

// NewSelector creates a selector with current preselected when it is one
// of the options.
func NewSelector(label string, options []string, current string) Selector {
	s := Selector{Label: label, Options: options}
	for i, o := range options {
		if o == current {
			s.Selected = i
			break
		}
	}
	return s
}

// Update handles keyboard navigation.
func (s Selector) Update(msg tea.Msg) (Selector, tea.Cmd) {
	if !s.Focused || len(s.Options) == 0 {
		return s, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "left", "h":
		s.Selected = (s.Selected - 1 + len(s.Options)) % len(s.Options)
	case "right", "l":
		s.Selected = (s.Selected + 1) % len(s.Options)
	}

	return s, nil
}

// Value returns the selected option, or "" when there are none.
func (s Selector) Value() string {
	if s.Selected < 0 || s.Selected >= len(s.Options) {
		return ""
	}
	return s.Options[s.Selected]
}

// View renders the label followed by every option, the selected one
// highlighted.
func (s Selector) View() string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.TextDim).Width(12)
	prefix := "  "
	if s.Focused {
		labelStyle = labelStyle.Foreground(theme.Secondary).Bold(true)
		prefix = "▸ "
	}

	parts := make([]string, 0, len(s.Options))
	for i, opt := range s.Options {
		switch {
		case i == s.Selected && s.Focused:
			parts = append(parts, theme.ButtonActive.Padding(0, 1).Render(opt))
		case i == s.Selected:
			parts = append(parts, theme.Selected.Render("["+opt+"]"))
		default:
			parts = append(parts, lipgloss.NewStyle().Foreground(theme.TextDim).Render(opt))
		}
	}

	return prefix + labelStyle.Render(s.Label) + strings.Join(parts, "  ")
}
