package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/dpt/internal/ui/theme"
)

// ContentWidth returns the inner width used for the stacked panels of a
// screen, so that they line up with each other.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 100 {
		w = 100
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Panel wraps content in a titled rounded-border box at the given width.
func Panel(title, content string, width int, focused bool) string {
	border := theme.Border
	if focused {
		border = theme.Primary
	}
	body := content
	if title != "" {
		body = theme.Label.Render(title) + "\n" + content
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(width).
		Padding(0, 1).
		Render(body)
}

// Centered places content in the middle of a width x height area.
func Centered(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
