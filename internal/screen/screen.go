package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/dpt/internal/session"
	"github.com/abhisek/dpt/internal/store"
	"github.com/abhisek/dpt/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// BusyReporter is an optional interface for screens that wait on a
// background result addressed to them. While Busy is true the app does not
// navigate away from the screen.
type BusyReporter interface {
	Busy() bool
}

// ResumedMsg is delivered to a screen when the screen above it is popped.
type ResumedMsg struct{}

// Deps are the session-scoped collaborators every screen may use.
type Deps struct {
	Tutor  *session.Tutor
	State  *session.State
	Events store.EventRepo
}
