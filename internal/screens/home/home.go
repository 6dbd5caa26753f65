package home

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/dpt/internal/router"
	"github.com/abhisek/dpt/internal/screen"
	"github.com/abhisek/dpt/internal/screens/history"
	"github.com/abhisek/dpt/internal/screens/practice"
	"github.com/abhisek/dpt/internal/screens/setup"
	"github.com/abhisek/dpt/internal/session"
	"github.com/abhisek/dpt/internal/ui/components"
	"github.com/abhisek/dpt/internal/ui/theme"
)

type summaryMsg struct {
	Summary session.Summary
}

// HomeScreen is the main menu.
type HomeScreen struct {
	deps    screen.Deps
	menu    components.Menu
	summary session.Summary
}

var _ screen.Screen = (*HomeScreen)(nil)

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

// New creates a new HomeScreen.
func New(deps screen.Deps) *HomeScreen {
	items := []components.MenuItem{
		{Label: "Practice", Help: "Pick a pattern and solve a generated problem", Action: func() tea.Cmd {
			return push(practice.New(deps))
		}},
		{Label: "Connect provider", Help: "Choose Claude, ChatGPT, Gemini or OpenRouter and check your key", Action: func() tea.Cmd {
			return push(setup.New(deps))
		}},
		{Label: "History", Help: "LLM calls, token usage and scores for this session", Action: func() tea.Cmd {
			return push(history.New(deps))
		}},
		{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		deps: deps,
		menu: components.NewMenu(items),
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadSummary()
}

func (h *HomeScreen) loadSummary() tea.Cmd {
	deps := h.deps
	return func() tea.Msg {
		attempts, _ := deps.Tutor.Attempts(context.Background(), deps.State)
		return summaryMsg{Summary: session.BuildSummary(deps.State, attempts, time.Now())}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryMsg:
		h.summary = msg.Summary
		return h, nil
	case screen.ResumedMsg:
		return h, h.loadSummary()
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if cw > 70 {
		cw = 70
	}

	title := theme.Title.Width(cw).Render("Design Pattern Trainer")
	subtitle := theme.Subtitle.Width(cw).Render("Generate a Python exercise, solve it, get it reviewed.")

	sections := []string{
		title,
		subtitle,
		"",
		components.Panel("Status", h.renderStatus(), cw, false),
		"",
		components.Panel("", h.menu.View(), cw, true),
	}
	return components.Centered(strings.Join(sections, "\n"), width, height)
}

func (h *HomeScreen) renderStatus() string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	provider := theme.Fail.Render("not connected")
	if h.deps.State.Bound() {
		provider = theme.Pass.Render(h.deps.State.Status())
	}

	sum := h.summary
	stats := fmt.Sprintf("%s %d   %s %d", dim.Render("Problems"), sum.Generated, dim.Render("Reviews"), sum.Reviewed)
	if sum.BestScore > 0 {
		stats += fmt.Sprintf("   %s %d/5", dim.Render("Best"), sum.BestScore)
	}

	current := dim.Render("No exercise yet")
	if ex := h.deps.State.Exercise; ex != nil {
		current = fmt.Sprintf("%s %s · %s · %s", dim.Render("Current"), ex.Request.Pattern, ex.Request.Difficulty, ex.Request.Topic)
	}

	return dim.Render("Provider ") + provider + "\n" + stats + "\n" + current
}

func (h *HomeScreen) Title() string {
	return "Home"
}
