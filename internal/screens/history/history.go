package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/dpt/internal/router"
	"github.com/abhisek/dpt/internal/screen"
	"github.com/abhisek/dpt/internal/session"
	"github.com/abhisek/dpt/internal/store"
	"github.com/abhisek/dpt/internal/ui/components"
	"github.com/abhisek/dpt/internal/ui/layout"
	"github.com/abhisek/dpt/internal/ui/theme"
	"github.com/abhisek/dpt/internal/usage"
)

// maxEvents caps the call list.
const maxEvents = 50

type historyLoadedMsg struct {
	Events  []store.LLMEvent
	Report  *usage.Report
	Summary session.Summary
	Err     error
}

// HistoryScreen shows this session's attempts and every LLM call made so
// far, with token usage and estimated cost.
type HistoryScreen struct {
	deps     screen.Deps
	events   []store.LLMEvent
	report   *usage.Report
	summary  session.Summary
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string

	pane components.ScrollPane
	// follow brings the selected call into view on the next render.
	follow bool
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(deps screen.Deps) *HistoryScreen {
	return &HistoryScreen{
		deps:     deps,
		expanded: make(map[int]bool),
		pane:     components.NewScrollPane(),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	deps := s.deps
	return func() tea.Msg {
		ctx := context.Background()

		events, err := deps.Events.QueryLLMEvents(ctx, store.QueryOpts{Limit: maxEvents})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		report, err := usage.Build(ctx, deps.Events)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		attempts, err := deps.Tutor.Attempts(ctx, deps.State)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}

		return historyLoadedMsg{
			Events:  events,
			Report:  report,
			Summary: session.BuildSummary(deps.State, attempts, time.Now()),
		}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
	}
	if s.pane.Scrollable() {
		hints = append(hints, layout.KeyHint{Key: components.ScrollHint, Description: "Scroll"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.events = msg.Events
			s.report = msg.Report
			s.summary = msg.Summary
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			s.follow = true
			return s, nil
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
			s.follow = true
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			s.follow = true
			return s, nil
		case "pgdown", "pgup":
			s.pane.Scroll(msg.String())
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}

	cw := components.ContentWidth(width)
	summary := components.Panel("This session", s.renderSummary(), cw, false)
	sections := []string{summary}

	// Line of the selected call within the pane: the summary panel, then
	// the calls panel's top border and title.
	selLine := lipgloss.Height(summary) + 2
	if len(s.events) == 0 {
		sections = append(sections, lipgloss.NewStyle().
			Width(cw).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("No LLM calls yet. Generate a problem to get started!"))
	} else {
		events, line := s.renderEvents(cw - 4)
		selLine += line
		sections = append(sections, components.Panel("LLM calls", events, cw, false))
	}

	s.pane.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))
	s.pane.SetSize(cw, height)
	if s.follow {
		s.pane.EnsureVisible(selLine)
		s.follow = false
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s.pane.View())
}

func (s *HistoryScreen) renderSummary() string {
	sum := s.summary
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	val := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)

	line1 := fmt.Sprintf("%s %s   %s %s   %s %s   %s %s",
		dim.Render("Time"), val.Render(formatDuration(sum.Duration)),
		dim.Render("Problems"), val.Render(fmt.Sprint(sum.Generated)),
		dim.Render("Reviews"), val.Render(fmt.Sprint(sum.Reviewed)),
		dim.Render("Syntax rejected"), val.Render(fmt.Sprint(sum.SyntaxRejected)),
	)

	scores := dim.Render("No scored reviews yet")
	if sum.BestScore > 0 {
		scores = fmt.Sprintf("%s %s   %s %s",
			dim.Render("Best"), theme.Pass.Render(fmt.Sprintf("%d/5", sum.BestScore)),
			dim.Render("Average"), val.Render(fmt.Sprintf("%.1f", sum.AverageScore)),
		)
	}
	if sum.Failed > 0 {
		scores += "   " + dim.Render("Failed") + " " + theme.Fail.Render(fmt.Sprint(sum.Failed))
	}

	lines := []string{line1, scores}
	if r := s.report; r != nil && r.Calls > 0 {
		cost := usage.FormatCost(r.Cost)
		if r.Partial() {
			cost += " (partial)"
		}
		lines = append(lines, fmt.Sprintf("%s %s   %s %s   %s %s",
			dim.Render("LLM calls"), val.Render(fmt.Sprint(r.Calls)),
			dim.Render("Tokens"), val.Render(fmt.Sprintf("%d in / %d out", r.InputTokens, r.OutputTokens)),
			dim.Render("Est. cost"), val.Render(cost),
		))
	}
	return strings.Join(lines, "\n")
}

// renderEvents lists the calls and returns the line the selected one is on.
func (s *HistoryScreen) renderEvents(width int) (string, int) {
	var b strings.Builder
	selLine := 0
	for i, e := range s.events {
		if i == s.selected {
			selLine = strings.Count(b.String(), "\n")
		}
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		ok := theme.Pass.Render("✓")
		if !e.Success {
			ok = theme.Fail.Render("✗")
		}

		line := fmt.Sprintf("%s%s  %-16s  %-24s  %5d in  %5d out  %6dms ",
			prefix,
			e.Timestamp.Local().Format("15:04:05"),
			usage.Truncate(e.Purpose, 16),
			usage.Truncate(e.Model, 24),
			e.InputTokens, e.OutputTokens, e.LatencyMs)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(style.Render(line) + ok + "\n")

		if s.expanded[i] {
			b.WriteString(renderDetail(e, width))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n"), selLine
}

func renderDetail(e store.LLMEvent, width int) string {
	detail := lipgloss.NewStyle().Foreground(theme.TextDim).Width(width - 4).PaddingLeft(4)
	if e.ErrorMessage != "" {
		return detail.Foreground(theme.Error).Render(e.ErrorMessage)
	}
	body := e.ResponseBody
	if body == "" {
		body = "(response not captured)"
	}
	return detail.Render(body)
}

func formatDuration(d time.Duration) string {
	secs := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
