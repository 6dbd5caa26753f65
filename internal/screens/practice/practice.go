package practice

import (
	"context"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/dpt/internal/catalog"
	"github.com/abhisek/dpt/internal/exercise"
	"github.com/abhisek/dpt/internal/router"
	"github.com/abhisek/dpt/internal/screen"
	"github.com/abhisek/dpt/internal/screens/editor"
	"github.com/abhisek/dpt/internal/screens/setup"
	"github.com/abhisek/dpt/internal/session"
	"github.com/abhisek/dpt/internal/ui/components"
	"github.com/abhisek/dpt/internal/ui/layout"
	"github.com/abhisek/dpt/internal/ui/theme"
)

// Focus order, top to bottom.
const (
	focusPattern = iota
	focusDifficulty
	focusTopic
	focusGenerate
	focusSolve
	focusCount
)

type generatedMsg struct {
	Exercise *exercise.Exercise
	Err      error
}

// PracticeScreen picks the pattern, difficulty and topic, generates an
// exercise and opens the editor for it.
type PracticeScreen struct {
	deps       screen.Deps
	pattern    components.Selector
	difficulty components.Selector
	topic      components.Selector
	generate   components.Button
	solve      components.Button
	focus      int
	spinner    spinner.Model
	busy       bool
	errMsg     string
	exercise   *exercise.Exercise
	editor     *editor.EditorScreen
	text       components.ScrollPane
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.BusyReporter = (*PracticeScreen)(nil)

// New creates a PracticeScreen preselected with the session's selection. An
// exercise already in the session is shown and can be solved.
func New(deps screen.Deps) *PracticeScreen {
	sel := deps.State.Selection

	difficulties := make([]string, 0, len(catalog.AllDifficulties()))
	for _, d := range catalog.AllDifficulties() {
		difficulties = append(difficulties, string(d))
	}
	topics := make([]string, 0, len(catalog.AllTopics()))
	for _, t := range catalog.AllTopics() {
		topics = append(topics, string(t))
	}

	p := &PracticeScreen{
		deps:       deps,
		pattern:    components.NewSelector("Pattern", catalog.PatternNames(), sel.Pattern),
		difficulty: components.NewSelector("Difficulty", difficulties, string(sel.Difficulty)),
		topic:      components.NewSelector("Topic", topics, string(sel.Topic)),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		text:       components.NewScrollPane(),
	}
	p.generate = components.NewButton("Generate problem", p.startGenerate)
	p.solve = components.NewButton("Write solution", p.openEditor)

	if ex := deps.State.Exercise; ex != nil {
		p.exercise = ex
		p.editor = editor.New(deps, ex)
	}
	p.setFocus(focusPattern)
	return p
}

func (p *PracticeScreen) Init() tea.Cmd {
	return nil
}

func (p *PracticeScreen) Title() string {
	return "Practice"
}

// Busy reports whether an exercise is being generated.
func (p *PracticeScreen) Busy() bool {
	return p.busy
}

func (p *PracticeScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "←→", Description: "Change"},
		{Key: "G", Description: "Generate"},
	}
	if p.exercise != nil {
		hints = append(hints, layout.KeyHint{Key: "E", Description: "Solve"})
	}
	if p.text.Scrollable() {
		hints = append(hints, layout.KeyHint{Key: components.ScrollHint, Description: "Scroll"})
	}
	if p.busy {
		return hints
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

// Request returns the currently selected triple.
func (p *PracticeScreen) Request() exercise.Request {
	return exercise.Request{
		Pattern:    p.pattern.Value(),
		Difficulty: catalog.Difficulty(p.difficulty.Value()),
		Topic:      catalog.Topic(p.topic.Value()),
	}
}

func (p *PracticeScreen) setFocus(f int) {
	p.focus = (f + focusCount) % focusCount
	p.pattern.Focused = p.focus == focusPattern
	p.difficulty.Focused = p.focus == focusDifficulty
	p.topic.Focused = p.focus == focusTopic
	p.generate.Focused = p.focus == focusGenerate
	p.solve.Focused = p.focus == focusSolve
	p.generate.Disabled = p.busy
	p.solve.Disabled = p.busy || p.exercise == nil
}

func (p *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case generatedMsg:
		p.busy = false
		if msg.Err != nil {
			p.errMsg = session.Describe(msg.Err)
		} else {
			p.errMsg = ""
			p.exercise = msg.Exercise
			p.editor = editor.New(p.deps, msg.Exercise)
			p.text.GotoTop()
		}
		p.setFocus(p.focus)
		return p, nil

	case spinner.TickMsg:
		if !p.busy {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd

	case tea.KeyMsg:
		return p.handleKey(msg)
	}
	return p, nil
}

func (p *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "up", "k", "shift+tab":
		p.setFocus(p.focus - 1)
		return p, nil
	case "down", "j", "tab":
		p.setFocus(p.focus + 1)
		return p, nil
	case "g":
		return p, p.startGenerate()
	case "e":
		return p, p.openEditor()
	case "pgdown", "pgup":
		p.text.Scroll(msg.String())
		return p, nil
	}

	var cmd tea.Cmd
	switch p.focus {
	case focusPattern:
		p.pattern, cmd = p.pattern.Update(msg)
	case focusDifficulty:
		p.difficulty, cmd = p.difficulty.Update(msg)
	case focusTopic:
		p.topic, cmd = p.topic.Update(msg)
	case focusGenerate:
		p.generate, cmd = p.generate.Update(msg)
	case focusSolve:
		p.solve, cmd = p.solve.Update(msg)
	}
	return p, cmd
}

// startGenerate asks for a new exercise in the background. Without a
// binding the user is sent to the connect screen instead.
func (p *PracticeScreen) startGenerate() tea.Cmd {
	if p.busy {
		return nil
	}
	if !p.deps.State.Bound() {
		next := setup.New(p.deps)
		return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	}

	p.busy = true
	p.errMsg = ""
	p.setFocus(p.focus)

	req := p.Request()
	deps := p.deps
	return tea.Batch(p.spinner.Tick, func() tea.Msg {
		ex, err := deps.Tutor.Generate(context.Background(), deps.State, req)
		return generatedMsg{Exercise: ex, Err: err}
	})
}

// openEditor pushes the editor for the current exercise. The same editor
// is reused so the draft survives going back and forth.
func (p *PracticeScreen) openEditor() tea.Cmd {
	if p.busy || p.editor == nil {
		return nil
	}
	ed := p.editor
	return func() tea.Msg { return router.PushScreenMsg{Screen: ed} }
}

func (p *PracticeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var top strings.Builder
	top.WriteString(p.pattern.View() + "\n")
	top.WriteString(p.difficulty.View() + "\n")
	top.WriteString(p.topic.View() + "\n\n")

	if pat, ok := catalog.LookupPattern(p.pattern.Value()); ok {
		top.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Width(cw - 4).Render(pat.Description))
		top.WriteString("\n")
		top.WriteString(theme.Link.Render(pat.URL))
		top.WriteString("\n\n")
	}

	top.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, p.generate.View(), "  ", p.solve.View()))

	switch {
	case p.busy:
		top.WriteString("\n" + theme.Busy.Render(p.spinner.View()+" Generating a "+p.pattern.Value()+" exercise..."))
	case p.errMsg != "":
		top.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Error).Width(cw-4).Render(p.errMsg))
	case !p.deps.State.Bound():
		top.WriteString("\n" + theme.Hint.Render("Not connected. Generating will ask for a provider first."))
	}

	header := components.Panel("", top.String(), cw, false)

	sections := []string{header}
	if p.exercise != nil {
		remaining := height - lipgloss.Height(header) - 4
		if remaining < 3 {
			remaining = 3
		}
		p.text.SetContent(lipgloss.NewStyle().Foreground(theme.Text).Width(cw - 4).Render(p.exercise.Text))
		p.text.SetSize(cw-4, remaining)
		sections = append(sections, components.Panel("Exercise", p.text.View(), cw, false))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.JoinVertical(lipgloss.Left, sections...))
}
