package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/dpt/internal/exercise"
	"github.com/abhisek/dpt/internal/screen"
	"github.com/abhisek/dpt/internal/session"
	"github.com/abhisek/dpt/internal/syntaxgate"
	"github.com/abhisek/dpt/internal/ui/components"
	"github.com/abhisek/dpt/internal/ui/layout"
	"github.com/abhisek/dpt/internal/ui/theme"
)

const indent = "    "

// resultHeight is the number of lines reserved under the editor for the
// review or diagnostic.
const resultHeight = 9

type reviewedMsg struct {
	Review *exercise.Review
	Err    error
}

// EditorScreen is where the solution to the current exercise is written
// and submitted for review.
type EditorScreen struct {
	deps        screen.Deps
	exercise    *exercise.Exercise
	area        textarea.Model
	spinner     spinner.Model
	busy        bool
	review      *exercise.Review
	diagnostic  string
	errMsg      string
	showProblem bool
	problem     components.ScrollPane
	result      components.ScrollPane
}

var _ screen.Screen = (*EditorScreen)(nil)
var _ screen.KeyHintProvider = (*EditorScreen)(nil)
var _ screen.BusyReporter = (*EditorScreen)(nil)

// New creates an editor for ex with an empty draft.
func New(deps screen.Deps, ex *exercise.Exercise) *EditorScreen {
	ta := textarea.New()
	ta.Placeholder = "# Write your Python solution here"
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Focus()

	return &EditorScreen{
		deps:     deps,
		exercise: ex,
		area:     ta,
		spinner:  spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		problem:  components.NewScrollPane(),
		result:   components.NewScrollPane(),
	}
}

func (e *EditorScreen) Init() tea.Cmd {
	return nil
}

func (e *EditorScreen) Title() string {
	return e.exercise.Request.Pattern + " Solution"
}

// Busy reports whether a review is in flight. Its result is delivered to
// this screen, so the app keeps it on top until then.
func (e *EditorScreen) Busy() bool {
	return e.busy
}

func (e *EditorScreen) KeyHints() []layout.KeyHint {
	var hints []layout.KeyHint
	if e.showProblem {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+P", Description: "Back to code"})
		if e.problem.Scrollable() {
			hints = append(hints, layout.KeyHint{Key: components.ScrollHint, Description: "Scroll"})
		}
	} else {
		hints = append(hints,
			layout.KeyHint{Key: "Ctrl+S", Description: "Submit for review"},
			layout.KeyHint{Key: "Ctrl+P", Description: "Show problem"},
			layout.KeyHint{Key: "Tab", Description: "Indent"},
		)
		if e.result.Scrollable() {
			hints = append(hints, layout.KeyHint{Key: components.ScrollHint, Description: "Scroll review"})
		}
	}
	if !e.busy {
		hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	return hints
}

// Code returns the current draft.
func (e *EditorScreen) Code() string {
	return e.area.Value()
}

// SetCode replaces the draft.
func (e *EditorScreen) SetCode(code string) {
	e.area.SetValue(code)
}

func (e *EditorScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case reviewedMsg:
		e.busy = false
		e.handleReviewed(msg)
		return e, nil

	case spinner.TickMsg:
		if !e.busy {
			return e, nil
		}
		var cmd tea.Cmd
		e.spinner, cmd = e.spinner.Update(msg)
		return e, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+s":
			return e, e.submit()
		case "ctrl+p":
			e.showProblem = !e.showProblem
			return e, nil
		case "tab":
			if !e.showProblem {
				e.area.InsertString(indent)
			}
			return e, nil
		case "pgdown", "pgup":
			if e.showProblem {
				e.problem.Scroll(msg.String())
			} else {
				e.result.Scroll(msg.String())
			}
			return e, nil
		}
		if e.showProblem {
			return e, nil
		}
	}

	var cmd tea.Cmd
	e.area, cmd = e.area.Update(msg)
	return e, cmd
}

func (e *EditorScreen) handleReviewed(msg reviewedMsg) {
	e.result.GotoTop()
	if msg.Err == nil {
		e.review = msg.Review
		e.diagnostic = ""
		e.errMsg = ""
		return
	}

	var se *syntaxgate.SyntaxError
	if errors.As(msg.Err, &se) {
		e.diagnostic = se.Error()
		e.errMsg = ""
		return
	}
	e.diagnostic = ""
	e.errMsg = session.Describe(msg.Err)
}

// submit runs the syntax gate and review in the background. Only one
// submission is in flight at a time.
func (e *EditorScreen) submit() tea.Cmd {
	if e.busy {
		return nil
	}
	e.busy = true
	e.errMsg = ""

	code := e.area.Value()
	deps := e.deps
	return tea.Batch(e.spinner.Tick, func() tea.Msg {
		review, err := deps.Tutor.Submit(context.Background(), deps.State, code)
		return reviewedMsg{Review: review, Err: err}
	})
}

func (e *EditorScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	if e.showProblem {
		e.problem.SetContent(theme.Body.Width(cw - 4).Render(e.exercise.Text))
		e.problem.SetSize(cw-4, height-4)
		return lipgloss.PlaceHorizontal(width, lipgloss.Center,
			components.Panel("Exercise", e.problem.View(), cw, true))
	}

	header := e.renderProblemLine(cw)
	result := e.renderResult(cw)

	editorHeight := height - lipgloss.Height(header) - lipgloss.Height(result) - 3
	if editorHeight < 3 {
		editorHeight = 3
	}
	e.area.SetWidth(cw)
	e.area.SetHeight(editorHeight)

	code := theme.CodePanel.Render(e.area.View())
	content := lipgloss.JoinVertical(lipgloss.Left, header, code, result)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
}

func (e *EditorScreen) renderProblemLine(cw int) string {
	problem := e.exercise.Problem
	if problem == "" {
		problem = strings.SplitN(strings.TrimSpace(e.exercise.Text), "\n", 2)[0]
	}
	meta := fmt.Sprintf("%s · %s · %s", e.exercise.Request.Pattern, e.exercise.Request.Difficulty, e.exercise.Request.Topic)
	return theme.Label.Render(meta) + "\n" +
		lipgloss.NewStyle().Foreground(theme.Text).Width(cw).MaxHeight(2).Render(problem)
}

func (e *EditorScreen) renderResult(cw int) string {
	var body string
	switch {
	case e.busy:
		body = theme.Busy.Render(e.spinner.View() + " Checking syntax and asking for a review...")
	case e.diagnostic != "":
		body = theme.Fail.Render("Syntax error") + "\n" +
			lipgloss.NewStyle().Foreground(theme.Text).Width(cw-4).Render(e.diagnostic) + "\n" +
			theme.Hint.Render("Fix the syntax before submitting for review.")
	case e.errMsg != "":
		body = lipgloss.NewStyle().Foreground(theme.Error).Width(cw - 4).Render(e.errMsg)
	case e.review != nil:
		body = renderReview(e.review, cw-4)
	default:
		body = theme.Hint.Render("Press Ctrl+S to check your solution.")
	}
	e.result.SetContent(body)
	e.result.SetSize(cw-4, resultHeight-3)
	return components.Panel("Review", e.result.View(), cw, false)
}

func renderReview(r *exercise.Review, width int) string {
	if !r.Scored {
		return lipgloss.NewStyle().Foreground(theme.Text).Width(width).Render(r.Raw)
	}
	suggestions := r.Suggestions
	if suggestions == "" {
		suggestions = r.Raw
	}
	return components.NewScoreBar(r.Score, width/2).View() + "\n" +
		lipgloss.NewStyle().Foreground(theme.Text).Width(width).Render(suggestions)
}
