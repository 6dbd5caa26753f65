package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/dpt/internal/router"
	"github.com/abhisek/dpt/internal/screen"
	"github.com/abhisek/dpt/internal/ui/theme"
)

const (
	tickInterval = 50 * time.Millisecond
	bannerAt     = 300 * time.Millisecond
	totalDur     = 1500 * time.Millisecond
)

// Tagline is typed out under the banner.
const Tagline = "Design Pattern Trainer: practice patterns in Python"

const snippetArt = `class Trainer:
    _instance = None

    def __new__(cls):
        if cls._instance is None:
            cls._instance = super().__new__(cls)
        return cls._instance`

var cursorFrames = []string{"█", " "}

type tickMsg time.Time

// WelcomeScreen shows a short splash before handing over to the home screen.
// Any key skips it.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by homeFactory.
func New(homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		homeFactory: homeFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	homeScreen := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: homeScreen}
	}
}

// typed returns the prefix of the tagline revealed so far.
func (w *WelcomeScreen) typed() string {
	if w.elapsed < bannerAt {
		return ""
	}
	span := totalDur - bannerAt
	n := int(int64(len(Tagline)) * int64(w.elapsed-bannerAt) / int64(span))
	if n > len(Tagline) {
		n = len(Tagline)
	}
	return Tagline[:n]
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	code := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Background(theme.BgCode).
		Padding(0, 2).
		Render(snippetArt)
	sections = append(sections, code)

	if w.elapsed >= bannerAt {
		sections = append(sections, "", RenderBanner(width), "")

		cursor := cursorFrames[w.tickCount/4%len(cursorFrames)]
		tagline := lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render(w.typed())
		sections = append(sections, tagline+lipgloss.NewStyle().Foreground(theme.Secondary).Render(cursor))
	}

	if w.elapsed >= totalDur {
		sections = append(sections, "", theme.Hint.Render("press any key to continue"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
