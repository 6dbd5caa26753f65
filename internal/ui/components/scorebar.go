package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/dpt/internal/exercise"
	"github.com/abhisek/dpt/internal/ui/theme"
)

// MaxScore is the top of the review scale.
const MaxScore = exercise.MaxScore

// ScoreBar displays a review score as a segmented bar followed by "n/5".
type ScoreBar struct {
	Score int
	Width int
}

// NewScoreBar creates a score bar. Scores outside 0..MaxScore are clamped.
func NewScoreBar(score, width int) ScoreBar {
	return ScoreBar{Score: score, Width: width}
}

// View renders the score bar.
func (s ScoreBar) View() string {
	score := s.Score
	if score < 0 {
		score = 0
	}
	if score > MaxScore {
		score = MaxScore
	}

	label := fmt.Sprintf("  %d/%d", score, MaxScore)
	segWidth := (s.Width - lipgloss.Width(label)) / MaxScore
	if segWidth < 2 {
		segWidth = 2
	}

	fill := theme.ScoreFilled
	switch {
	case score <= 2:
		fill = fill.Background(theme.Error)
	case score == 3:
		fill = fill.Background(theme.Warning)
	case score >= 4:
		fill = fill.Background(theme.Success)
	}

	var b strings.Builder
	for i := range MaxScore {
		seg := strings.Repeat(" ", segWidth-1)
		if i < score {
			b.WriteString(fill.Render(seg))
		} else {
			b.WriteString(theme.ScoreEmpty.Render(seg))
		}
		b.WriteString(" ")
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(label))
	return b.String()
}
