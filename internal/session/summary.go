package session

import (
	"time"

	"github.com/abhisek/dpt/internal/store"
)

// Summary aggregates a session's attempts.
type Summary struct {
	Duration       time.Duration
	Generated      int
	Reviewed       int
	SyntaxRejected int
	Failed         int
	BestScore      int
	AverageScore   float64
}

// BuildSummary creates a Summary for st from its recorded attempts.
func BuildSummary(st *State, attempts []store.AttemptEvent, now time.Time) Summary {
	s := Summary{Duration: now.Sub(st.StartedAt)}

	var scored, total int
	for _, a := range attempts {
		switch {
		case a.Kind == store.AttemptGenerate && a.ErrorMessage == "":
			s.Generated++
		case a.Kind == store.AttemptReview && !a.SyntaxOK:
			s.SyntaxRejected++
		case a.Kind == store.AttemptReview && a.ErrorMessage == "":
			s.Reviewed++
			if a.Scored {
				scored++
				total += a.Score
				s.BestScore = max(s.BestScore, a.Score)
			}
		default:
			s.Failed++
		}
	}

	if scored > 0 {
		s.AverageScore = float64(total) / float64(scored)
	}
	return s
}
