package exercise

import (
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/dpt/internal/catalog"
)

// Request selects the exercise to generate.
type Request struct {
	Pattern    string
	Difficulty catalog.Difficulty
	Topic      catalog.Topic
}

// Validate checks that every field names a catalog entry.
func (r Request) Validate() error {
	if _, ok := catalog.LookupPattern(r.Pattern); !ok {
		return fmt.Errorf("unknown pattern %q", r.Pattern)
	}
	if r.Difficulty.Rank() < 0 {
		return fmt.Errorf("unknown difficulty %q", r.Difficulty)
	}
	if _, err := catalog.ParseTopic(string(r.Topic)); err != nil {
		return err
	}
	return nil
}

// Exercise is a generated coding problem.
type Exercise struct {
	Request Request

	// Text is the provider's response, verbatim. It is what gets shown to
	// the user and what a later review is graded against.
	Text string

	// Problem and Requirements are parsed from Text on a best-effort basis.
	// Either may be empty when the response ignores the requested layout.
	Problem      string
	Requirements []string

	Model     string
	CreatedAt time.Time
}

// FromText builds an Exercise from a problem statement, parsing out the
// problem and requirements sections.
func FromText(req Request, text, model string) *Exercise {
	problem, reqs := ParseExercise(text)
	return &Exercise{
		Request:      req,
		Text:         text,
		Problem:      problem,
		Requirements: reqs,
		Model:        model,
		CreatedAt:    time.Now(),
	}
}

// ReviewRequest is a solution to be graded. Code must already parse.
type ReviewRequest struct {
	Pattern string
	Code    string
	Problem string
}

// Validate checks that the request is complete.
func (r ReviewRequest) Validate() error {
	if strings.TrimSpace(r.Pattern) == "" {
		return fmt.Errorf("pattern is required")
	}
	if strings.TrimSpace(r.Code) == "" {
		return fmt.Errorf("code is required")
	}
	if strings.TrimSpace(r.Problem) == "" {
		return fmt.Errorf("problem is required")
	}
	return nil
}

// Review scores run from MinScore to MaxScore.
const (
	MinScore = 1
	MaxScore = 5
)

// Review is the provider's critique of a solution.
type Review struct {
	// Raw is the full response text.
	Raw string

	// Score is 1..5 and only meaningful when Scored is true.
	Score  int
	Scored bool

	Suggestions string
	Model       string
}
