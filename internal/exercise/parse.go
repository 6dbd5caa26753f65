package exercise

import (
	"regexp"
	"strconv"
	"strings"
)

// decoration is stripped from section headers so "**Problem:**" and
// "## Problem:" are recognized too.
const decoration = " \t*#_"

// ParseExercise splits generated text into its problem statement and
// requirement bullets. Sections that are absent yield empty values.
func ParseExercise(text string) (problem string, requirements []string) {
	const (
		none = iota
		inProblem
		inRequirements
	)

	var problemLines []string
	state := none

	for _, line := range strings.Split(text, "\n") {
		if rest, ok := cutHeader(line, "problem"); ok {
			state = inProblem
			if rest != "" {
				problemLines = append(problemLines, rest)
			}
			continue
		}
		if rest, ok := cutHeader(line, "requirements"); ok {
			state = inRequirements
			if rest != "" {
				requirements = append(requirements, rest)
			}
			continue
		}

		switch state {
		case inProblem:
			problemLines = append(problemLines, line)
		case inRequirements:
			if item, ok := cutBullet(line); ok {
				requirements = append(requirements, item)
			}
		}
	}

	problem = strings.TrimSpace(strings.Join(problemLines, "\n"))
	return problem, requirements
}

// cutHeader reports whether line is a "<name>:" section header and returns
// any text that follows the colon on the same line.
func cutHeader(line, name string) (string, bool) {
	s := strings.TrimLeft(line, decoration)
	if len(s) < len(name) || !strings.EqualFold(s[:len(name)], name) {
		return "", false
	}
	s = strings.TrimLeft(s[len(name):], decoration)
	if !strings.HasPrefix(s, ":") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimLeft(s[1:], decoration)), true
}

var numberedBullet = regexp.MustCompile(`^\d+[.)]\s+`)

func cutBullet(line string) (string, bool) {
	s := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(s, "- "), strings.HasPrefix(s, "* "), strings.HasPrefix(s, "• "):
		_, item, _ := strings.Cut(s, " ")
		item = strings.TrimSpace(item)
		return item, item != ""
	case numberedBullet.MatchString(s):
		item := strings.TrimSpace(numberedBullet.ReplaceAllString(s, ""))
		return item, item != ""
	}
	return "", false
}

var (
	scoreLine    = regexp.MustCompile(`(?im)^[\s*#_]*score[\s*_]*:[\s*_\[]*(\d+)`)
	scoreFrac    = regexp.MustCompile(`\b(\d+)\s*/\s*5\b`)
	suggestsLine = regexp.MustCompile(`(?im)^[\s*#_]*suggestions[\s*_]*:`)
)

// ParseReview extracts the score and suggestions from a review. The score
// is taken from the first "Score:" line holding an integer in 1..5, or
// failing that the first "n/5" fraction. A response with neither is
// returned unscored with Raw intact.
func ParseReview(text string) Review {
	r := Review{Raw: text}

	for _, m := range scoreLine.FindAllStringSubmatch(text, -1) {
		if n, ok := validScore(m[1]); ok {
			r.Score, r.Scored = n, true
			break
		}
	}
	if !r.Scored {
		for _, m := range scoreFrac.FindAllStringSubmatch(text, -1) {
			if n, ok := validScore(m[1]); ok {
				r.Score, r.Scored = n, true
				break
			}
		}
	}

	if loc := suggestsLine.FindStringIndex(text); loc != nil {
		r.Suggestions = strings.TrimSpace(strings.TrimLeft(text[loc[1]:], decoration))
	}

	return r
}

func validScore(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < MinScore || n > MaxScore {
		return 0, false
	}
	return n, true
}
