package exercise

import (
	"strings"
	"testing"

	"github.com/abhisek/dpt/internal/catalog"
)

func TestBuildGenerationPrompt_EachSelectionOnce(t *testing.T) {
	for _, p := range catalog.PatternNames() {
		for _, d := range catalog.AllDifficulties() {
			for _, topic := range catalog.AllTopics() {
				prompt := BuildGenerationPrompt(p, string(d), string(topic))
				for _, want := range []string{p, string(d), string(topic)} {
					if n := strings.Count(prompt.User, want); n != 1 {
						t.Errorf("(%s, %s, %s): %q appears %d times", p, d, topic, want, n)
					}
				}
			}
		}
	}
}

func TestBuildGenerationPrompt_Layout(t *testing.T) {
	p := BuildGenerationPrompt("Singleton", "Easy", "Tech related")

	if p.System != "You are an expert Python developer specializing in design patterns." {
		t.Errorf("unexpected system prompt: %q", p.System)
	}
	if !strings.Contains(p.User, "implementing the Singleton design pattern") {
		t.Error("missing pattern sentence")
	}
	if !strings.Contains(p.User, "Problem: [Problem statement]") {
		t.Error("missing Problem layout")
	}
	if !strings.Contains(p.User, "Requirements:\n- [Requirement 1]") {
		t.Error("missing Requirements layout")
	}
}

func TestBuildReviewPrompt_EmbedsVerbatim(t *testing.T) {
	problem := "Problem: Build a logger.\nRequirements:\n- one instance"
	code := "class Logger:\n    _inst = None\n    fmt = '%s %d'\n"

	p := BuildReviewPrompt("Singleton", code, problem)

	if !strings.Contains(p.User, "Problem:\n"+problem+"\n") {
		t.Error("problem not embedded verbatim")
	}
	if !strings.Contains(p.User, "Code:\n"+code) {
		t.Error("code not embedded verbatim")
	}
	if !strings.Contains(p.User, "implements the Singleton design pattern") {
		t.Error("missing pattern")
	}
	if !strings.Contains(p.User, "Score: [1-5]\nSuggestions: [Your suggestions here]") {
		t.Error("missing response layout")
	}
	if !strings.Contains(p.User, "very critical but fair") {
		t.Error("missing grading tone")
	}
}
