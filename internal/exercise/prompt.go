package exercise

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are an expert Python developer specializing in design patterns."

// Prompt is a system/user instruction pair for one LLM call.
type Prompt struct {
	System string
	User   string
}

// BuildGenerationPrompt composes the instructions for generating a coding
// exercise. The pattern, difficulty and topic each appear exactly once.
func BuildGenerationPrompt(pattern, difficulty, topic string) Prompt {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate a Python coding prompt for implementing the %s design pattern.\n", pattern)
	fmt.Fprintf(&b, "The difficulty level should be %s.\n", difficulty)
	fmt.Fprintf(&b, "The context or theme of the problem should be related to %s.\n", topic)
	b.WriteString("Provide a clear problem statement and any specific requirements.\n")
	b.WriteString(`
Format the response as follows:
Problem: [Problem statement]
Requirements:
- [Requirement 1]
- [Requirement 2]
- ...`)

	return Prompt{System: systemPrompt, User: b.String()}
}

const reviewInstructions = `Rate the implementation on a scale of 1-5, where 1 is completely incorrect and 5 is excellent.
Provide brief suggestions for improvement if necessary.
You will be very critical but fair, and precise in your scoring. Everything
should be in python.
`

const textReviewFormat = `Please format your response as follows:
Score: [1-5]
Suggestions: [Your suggestions here]`

const jsonReviewFormat = `Respond with a JSON object with an integer "score" from 1 to 5 and a
"suggestions" string.`

// BuildReviewPrompt composes the instructions for grading code against the
// problem it was written for. Problem and code are embedded verbatim.
func BuildReviewPrompt(pattern, code, problem string) Prompt {
	return buildReviewPrompt(pattern, code, problem, textReviewFormat)
}

func buildReviewPrompt(pattern, code, problem, format string) Prompt {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze the following code and determine if it correctly implements the %s design pattern and solves the given problem.\n", pattern)
	b.WriteString(reviewInstructions)

	b.WriteString("\nProblem:\n")
	b.WriteString(problem)
	b.WriteString("\n\nCode:\n")
	b.WriteString(code)
	b.WriteString("\n\n")
	b.WriteString(format)

	return Prompt{System: systemPrompt, User: b.String()}
}
