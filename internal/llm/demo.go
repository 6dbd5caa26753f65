package llm

import (
	"context"
	"strings"
)

// DemoProvider answers offline with fixed texts chosen by the request
// purpose. It backs the "mock" provider kind so the tutor can be tried
// without an API key.
type DemoProvider struct{}

// NewDemoProvider creates a DemoProvider.
func NewDemoProvider() *DemoProvider {
	return &DemoProvider{}
}

const demoExercise = `Problem: A home automation hub keeps one shared connection to the smart devices on the local network. Every room controller must reuse that connection instead of opening its own.

Requirements:
- Provide a DeviceHub class with exactly one instance per process
- Expose a method to register a device by name
- Expose a method to send a command to a registered device
- Show that two controllers obtained separately share the same hub`

const demoReview = `Score: 3
Suggestions: The code parses and the structure is a reasonable start. Make the single instance explicit (for example by overriding __new__ or using a module-level accessor), keep device registration on the shared instance, and add a short usage example that shows two controllers receiving the same hub.`

const demoReviewJSON = `{"score": 3, "suggestions": "Make the single instance explicit and add a usage example that shows two controllers sharing it."}`

// Generate returns the canned text for the purpose on ctx.
func (d *DemoProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var text string
	switch PurposeFrom(ctx) {
	case PurposeCodeReview:
		text = demoReview
		if req.Schema != nil {
			text = demoReviewJSON
		}
	case PurposeCredentialCheck:
		text = "Hello"
	default:
		text = demoExercise
	}

	var in int
	for _, m := range req.Messages {
		in += len(strings.Fields(m.Content))
	}
	out := len(strings.Fields(text))
	return &Response{
		Text:       text,
		Usage:      Usage{InputTokens: in, OutputTokens: out, TotalTokens: in + out},
		Model:      d.ModelID(),
		StopReason: "end",
	}, nil
}

// ModelID returns "demo".
func (d *DemoProvider) ModelID() string {
	return "demo"
}
