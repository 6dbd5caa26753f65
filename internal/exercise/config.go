package exercise

// Config controls a single LLM call.
type Config struct {
	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64
}

// ReviewConfig controls the LLMReviewer.
type ReviewConfig struct {
	Config

	// Structured asks the provider for a JSON review validated against
	// ReviewSchema instead of the "Score:/Suggestions:" text layout.
	Structured bool
}

// DefaultGenerationConfig returns the settings used for exercise generation.
func DefaultGenerationConfig() Config {
	return Config{
		MaxTokens:   4096,
		Temperature: 0.7,
	}
}

// DefaultReviewConfig returns the settings used for solution review.
func DefaultReviewConfig() ReviewConfig {
	return ReviewConfig{
		Config: Config{
			MaxTokens:   4096,
			Temperature: 0.3,
		},
	}
}
