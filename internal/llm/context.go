package llm

import "context"

// Purposes label each request in the event log, the usage report and the
// demo provider's choice of canned answer.
const (
	PurposeExerciseGen     = "exercise-gen"
	PurposeCodeReview      = "code-review"
	PurposeCredentialCheck = "credential-check"

	// PurposeUnknown is reported for a request sent without a label.
	PurposeUnknown = "unknown"
)

type purposeKey struct{}

// WithPurpose tags ctx with the reason a request is being made.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or PurposeUnknown.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return PurposeUnknown
}
