package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/dpt/internal/llm"
	"github.com/abhisek/dpt/internal/syntaxgate"
)

var (
	// ErrNotBound is returned when an operation needs a provider and none
	// has been bound yet.
	ErrNotBound = errors.New("no provider bound")

	// ErrNoExercise is returned by Submit before any exercise exists.
	ErrNoExercise = errors.New("no exercise generated")

	// ErrEmptySubmission is returned by Submit for blank code.
	ErrEmptySubmission = errors.New("submission is empty")

	// ErrNoCredential is returned by Bind when neither an entered key nor
	// the provider's environment variable is available.
	ErrNoCredential = errors.New("no API key available")
)

// ErrorKind groups errors by how they are presented to the user.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindPrecondition
	KindCredentialRejected
	KindSyntax
	KindMalformedResponse
	KindTruncated
	KindTimeout
	KindNetworkOrProvider
	KindUnknown
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindPrecondition:
		return "precondition"
	case KindCredentialRejected:
		return "credential-rejected"
	case KindSyntax:
		return "syntax"
	case KindMalformedResponse:
		return "malformed-response"
	case KindTruncated:
		return "truncated"
	case KindTimeout:
		return "timeout"
	case KindNetworkOrProvider:
		return "network-or-provider"
	default:
		return "unknown"
	}
}

// Classify maps err onto an ErrorKind.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	var (
		rejected  *llm.ErrCredentialRejected
		syntax    *syntaxgate.SyntaxError
		malformed *llm.ErrMalformedResponse
		truncated *llm.ErrMaxTokensExceeded
		timeout   *llm.ErrTimeout
		rateLimit *llm.ErrRateLimit
		unavail   *llm.ErrProviderUnavailable
	)

	switch {
	case errors.Is(err, ErrNotBound), errors.Is(err, ErrNoExercise),
		errors.Is(err, ErrEmptySubmission), errors.Is(err, ErrNoCredential):
		return KindPrecondition
	case errors.As(err, &rejected):
		return KindCredentialRejected
	case errors.As(err, &syntax):
		return KindSyntax
	case errors.As(err, &timeout):
		return KindTimeout
	case errors.As(err, &truncated):
		return KindTruncated
	case errors.As(err, &malformed):
		return KindMalformedResponse
	case errors.As(err, &rateLimit), errors.As(err, &unavail):
		return KindNetworkOrProvider
	default:
		return KindUnknown
	}
}

// Describe renders err as a message for the user.
func Describe(err error) string {
	switch Classify(err) {
	case KindNone:
		return ""
	case KindPrecondition:
		switch {
		case errors.Is(err, ErrNotBound):
			return "Please enter a valid API key first."
		case errors.Is(err, ErrNoCredential):
			return "Please enter an API key or set it in the environment."
		default:
			return "Please generate a problem and enter some code before checking."
		}
	case KindCredentialRejected:
		return "API connection failed. Please check your key and try again.\n\n" +
			"Message from API provider: " + providerMessage(err)
	case KindSyntax:
		var se *syntaxgate.SyntaxError
		errors.As(err, &se)
		return fmt.Sprintf("Syntax Error: %s\nPlease fix the syntax errors before submitting for review.", se.Error())
	case KindTimeout:
		var te *llm.ErrTimeout
		errors.As(err, &te)
		return fmt.Sprintf("The provider did not respond within %s. Please try again.", te.After)
	case KindTruncated:
		return "The response was cut off at the token limit. Please try again."
	case KindMalformedResponse:
		var me *llm.ErrMalformedResponse
		errors.As(err, &me)
		msg := "The provider returned a response that could not be used."
		if raw := strings.TrimSpace(me.Raw); raw != "" {
			msg += "\n\n" + raw
		}
		return msg
	case KindNetworkOrProvider:
		return "The provider could not be reached or is rate limiting requests: " + err.Error()
	default:
		return "Something went wrong: " + err.Error()
	}
}

// providerMessage returns the innermost message of a rejection, which is
// what the provider itself said.
func providerMessage(err error) string {
	var rejected *llm.ErrCredentialRejected
	if errors.As(err, &rejected) && rejected.Err != nil {
		return rejected.Err.Error()
	}
	return err.Error()
}
