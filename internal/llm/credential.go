package llm

import (
	"context"
	"strings"
)

// CredentialSource records where an API key came from.
type CredentialSource string

const (
	SourceEntered     CredentialSource = "entered"
	SourceEnvironment CredentialSource = "environment"
)

// Credential is one candidate API key for a provider.
type Credential struct {
	Kind   Kind
	Key    string
	Source CredentialSource
}

// Candidates lists the keys to try for kind, in order: the key the user
// entered, then the provider's environment variable. Blank and duplicate
// keys are skipped.
func Candidates(kind Kind, entered string, getenv func(string) string) []Credential {
	var out []Credential
	if k := strings.TrimSpace(entered); k != "" {
		out = append(out, Credential{Kind: kind, Key: k, Source: SourceEntered})
	}
	if env := kind.EnvKey(); env != "" && getenv != nil {
		if k := strings.TrimSpace(getenv(env)); k != "" && (len(out) == 0 || out[0].Key != k) {
			out = append(out, Credential{Kind: kind, Key: k, Source: SourceEnvironment})
		}
	}
	return out
}

// CredentialStatus is the outcome of a credential check.
type CredentialStatus int

const (
	CredentialRejected CredentialStatus = iota
	CredentialValid
)

func (s CredentialStatus) String() string {
	if s == CredentialValid {
		return "valid"
	}
	return "rejected"
}

// CredentialResult is the typed result of validating a credential.
// Reason carries the provider's message when Status is CredentialRejected.
type CredentialResult struct {
	Status CredentialStatus
	Source CredentialSource
	Reason string
	Err    error
}

// Valid reports whether the credential was accepted.
func (r CredentialResult) Valid() bool {
	return r.Status == CredentialValid
}

// checkMaxTokens keeps the validation call as cheap as possible.
const checkMaxTokens = 10

// CheckCredential sends a minimal request through p and reports whether the
// provider accepted it. Any provider error rejects the credential.
func CheckCredential(ctx context.Context, p Provider) CredentialResult {
	ctx = WithPurpose(ctx, PurposeCredentialCheck)
	_, err := p.Generate(ctx, UserRequest("", "Hello", checkMaxTokens, 0))
	if err != nil {
		return CredentialResult{Status: CredentialRejected, Reason: err.Error(), Err: err}
	}
	return CredentialResult{Status: CredentialValid}
}
