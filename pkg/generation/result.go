package generation

import (
	"context"
	"errors"

	"instructions-hq/extractor/pkg/providers"
)

// Kind classifies a generation failure.
type Kind string

const (
	KindTimeout           Kind = "timeout"
	KindCanceled          Kind = "canceled"
	KindAuth              Kind = "auth"
	KindRateLimited       Kind = "rate_limited"
	KindUpstream          Kind = "upstream"
	KindMalformedResponse Kind = "malformed_response"
	KindInvalidRequest    Kind = "invalid_request"
	KindInternal          Kind = "internal"
)

// Failure describes why a generation produced no text.
type Failure struct {
	Kind    Kind
	Message string
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return f.Message
}

// Result is the outcome of one generation call. Exactly one of Text and
// Failure is meaningful.
type Result struct {
	Text    string
	Failure *Failure
}

// OK reports whether the generation succeeded.
func (r Result) OK() bool {
	return r.Failure == nil
}

// Succeeded returns a successful result.
func Succeeded(text string) Result {
	return Result{Text: text}
}

// Failed returns a failed result of the given kind.
func Failed(kind Kind, message string) Result {
	return Result{Failure: &Failure{Kind: kind, Message: message}}
}

// Classify maps an error from the provider layer to a failure kind.
// Deadline expiry is always KindTimeout, whichever layer noticed it first.
func Classify(err error) Kind {
	var (
		timeoutErr    *providers.TimeoutError
		authErr       *providers.AuthError
		rateErr       *providers.RateLimitError
		parseErr      *providers.ParseError
		validationErr *providers.ValidationError
		configErr     *providers.ConfigError
		providerErr   *providers.ProviderError
	)

	switch {
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.As(err, &authErr):
		return KindAuth
	case errors.As(err, &rateErr):
		return KindRateLimited
	case errors.As(err, &parseErr):
		return KindMalformedResponse
	case errors.As(err, &validationErr):
		return KindInvalidRequest
	case errors.As(err, &configErr):
		return KindInternal
	case errors.As(err, &providerErr):
		return KindUpstream
	default:
		return KindInternal
	}
}
