package generation

import (
	"context"
	"errors"
)

// Errors returned by the generation package. Every failure from Generate
// matches exactly one of them via errors.Is.
var (
	// ErrConfiguration is returned when the generation config is unusable,
	// such as a missing API key. No network call is made.
	ErrConfiguration = errors.New("invalid generation configuration")

	// ErrTransport is returned for network errors, timeouts and non-success
	// HTTP statuses from the completion API.
	ErrTransport = errors.New("completion transport failure")

	// ErrMalformedResponse is returned when the completion API answered but
	// no completion text could be extracted.
	ErrMalformedResponse = errors.New("malformed completion response")

	// ErrInvalidFacts is returned when the facts lack a property name.
	ErrInvalidFacts = errors.New("invalid property facts")
)

// FailureKind names the category of a generation failure for logs.
type FailureKind string

// Failure kinds reported by KindOf.
const (
	KindNone          FailureKind = ""
	KindConfiguration FailureKind = "configuration"
	KindTransport     FailureKind = "transport"
	KindMalformed     FailureKind = "malformed_response"
	KindInvalidFacts  FailureKind = "invalid_facts"
	KindUnknown       FailureKind = "unknown"
)

// KindOf classifies err. A nil error yields KindNone.
func KindOf(err error) FailureKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrMalformedResponse):
		return KindMalformed
	case errors.Is(err, ErrTransport):
		return KindTransport
	case errors.Is(err, ErrInvalidFacts):
		return KindInvalidFacts
	default:
		return KindUnknown
	}
}

// IsRetryable reports whether a failed generation may succeed when repeated.
// Only transport failures qualify, and not when the caller's own context is done.
func IsRetryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return KindOf(err) == KindTransport
}
