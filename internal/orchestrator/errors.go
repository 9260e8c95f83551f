package orchestrator

import (
	"errors"
	"fmt"

	"github.com/elenafy/ChefStacks-sub001/internal/preflight"
)

// ErrorKind classifies extraction failures for callers and API responses.
type ErrorKind string

const (
	KindInvalidURL        ErrorKind = "invalid_url"
	KindPreflightRejected ErrorKind = "preflight_rejected"
	KindUploadFailed      ErrorKind = "upload_failed"
	KindTimedOut          ErrorKind = "timed_out"
	KindInvalidResponse   ErrorKind = "invalid_response"
	KindTransportError    ErrorKind = "transport_error"
	KindFetchFailed       ErrorKind = "fetch_failed"
	KindCancelled         ErrorKind = "cancelled"
)

// Error is the typed failure returned by Extract. Retry policy, if any,
// belongs to the caller; the pipeline itself never retries a terminal kind.
type Error struct {
	Kind    ErrorKind
	Message string
	// Preflight carries the full breakdown when Kind is
	// KindPreflightRejected, so the caller can render the reason and
	// decide whether to offer an override.
	Preflight *preflight.Result

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("extract: %s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("extract: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Overridable reports whether the caller may re-run with skipPreflight set.
func (e *Error) Overridable() bool {
	return e.Kind == KindPreflightRejected && e.Preflight != nil && e.Preflight.AllowOverride
}

func newError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// AsError extracts the typed error from any error chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
