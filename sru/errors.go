package sru

import (
	"errors"
	"fmt"
)

// Sentinel errors for classification with errors.Is.
var (
	// ErrEmptyResponse is returned when the server sent a zero-length or
	// whitespace-only body. Distinct from a well-formed zero-result response.
	ErrEmptyResponse = errors.New("empty response body")

	// ErrTimeout is wrapped into a TransportError when a request exceeded the
	// configured deadline.
	ErrTimeout = errors.New("request timed out")
)

// ValidationError reports a bad caller-supplied parameter. It is raised
// before any network call is attempted.
type ValidationError struct {
	Param  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Param, e.Value, e.Reason)
}

// TransportError reports a network-level failure: connection refused, DNS
// failure, read timeout. The underlying cause is preserved.
type TransportError struct {
	Op      string
	URL     string
	Timeout bool
	Err     error
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s request to %s timed out: %v", e.Op, e.URL, e.Err)
	}
	return fmt.Sprintf("%s request to %s failed: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	if e.Timeout {
		return ErrTimeout
	}
	return e.Err
}

// StatusError reports a non-2xx HTTP status.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
	Suggestion string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
	if e.Suggestion != "" {
		msg += ": " + e.Suggestion
	}
	return msg
}

// IsAccessDenied reports whether the status indicates an access restriction
// rather than a query problem.
func (e *StatusError) IsAccessDenied() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// IsServerError reports whether the failure is server-side and likely
// transient.
func (e *StatusError) IsServerError() bool {
	return e.StatusCode >= 500
}

// ParseError reports a body that is not well-formed XML. Snippet retains the
// beginning of the original text for diagnostics.
type ParseError struct {
	Op      string
	Snippet string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed %s response: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DiagnosticError reports the protocol's own error envelope: a well-formed
// response carrying a diagnostic element instead of a payload.
type DiagnosticError struct {
	URI     string
	Message string
	Details string
}

func (e *DiagnosticError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("server diagnostic (%s): %s: %s", e.URI, e.Message, e.Details)
	}
	return fmt.Sprintf("server diagnostic (%s): %s", e.URI, e.Message)
}

const snippetLimit = 200

// snippet truncates raw response text for inclusion in errors.
func snippet(body string) string {
	if len(body) > snippetLimit {
		return body[:snippetLimit] + "..."
	}
	return body
}
