// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"net/http"
)

// Err classifies failures surfaced by the LLM and arXiv clients. Callers
// test for a class with errors.Is(err, types.ErrTransport) regardless of
// how deeply the error was wrapped.
type Err int

const (
	// ErrConfig reports invalid or missing construction parameters. It is
	// detected before any I/O.
	ErrConfig Err = iota + 1

	// ErrValidation reports a request that violates a documented constraint.
	// It is detected before any I/O.
	ErrValidation

	// ErrTransport reports a network failure, timeout, refused connection,
	// or a non-2xx response.
	ErrTransport

	// ErrProtocol reports a response that arrived but could not be parsed
	// per the expected schema.
	ErrProtocol

	// ErrIO reports a local filesystem failure.
	ErrIO

	// ErrTimeout accompanies ErrTransport when a deadline expired.
	ErrTimeout
)

func (e Err) Error() string {
	switch e {
	case ErrConfig:
		return "config error"
	case ErrValidation:
		return "validation error"
	case ErrTransport:
		return "transport error"
	case ErrProtocol:
		return "protocol error"
	case ErrIO:
		return "io error"
	case ErrTimeout:
		return "timeout"
	}
	return fmt.Sprintf("error code %d", int(e))
}

// With returns an error of kind e annotated with args.
func (e Err) With(args ...any) error {
	return fmt.Errorf("%w: %s", e, fmt.Sprint(args...))
}

// Withf returns an error of kind e annotated with a formatted message.
func (e Err) Withf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", e, fmt.Sprintf(format, args...))
}

// Wrap returns an error of kind e that also wraps cause, so both
// errors.Is(err, e) and errors.Is(err, cause) hold.
func (e Err) Wrap(cause error, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %w", e, fmt.Sprintf(format, args...), cause)
}

// Timeout returns a transport error for an expired deadline. The result
// matches ErrTransport, ErrTimeout and cause.
func Timeout(cause error, format string, args ...any) error {
	return fmt.Errorf("%w: %w: %s: %w", ErrTransport, ErrTimeout, fmt.Sprintf(format, args...), cause)
}

// FieldError names the configuration setting or request field that failed
// a check. Kind is ErrConfig or ErrValidation.
type FieldError struct {
	Kind   Err
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Reason)
}

// Unwrap lets errors.Is match the error's kind.
func (e *FieldError) Unwrap() error { return e.Kind }

// ConfigField returns a FieldError of kind ErrConfig.
func ConfigField(field, format string, args ...any) error {
	return &FieldError{Kind: ErrConfig, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// InvalidField returns a FieldError of kind ErrValidation.
func InvalidField(field, format string, args ...any) error {
	return &FieldError{Kind: ErrValidation, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// StatusError records a non-2xx HTTP response. It is always wrapped in an
// ErrTransport error.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// Temporary reports whether the status is worth retrying: rate limiting or
// a server-side failure.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// HTTPStatus returns an ErrTransport error wrapping a StatusError.
func HTTPStatus(code int, url string) error {
	return fmt.Errorf("%w: %w", ErrTransport, &StatusError{StatusCode: code, URL: url})
}
