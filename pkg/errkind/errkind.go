// Package errkind defines the failure kinds surfaced by the destination intel tools.
// Callers match them with errors.Is; none of them are retried internally.
package errkind

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidArgument is returned for bad caller input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound is returned when a location cannot be geocoded,
	// or when no qualifying headlines remain.
	ErrNotFound = errors.New("not found")
	// ErrUpstream is returned for non-success responses from an upstream service.
	ErrUpstream = errors.New("upstream error")
	// ErrUpstreamTimeout is returned when an upstream request exceeds its deadline.
	ErrUpstreamTimeout = errors.New("upstream timeout")
	// ErrParse is returned when an upstream body is malformed.
	ErrParse = errors.New("parse error")
)

// Kind names
const (
	KindInvalidArgument = "InvalidArgument"
	KindNotFound        = "NotFound"
	KindUpstreamError   = "UpstreamError"
	KindUpstreamTimeout = "UpstreamTimeout"
	KindParseError      = "ParseError"
	KindUnknown         = "Unknown"
)

// InvalidArgument returns an error marked as ErrInvalidArgument
func InvalidArgument(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvalidArgument)
}

// NotFound returns an error marked as ErrNotFound
func NotFound(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrNotFound)
}

// Upstream returns an error marked as ErrUpstream
func Upstream(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrUpstream)
}

// Timeout wraps the cause and marks it as ErrUpstreamTimeout
func Timeout(cause error, msg string) error {
	return errors.Mark(errors.Wrap(cause, msg), ErrUpstreamTimeout)
}

// Parse wraps the cause and marks it as ErrParse
func Parse(cause error, msg string) error {
	return errors.Mark(errors.Wrap(cause, msg), ErrParse)
}

// Kind returns the kind name of the error, or KindUnknown.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrUpstreamTimeout):
		return KindUpstreamTimeout
	case errors.Is(err, ErrUpstream):
		return KindUpstreamError
	case errors.Is(err, ErrParse):
		return KindParseError
	default:
		return KindUnknown
	}
}
