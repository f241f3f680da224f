package core

import (
	"errors"
	"fmt"
)

// Error kinds. Every error produced by this package wraps exactly one of
// these, so callers can classify with errors.Is regardless of the cause.
var (
	ErrInvalidEngine    = errors.New("invalid engine")
	ErrLaunchFailure    = errors.New("launch failure")
	ErrStatFailure      = errors.New("stat failure")
	ErrMalformedPath    = errors.New("malformed path")
	ErrDiscoveryFailure = errors.New("discovery failure")
	ErrConfigFailure    = errors.New("config failure")
)

// Error carries an error kind, a human readable message, and the
// underlying cause (if any).
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Kind.Error()
	if e.Msg != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func kindf(kind error, cause error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// InvalidEnginef returns an ErrInvalidEngine error.
func InvalidEnginef(format string, args ...any) error {
	return kindf(ErrInvalidEngine, nil, format, args...)
}

// ConfigErrorf returns an ErrConfigFailure error wrapping cause.
func ConfigErrorf(cause error, format string, args ...any) error {
	return kindf(ErrConfigFailure, cause, format, args...)
}

// StatErrorf returns an ErrStatFailure error wrapping cause.
func StatErrorf(cause error, format string, args ...any) error {
	return kindf(ErrStatFailure, cause, format, args...)
}
