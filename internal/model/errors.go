package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by store adapters when a row does not exist.
var ErrNotFound = errors.New("not found")

// ErrorKind is the machine-readable class of a domain failure.
type ErrorKind string

const (
	InvalidActionKind ErrorKind = "INVALID_ACTION_KIND"
	SelfAction        ErrorKind = "SELF_ACTION"
	ProfileRequired   ErrorKind = "PROFILE_REQUIRED"
	InvalidPage       ErrorKind = "INVALID_PAGE"
	InvalidPageSize   ErrorKind = "INVALID_PAGE_SIZE"
	NotFound          ErrorKind = "NOT_FOUND"
	SourceUnavailable ErrorKind = "SOURCE_UNAVAILABLE"
)

// Error is a typed domain failure. Handlers map Kind to an HTTP status;
// Message is safe to show to callers.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Message) }

// NewError builds a typed failure with a formatted message.
func NewError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the ErrorKind carried by err, or "" when err is not a
// domain failure.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsValidation reports whether err is an input rejection raised before any
// I/O was attempted. Validation failures are user-correctable and never
// retried.
func IsValidation(err error) bool {
	switch KindOf(err) {
	case InvalidActionKind, SelfAction, ProfileRequired, InvalidPage, InvalidPageSize:
		return true
	default:
		return false
	}
}
