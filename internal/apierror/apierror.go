// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package apierror defines the closed set of error kinds the API exposes and
// their HTTP status codes.
package apierror

import (
	"errors"
	"net/http"
	"runtime/debug"
)

// Kind enumerates the error kinds known to the classifier.
type Kind int

const (
	// KindInternal covers every fault that is not a known client error.
	KindInternal Kind = iota
	// KindUnauthorized covers bad credentials and missing, malformed or
	// superseded tokens.
	KindUnauthorized
)

// Message IDs resolved through the i18n bundle.
const (
	MsgAuthFailed       = "auth_failed"
	MsgInternalError    = "internal_error"
	MsgNotFound         = "not_found"
	MsgBadRequest       = "bad_request"
	MsgEntityTooLarge   = "entity_too_large"
	MsgMethodNotAllowed = "method_not_allowed"
)

var statusCodes = map[Kind]int{
	KindUnauthorized: http.StatusUnauthorized,
}

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Classify maps an error kind to its HTTP status code. Kinds without an entry
// are treated as internal faults.
func Classify(kind Kind) int {
	if code, ok := statusCodes[kind]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// Error is a classified API error. MessageID is the i18n key of the client
// visible message; Err is the cause, kept for server-side diagnostics only.
type Error struct {
	Kind      Kind
	MessageID string
	Err       error

	stack []byte
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Stack returns the goroutine stack recorded where the fault was wrapped, or
// an empty string.
func (e *Error) Stack() string {
	return string(e.stack)
}

// Unauthorized is the single rejection value shared by every credential and
// token check.
var Unauthorized = &Error{Kind: KindUnauthorized, MessageID: MsgAuthFailed}

// Internal wraps an unexpected fault and records the stack of the caller.
// An error that is already classified is returned unchanged.
func Internal(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Kind == KindInternal && apiErr.stack != nil {
		return apiErr
	}
	return &Error{Kind: KindInternal, MessageID: MsgInternalError, Err: err, stack: debug.Stack()}
}

// KindOf returns the kind of a classified error and KindInternal otherwise.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindInternal
}

// StatusOf classifies an arbitrary error.
func StatusOf(err error) int {
	return Classify(KindOf(err))
}

// MessageOf returns the i18n key of the client visible message for err.
// Internal faults and unclassified errors share MsgInternalError.
func MessageOf(err error) string {
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Kind == KindInternal || apiErr.MessageID == "" {
		return MsgInternalError
	}
	return apiErr.MessageID
}

// StackOf returns the stack recorded by Internal anywhere in err's chain.
func StackOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Stack()
	}
	return ""
}

// IsClassified reports whether err carries an *Error.
func IsClassified(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr)
}
