// Package errors provides coded domain errors shared across bounded contexts.
//
// Services return these so transport layers can translate them into HTTP
// responses without inspecting error strings. Infrastructure facts (row
// missing, connection refused) stay as sentinel errors in pkg/platform/sentinel
// and are wrapped into coded errors at the service boundary.
package errors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error. Values double as the wire-level error
// identifiers in JSON error envelopes, so they are snake_case.
type Code string

const (
	CodeBadRequest         Code = "bad_request"
	CodeInvalidInput       Code = "invalid_input"
	CodeNotFound           Code = "not_found"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeConflict           Code = "conflict"
	CodeTimeout            Code = "timeout"
	CodeUnavailable        Code = "unavailable"
	CodeInvariantViolation Code = "invariant_violation"
	CodeInternal           Code = "internal_error"
)

// Error carries a code, a human-readable message, and an optional cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a coded error without a cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
// A nil err returns nil so call sites can wrap unconditionally.
func Wrap(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var de *Error
		if errors.As(err, &de) {
			if de.Code == code {
				return true
			}
			err = de.cause
			continue
		}
		return false
	}
	return false
}

// Is is the older spelling of HasCode, kept for call sites that predate it.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the outermost code in the chain, or CodeInternal when the
// error carries no code. Transport layers use this to pick a status.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf returns the outermost coded message, or empty when uncoded.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
