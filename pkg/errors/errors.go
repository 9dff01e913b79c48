// Package errors defines the coded errors shared by the CLI, the pipeline
// and the HTTP API.
//
// A diagram that breaks schema or physics rules is not an error here: the
// validator reports it through validate.Result. Codes cover malformed
// input, unsupported diagram types, missing records and sessions, and
// internal failures. The HTTP layer maps each code to a status.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnsupported, "no layout for %q", t)
//	if errors.Is(err, errors.ErrCodeUnsupported) {
//	    // fall back
//	}
//
//	err = errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", path)
//	err = errors.New(errors.ErrCodeInvalidDiagram, "diagram is invalid").WithDetails(res)
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	// Caller mistakes.
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidDiagram Code = "INVALID_DIAGRAM"
	ErrCodeInvalidID      Code = "INVALID_ID"
	ErrCodeUnsupported    Code = "UNSUPPORTED"

	// Missing resources.
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a coded error. Details carries structured context for API
// clients, such as the validation result of a rejected diagram.
type Error struct {
	Code    Code
	Message string
	Details any
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// WithDetails attaches structured details and returns e.
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// New returns an error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an error that records cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// as finds the outermost *Error in err's chain.
func as(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := as(err)
	return ok && e.Code == code
}

// GetCode returns the code of the outermost coded error, or "" if there is
// none.
func GetCode(err error) Code {
	if e, ok := as(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost coded error without
// code or cause, falling back to err.Error().
func UserMessage(err error) string {
	if e, ok := as(err); ok {
		return e.Message
	}
	return err.Error()
}

// Details returns the details of the outermost coded error that has any.
func Details(err error) any {
	for err != nil {
		e, ok := as(err)
		if !ok {
			return nil
		}
		if e.Details != nil {
			return e.Details
		}
		err = e.Cause
	}
	return nil
}
