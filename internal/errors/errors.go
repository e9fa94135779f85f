// Package errors defines the error vocabulary shared by every command:
// a code for the failing subsystem, a user-facing message, and an optional
// suggestion for fixing it.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Subsystem codes. Only SERIAL open failures are fatal in practice; the rest
// surface as messages and polling continues.
const (
	ErrConfig = "CONFIG"
	ErrSerial = "SERIAL"
	ErrParse  = "PARSE"
	ErrLog    = "LOG"
)

// Error renders as three blocks:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New builds an Error with no underlying cause.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Wrap attaches a message to a device error. The code defaults to ErrSerial
// since that is where almost every wrapped failure originates.
func Wrap(err error, message string) *Error {
	return &Error{
		Code:    ErrSerial,
		Message: message,
		Cause:   err,
	}
}

// WrapWithCode is Wrap with an explicit code and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// Error formats the failure, its cause, and the suggestion as separate
// indented blocks.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode reports whether err is (or wraps) an Error carrying the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Code == code
	}
	return false
}
