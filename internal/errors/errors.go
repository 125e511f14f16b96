// Package errors defines the error kinds surfaced by pgen.
//
// Every failure that reaches the user carries a stable Code and, where one
// exists, the offending path or variable name.
package errors

import (
	"errors"
	"fmt"

	"github.com/artisanexperiences/pgen/internal/config"
)

// Code is a stable error code string.
type Code string

const (
	EUsage Code = "E_USAGE"

	// Reading inputs
	EInputNotFound        Code = "E_INPUT_NOT_FOUND"
	EInputUnreadable      Code = "E_INPUT_UNREADABLE"
	EUnsupportedEntry     Code = "E_UNSUPPORTED_ENTRY"
	EPathNotRepresentable Code = "E_PATH_NOT_REPRESENTABLE"
	ESerialization        Code = "E_SERIALIZATION"

	// Generating projects
	EUnresolvedVariables Code = "E_UNRESOLVED_VARIABLES"
	EDestinationConflict Code = "E_DESTINATION_CONFLICT"
	EUnsafeRenderTarget  Code = "E_UNSAFE_RENDER_TARGET"
	EWriteFailure        Code = "E_WRITE_FAILURE"
	ECleanupFailed       Code = "E_CLEANUP_FAILED"
)

// PgenError is the standard error type for pgen failures.
type PgenError struct {
	Code  Code
	Msg   string
	Path  string
	Cause error
}

// Error returns "CODE: message" with the path and cause appended when present.
func (e *PgenError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Msg)
	if e.Path != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Path)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *PgenError) Unwrap() error {
	return e.Cause
}

// Is matches any PgenError carrying the same code.
func (e *PgenError) Is(target error) bool {
	var t *PgenError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// New creates a PgenError with the given code and message.
func New(code Code, msg string) error {
	return &PgenError{Code: code, Msg: msg}
}

// NewPath creates a PgenError about a specific path.
func NewPath(code Code, msg, path string) error {
	return &PgenError{Code: code, Msg: msg, Path: path}
}

// Wrap creates a PgenError wrapping an underlying error.
func Wrap(code Code, msg string, err error) error {
	return &PgenError{Code: code, Msg: msg, Cause: err}
}

// WrapPath creates a PgenError about a specific path wrapping an underlying error.
func WrapPath(code Code, msg, path string, err error) error {
	return &PgenError{Code: code, Msg: msg, Path: path, Cause: err}
}

// GetCode extracts the error code from an error, or empty string if not a PgenError.
func GetCode(err error) Code {
	var pe *PgenError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// HasCode reports whether err is or wraps a PgenError with the given code.
func HasCode(err error, code Code) bool {
	return GetCode(err) == code
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return config.ExitSuccess
	}
	switch GetCode(err) {
	case EUsage:
		return config.ExitInvalidArguments
	case EInputNotFound, EInputUnreadable, EUnsupportedEntry, EPathNotRepresentable:
		return config.ExitInputError
	case ESerialization:
		return config.ExitSerializationError
	case EDestinationConflict, EUnsafeRenderTarget:
		return config.ExitDestinationError
	case EUnresolvedVariables:
		return config.ExitUnresolvedVariables
	case EWriteFailure, ECleanupFailed:
		return config.ExitWriteError
	default:
		return config.ExitGeneralError
	}
}
