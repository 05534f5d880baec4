// Package errors provides structured error types and exit codes for tap2tap.
package errors

import (
	"errors"
	"fmt"
)

// Exit codes of the tap2tap command.
const (
	ExitSuccess    = 0 // All tests passed
	ExitFailure    = 1 // A test failed, or a plan did not match
	ExitBailOut    = 2 // A source bailed out
	ExitIOError    = 3 // A source could not be opened or read, or output could not be written
	ExitUsageError = 4 // Invalid flags or configuration
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindUsage
	KindIO
)

// Error is the base error type for tap2tap.
type Error struct {
	Kind    ErrorKind
	Message string
	Source  string // Source name if applicable
	Cause   error  // Underlying error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Source != "" {
		msg = fmt.Sprintf("[%s] %s", e.Source, msg)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *Error) ExitCode() int {
	switch e.Kind {
	case KindConfig, KindUsage:
		return ExitUsageError
	case KindIO:
		return ExitIOError
	default:
		return ExitFailure
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...any) *Error {
	return &Error{
		Kind:    KindConfig,
		Message: fmt.Sprintf(format, args...),
	}
}

// Usage creates a new command-line usage error.
func Usage(message string) *Error {
	return &Error{
		Kind:    KindUsage,
		Message: message,
	}
}

// IO creates an error for a source or sink that could not be used.
func IO(source, message string, cause error) *Error {
	return &Error{
		Kind:    KindIO,
		Source:  source,
		Message: message,
		Cause:   cause,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *Error {
	return &Error{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var e *Error
	if errors.As(err, &e) {
		return e.ExitCode()
	}
	return ExitFailure
}
