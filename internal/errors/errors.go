// Package errors provides sentinel errors, structured error details and exit
// codes for the cratekit CLI.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for known conditions.
var (
	// ErrUsage indicates a bad or missing command-line argument.
	ErrUsage = errors.New("usage error")

	// ErrEnvironment indicates a required external toolchain is absent.
	ErrEnvironment = errors.New("environment error")

	// ErrAction indicates a single filesystem, initializer or VCS step failed.
	ErrAction = errors.New("action failed")

	// ErrNotFound indicates a file or directory was not found.
	ErrNotFound = errors.New("not found")
)

// Exit codes returned by the cratekit binary.
const (
	// ExitSuccess indicates the run completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error or a failed pipeline step.
	ExitGeneralError = 1

	// ExitUsageError indicates an invalid command line.
	ExitUsageError = 2

	// ExitEnvironmentError indicates the Rust toolchain is not installed.
	ExitEnvironmentError = 3
)

// DetailError captures structured error information for user-facing output.
type DetailError struct {
	// Type is the error category (required).
	Type string

	// Message is the specific description (required).
	Message string

	// Location is the file or directory the error refers to (optional).
	Location string

	// Context contains additional key-value context (optional).
	Context map[string]string

	// Hint provides actionable guidance (optional).
	Hint string

	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *DetailError) Error() string {
	var b strings.Builder

	b.WriteString(e.Type)
	b.WriteString(": ")
	b.WriteString(e.Message)

	if e.Location != "" {
		b.WriteString("\n  Location: ")
		b.WriteString(e.Location)
	}
	for k, v := range e.Context {
		b.WriteString("\n  ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
	}
	if e.Hint != "" {
		b.WriteString("\n  Hint: ")
		b.WriteString(e.Hint)
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *DetailError) Unwrap() error {
	return e.Cause
}

// NewUsageError creates a usage error with details.
func NewUsageError(message, hint string) error {
	return &DetailError{
		Type:    "invalid usage",
		Message: message,
		Hint:    hint,
		Cause:   ErrUsage,
	}
}

// NewEnvironmentError creates an environment error for a missing tool.
func NewEnvironmentError(tool, message, hint string) error {
	return &DetailError{
		Type:    "environment check failed",
		Message: message,
		Context: map[string]string{"Tool": tool},
		Hint:    hint,
		Cause:   ErrEnvironment,
	}
}

// NewActionError creates an action error for a failed step. The attempted
// operation and its target are kept for the report; err stays reachable
// through errors.Is/As alongside ErrAction.
func NewActionError(operation, location string, err error) error {
	return &DetailError{
		Type:     "action failed",
		Message:  fmt.Sprintf("%s: %v", operation, err),
		Location: location,
		Cause:    fmt.Errorf("%w: %w", ErrAction, err),
	}
}

// ExitError wraps an error with an exit code.
type ExitError struct {
	// Code is the process exit code.
	Code int

	// Err is the underlying error.
	Err error

	// Printed is set when the command layer already reported the error.
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCodeFromError determines the exit code for an error.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, ErrUsage):
		return ExitUsageError
	case errors.Is(err, ErrEnvironment):
		return ExitEnvironmentError
	default:
		return ExitGeneralError
	}
}

// Wrap wraps an error with a sentinel error type.
func Wrap(sentinel error, message string) error {
	return fmt.Errorf("%s: %w", message, sentinel)
}
