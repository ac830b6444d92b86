package runnertypes

import (
	"errors"
	"fmt"
)

// Standard errors
var (
	// ErrInvalidCommand is returned when a command has an empty program token
	ErrInvalidCommand = errors.New("command must have a non-empty program")

	// ErrInvalidPrivilegeLevel is returned when parsing an unknown level string
	ErrInvalidPrivilegeLevel = errors.New("invalid privilege level")
)

// ErrorKind enumerates the structured failure modes of the executor.
type ErrorKind int

const (
	// ErrorKindInvalidCommand indicates malformed input; classification
	// errors never proceed to execution
	ErrorKindInvalidCommand ErrorKind = iota

	// ErrorKindConfirmationRequired indicates the command is not safe for
	// automation and the caller did not confirm; recoverable by confirming
	ErrorKindConfirmationRequired

	// ErrorKindElevationUnavailable indicates elevation was required but no
	// credential was present and no passwordless path exists
	ErrorKindElevationUnavailable

	// ErrorKindElevationRejected indicates the elevation mechanism refused
	// the supplied credential
	ErrorKindElevationRejected

	// ErrorKindTimeout indicates the caller-supplied deadline expired and
	// the child process group was terminated
	ErrorKindTimeout

	// ErrorKindSpawnFailure indicates the OS could not launch the process,
	// e.g. the executable was not found
	ErrorKindSpawnFailure

	// ErrorKindCancelled indicates the caller cancelled the context before
	// the child finished; the process group was terminated. Distinct from
	// Timeout, which is reserved for deadline expiry
	ErrorKindCancelled
)

// String returns a string representation of ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindInvalidCommand:
		return "invalid_command"
	case ErrorKindConfirmationRequired:
		return "confirmation_required"
	case ErrorKindElevationUnavailable:
		return "elevation_unavailable"
	case ErrorKindElevationRejected:
		return "elevation_rejected"
	case ErrorKindTimeout:
		return "timeout"
	case ErrorKindSpawnFailure:
		return "spawn_failure"
	case ErrorKindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ExecutionError is the structured error carried inside an ExecutionResult.
// It never contains a credential value.
type ExecutionError struct {
	Kind ErrorKind

	// Justification carries the classifier's reasoning so a human operator
	// can decide how to proceed (confirmation and elevation failures).
	Justification string

	// Err is the underlying cause, if any (e.g. the OS spawn error).
	Err error
}

func (e *ExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("execution failed (%s): %v", e.Kind, e.Err)
	}
	if e.Justification != "" {
		return fmt.Sprintf("execution failed (%s): %s", e.Kind, e.Justification)
	}
	return fmt.Sprintf("execution failed (%s)", e.Kind)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// NewExecutionError builds an ExecutionError with an underlying cause.
func NewExecutionError(kind ErrorKind, justification string, err error) *ExecutionError {
	return &ExecutionError{Kind: kind, Justification: justification, Err: err}
}
