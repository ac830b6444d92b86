// Package runnertypes defines the shared value types used by the command
// classification and privileged execution subsystem: commands, privilege
// levels, classification results, and execution results.
package runnertypes

import (
	"fmt"
	"strings"
	"time"
)

// Command is an immutable program invocation: the program name followed by
// its arguments. Callers must not place secrets in the argument vector.
type Command struct {
	Program string
	Args    []string
}

// NewCommand constructs a Command from an argument vector. The first token
// is the program name and must be non-empty.
func NewCommand(argv []string) (Command, error) {
	if len(argv) == 0 || argv[0] == "" {
		return Command{}, ErrInvalidCommand
	}
	args := make([]string, len(argv)-1)
	copy(args, argv[1:])
	return Command{Program: argv[0], Args: args}, nil
}

// Argv returns the full argument vector (program followed by arguments)
// as a fresh slice.
func (c Command) Argv() []string {
	argv := make([]string, 0, len(c.Args)+1)
	argv = append(argv, c.Program)
	argv = append(argv, c.Args...)
	return argv
}

// String returns a display form of the command. Intended for interactive
// output, not for audit records (which carry only the program name and
// matched signature).
func (c Command) String() string {
	return strings.Join(c.Argv(), " ")
}

// PrivilegeLevel represents the privilege required to execute a command.
// Levels are ordered by required capability, not by trust.
type PrivilegeLevel int

const (
	// PrivilegeUser indicates execution with the caller's ambient privileges
	PrivilegeUser PrivilegeLevel = iota

	// PrivilegeNetwork indicates commands needing raw-socket or low-port
	// capability; treated as elevation-required
	PrivilegeNetwork

	// PrivilegeSudo indicates explicit elevation to an administrative identity
	PrivilegeSudo

	// PrivilegeSystem indicates elevation plus system-level capability,
	// e.g. network interface reconfiguration
	PrivilegeSystem
)

// Privilege level string constants used for string representation and parsing.
const (
	UserLevelString    = "user"
	NetworkLevelString = "network"
	SudoLevelString    = "sudo"
	SystemLevelString  = "system"
)

// String returns a string representation of PrivilegeLevel
func (l PrivilegeLevel) String() string {
	switch l {
	case PrivilegeUser:
		return UserLevelString
	case PrivilegeNetwork:
		return NetworkLevelString
	case PrivilegeSudo:
		return SudoLevelString
	case PrivilegeSystem:
		return SystemLevelString
	default:
		return UserLevelString
	}
}

// ParsePrivilegeLevel converts a string to PrivilegeLevel for rule
// configuration files.
func ParsePrivilegeLevel(s string) (PrivilegeLevel, error) {
	switch s {
	case UserLevelString:
		return PrivilegeUser, nil
	case NetworkLevelString:
		return PrivilegeNetwork, nil
	case SudoLevelString:
		return PrivilegeSudo, nil
	case SystemLevelString:
		return PrivilegeSystem, nil
	default:
		return PrivilegeUser, fmt.Errorf("%w: %s (supported: user, network, sudo, system)", ErrInvalidPrivilegeLevel, s)
	}
}

// RequiresElevation reports whether the level needs more than the caller's
// ambient privileges.
func (l PrivilegeLevel) RequiresElevation() bool {
	return l > PrivilegeUser
}

// TaskClassification is the classifier's verdict for a single command.
// Produced fresh per classification call and never mutated afterwards.
type TaskClassification struct {
	// Signature identifies the rule or heuristic that matched
	Signature string

	// Level is the privilege level required to run the command
	Level PrivilegeLevel

	// SafeForAutomation reports whether the command may run unattended
	SafeForAutomation bool

	// RequiresConfirmation reports whether an operator must approve each
	// invocation before execution
	RequiresConfirmation bool

	// Justification names the rule or heuristic that fired, for audit
	// logging. Always non-empty.
	Justification string
}

// ExecutionResult is the outcome of one execution attempt. Immutable once
// returned to the caller.
type ExecutionResult struct {
	ExitCode  int
	Stdout    string
	Stderr    string
	Duration  time.Duration
	UsedLevel PrivilegeLevel
	Err       *ExecutionError
}

// Failed reports whether the attempt ended in a structured error.
func (r *ExecutionResult) Failed() bool {
	return r.Err != nil
}
