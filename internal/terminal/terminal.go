// Package terminal provides interactive-terminal detection and no-echo
// secret entry for the CLI front-end.
package terminal

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

// ErrNotInteractive is returned when a secret prompt is requested without
// an interactive terminal attached.
var ErrNotInteractive = errors.New("no interactive terminal available for secret entry")

// IsInteractive reports whether both stdout and stderr are attached to a
// terminal. Non-interactive sessions (pipes, CI) must source secrets
// elsewhere; the core never reads them from argv or files.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
}

// ReadSecret prompts on stderr and reads a secret from stdin with terminal
// echo disabled. The secret is never written back to the terminal.
func ReadSecret(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", ErrNotInteractive
	}

	fmt.Fprint(os.Stderr, prompt)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	return string(secret), nil
}
