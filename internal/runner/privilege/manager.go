package privilege

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/Naveenkumar-Dev-21/CyberHelix/internal/runner/runnertypes"
)

// Manager decides how a command reaches its required privilege level and
// prepares the elevation vector. It never places the credential in argv;
// the secret is delivered to sudo over the child's stdin pipe.
type Manager struct {
	store   *Store
	logger  *slog.Logger
	metrics *Metrics

	// lookPath and probe are injectable for tests
	lookPath func(file string) (string, error)
	probe    func(ctx context.Context, sudoPath string) bool
}

// NewManager creates a privilege manager backed by the given credential
// store.
func NewManager(store *Store, logger *slog.Logger) *Manager {
	return &Manager{
		store:    store,
		logger:   logger,
		metrics:  &Metrics{},
		lookPath: exec.LookPath,
		probe:    probePasswordless,
	}
}

// Elevation is a prepared launch vector for one execution. Argv never
// contains the credential; Stdin feeds it to the elevation mechanism when
// one is in use. Cleanup must be called on every exit path.
type Elevation struct {
	Argv           []string
	Stdin          io.Reader
	Level          runnertypes.PrivilegeLevel
	UsedCredential bool

	secret []byte
}

// Cleanup wipes the materialized credential copy. Safe to call multiple
// times and on elevations that carried no credential.
func (e *Elevation) Cleanup() {
	for i := range e.secret {
		e.secret[i] = 0
	}
	e.secret = nil
	e.Stdin = nil
}

// Prepare resolves the elevation vector for a command at the given level.
//
// USER-level commands run directly. For elevated levels the zero-credential
// path (passwordless sudo already configured on the host) is attempted
// first; a stored credential is used only when that path is unavailable.
// With neither, ErrNoElevationPath is returned.
func (m *Manager) Prepare(ctx context.Context, cmd runnertypes.Command, level runnertypes.PrivilegeLevel) (*Elevation, error) {
	if !level.RequiresElevation() {
		return &Elevation{Argv: cmd.Argv(), Level: level}, nil
	}

	m.metrics.RecordElevationAttempt()

	sudoPath, err := m.lookPath("sudo")
	if err != nil {
		m.metrics.RecordElevationFailure(err)
		return nil, fmt.Errorf("%w: sudo not found: %w", ErrNoElevationPath, err)
	}

	if m.probe(ctx, sudoPath) {
		argv := append([]string{sudoPath, "-n", "--"}, cmd.Argv()...)
		m.logger.Debug("using passwordless elevation",
			"program", cmd.Program,
			"privilege_level", level.String())
		return &Elevation{Argv: argv, Level: level}, nil
	}

	secret := m.store.snapshot()
	if secret == nil {
		m.metrics.RecordElevationFailure(ErrNoElevationPath)
		return nil, fmt.Errorf("%w: no credential set and passwordless elevation unavailable", ErrNoElevationPath)
	}

	// -S reads the password from stdin, -k discards cached authentication
	// so a wrong credential fails deterministically, and the empty -p
	// prompt keeps stderr clean for capture.
	argv := append([]string{sudoPath, "-S", "-k", "-p", "", "--"}, cmd.Argv()...)
	feed := make([]byte, 0, len(secret)+1)
	feed = append(feed, secret...)
	feed = append(feed, '\n')
	for i := range secret {
		secret[i] = 0
	}

	m.logger.Debug("using credential elevation",
		"program", cmd.Program,
		"privilege_level", level.String())

	return &Elevation{
		Argv:           argv,
		Stdin:          bytes.NewReader(feed),
		Level:          level,
		UsedCredential: true,
		secret:         feed,
	}, nil
}

// PasswordlessAvailable reports whether the host allows elevation without
// a credential (sudo present and cached or NOPASSWD-configured).
func (m *Manager) PasswordlessAvailable(ctx context.Context) bool {
	sudoPath, err := m.lookPath("sudo")
	if err != nil {
		return false
	}
	return m.probe(ctx, sudoPath)
}

// RecordOutcome feeds the elevation result back into the metrics. Called by
// the executor once the child has been reaped.
func (m *Manager) RecordOutcome(success bool, err error) {
	if success {
		m.metrics.RecordElevationSuccess()
	} else {
		m.metrics.RecordElevationFailure(err)
	}
}

// Metrics returns a snapshot of the elevation metrics.
func (m *Manager) Metrics() MetricsSnapshot {
	return m.metrics.Snapshot()
}

// RedactSecret removes the stored credential from text. The executor runs
// all captured output through this before returning or logging it.
func (m *Manager) RedactSecret(text, placeholder string) string {
	return m.store.Redact(text, placeholder)
}

// IsAuthenticationFailure reports whether a finished elevated execution
// failed because sudo rejected the credential, based on the markers sudo
// prints before giving up.
func IsAuthenticationFailure(usedCredential bool, exitCode int, stderr string) bool {
	if !usedCredential || exitCode == 0 {
		return false
	}
	lower := strings.ToLower(stderr)
	return strings.Contains(lower, "incorrect password") ||
		strings.Contains(lower, "sorry, try again") ||
		strings.Contains(lower, "authentication failure") ||
		strings.Contains(lower, "no password was provided")
}

// probePasswordless checks whether sudo can validate without a password.
func probePasswordless(ctx context.Context, sudoPath string) bool {
	probe := exec.CommandContext(ctx, sudoPath, "-n", "-v")
	probe.Stdout = io.Discard
	probe.Stderr = io.Discard
	return probe.Run() == nil
}
