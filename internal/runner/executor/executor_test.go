package executor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naveenkumar-Dev-21/CyberHelix/internal/redaction"
	"github.com/Naveenkumar-Dev-21/CyberHelix/internal/runner/audit"
	"github.com/Naveenkumar-Dev-21/CyberHelix/internal/runner/classify"
	"github.com/Naveenkumar-Dev-21/CyberHelix/internal/runner/privilege"
	"github.com/Naveenkumar-Dev-21/CyberHelix/internal/runner/runnertypes"
)

// spySpawner records spawn requests and plays back scripted outcomes
// without launching any process.
type spySpawner struct {
	calls   [][]string
	environ [][]string
	stdins  []string

	outcome *SpawnOutcome
	err     error
}

func (s *spySpawner) Spawn(_ context.Context, argv []string, stdin io.Reader, env []string) (*SpawnOutcome, error) {
	s.calls = append(s.calls, argv)
	s.environ = append(s.environ, env)
	if stdin != nil {
		fed, _ := io.ReadAll(stdin)
		s.stdins = append(s.stdins, string(fed))
	} else {
		s.stdins = append(s.stdins, "")
	}
	if s.err != nil {
		return nil, s.err
	}
	if s.outcome != nil {
		out := *s.outcome
		return &out, nil
	}
	return &SpawnOutcome{ExitCode: 0}, nil
}

type executorFixture struct {
	executor *DefaultExecutor
	spawner  *spySpawner
	store    *privilege.Store
}

// newFixture wires an executor against a spy spawner. sudoAvailable and
// passwordless control the simulated host elevation setup.
func newFixture(t *testing.T, sudoAvailable, passwordless bool) *executorFixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := privilege.NewStore()
	lookPath := func(string) (string, error) {
		if !sudoAvailable {
			return "", errors.New("executable file not found in $PATH")
		}
		return "/usr/bin/sudo", nil
	}
	probe := func(context.Context, string) bool { return passwordless }
	manager := privilege.NewManagerForTesting(store, logger, lookPath, probe)

	spawner := &spySpawner{}
	exec := NewDefaultExecutor(
		classify.NewStandardClassifier(),
		manager,
		audit.NewLogger(logger, nil, "01TESTRUN"),
		redaction.DefaultConfig(),
	)
	exec.spawner = spawner
	exec.environ = func() []string {
		return []string{"PATH=/usr/bin", "HOME=/home/operator", "PENTEST_SUDO_PASS=s3cr3t"}
	}
	return &executorFixture{executor: exec, spawner: spawner, store: store}
}

func command(t *testing.T, argv ...string) runnertypes.Command {
	t.Helper()
	cmd, err := runnertypes.NewCommand(argv)
	require.NoError(t, err)
	return cmd
}

func TestExecute_UnsafeCommandRequiresConfirmation(t *testing.T) {
	f := newFixture(t, true, true)

	result, err := f.executor.Execute(context.Background(), command(t, "aireplay-ng", "--deauth", "1", "-a", "AA:BB"), Options{})

	require.NotNil(t, result)
	require.NotNil(t, result.Err)
	assert.Equal(t, runnertypes.ErrorKindConfirmationRequired, result.Err.Kind)
	assert.Contains(t, result.Err.Justification, "deauthentication")
	assert.Error(t, err)

	// The gate must hold before any process is launched.
	assert.Empty(t, f.spawner.calls)
}

func TestExecute_ConfirmedUnsafeCommandRuns(t *testing.T) {
	f := newFixture(t, true, true)

	result, err := f.executor.Execute(context.Background(), command(t, "aireplay-ng", "--deauth", "1", "-a", "AA:BB"), Options{Confirmed: true})

	require.NoError(t, err)
	assert.Nil(t, result.Err)
	require.Len(t, f.spawner.calls, 1)
	assert.Equal(t, "/usr/bin/sudo", f.spawner.calls[0][0])
	assert.Equal(t, runnertypes.PrivilegeSudo, result.UsedLevel)
}

func TestExecute_InvalidCommand(t *testing.T) {
	f := newFixture(t, true, true)

	result, err := f.executor.Execute(context.Background(), runnertypes.Command{}, Options{})

	require.NotNil(t, result.Err)
	assert.Equal(t, runnertypes.ErrorKindInvalidCommand, result.Err.Kind)
	assert.ErrorIs(t, err, result.Err)
	assert.Empty(t, f.spawner.calls, "classification errors never proceed to execution")
}

func TestExecute_UserLevelCommand(t *testing.T) {
	f := newFixture(t, false, false)
	f.spawner.outcome = &SpawnOutcome{ExitCode: 0, Stdout: "hello\n"}

	result, err := f.executor.Execute(context.Background(), command(t, "echo", "hello"), Options{})

	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "hello\n", result.Stdout)
	assert.Equal(t, runnertypes.PrivilegeUser, result.UsedLevel)

	// User-level commands run directly, without any elevation wrapper.
	require.Len(t, f.spawner.calls, 1)
	assert.Equal(t, []string{"echo", "hello"}, f.spawner.calls[0])
}

func TestExecute_SensitiveEnvWithheldFromChild(t *testing.T) {
	f := newFixture(t, true, true)

	_, err := f.executor.Execute(context.Background(), command(t, "echo", "hi"), Options{})
	require.NoError(t, err)

	require.Len(t, f.spawner.environ, 1)
	for _, entry := range f.spawner.environ[0] {
		assert.NotContains(t, entry, "s3cr3t")
		assert.NotContains(t, entry, "SUDO_PASS")
	}
	assert.Contains(t, f.spawner.environ[0], "PATH=/usr/bin")
}

func TestExecute_ElevationUnavailable(t *testing.T) {
	f := newFixture(t, true, false) // sudo present, passwordless not configured, no credential

	result, err := f.executor.Execute(context.Background(), command(t, "tcpdump", "-i", "eth0"), Options{})

	require.NotNil(t, result.Err)
	assert.Equal(t, runnertypes.ErrorKindElevationUnavailable, result.Err.Kind)
	assert.NotEmpty(t, result.Err.Justification, "operator needs the justification to decide")
	assert.ErrorIs(t, err, result.Err)
	assert.Empty(t, f.spawner.calls)
}

func TestExecute_ElevationUnavailableUsesFallback(t *testing.T) {
	f := newFixture(t, true, false)
	f.spawner.outcome = &SpawnOutcome{ExitCode: 0, Stdout: "fallback ran\n"}

	fallback := command(t, "nmap", "-sT", "10.0.0.1")
	result, err := f.executor.Execute(context.Background(), command(t, "nmap", "-sS", "10.0.0.1"), Options{Fallback: &fallback})

	require.NoError(t, err)
	assert.Nil(t, result.Err)
	assert.Equal(t, runnertypes.PrivilegeUser, result.UsedLevel)

	require.Len(t, f.spawner.calls, 1)
	assert.Equal(t, []string{"nmap", "-sT", "10.0.0.1"}, f.spawner.calls[0])
}

func TestExecute_CredentialElevation(t *testing.T) {
	f := newFixture(t, true, false)
	f.store.Set("s3cr3t")
	f.spawner.outcome = &SpawnOutcome{ExitCode: 0, Stdout: "ok\n"}

	result, err := f.executor.Execute(context.Background(), command(t, "tcpdump", "-i", "eth0"), Options{})

	require.NoError(t, err)
	assert.Nil(t, result.Err)
	assert.Equal(t, runnertypes.PrivilegeSudo, result.UsedLevel)

	require.Len(t, f.spawner.calls, 1)
	argv := f.spawner.calls[0]
	assert.Equal(t, "/usr/bin/sudo", argv[0])
	assert.Contains(t, argv, "-S")
	for _, token := range argv {
		assert.NotContains(t, token, "s3cr3t", "credential must never appear in argv")
	}

	// The credential reaches the elevation mechanism via stdin only.
	assert.Equal(t, "s3cr3t\n", f.spawner.stdins[0])
}

func TestExecute_CredentialNeverInResultFields(t *testing.T) {
	f := newFixture(t, true, false)
	f.store.Set("s3cr3t")

	// Simulate a tool that echoes everything it read, secret included.
	f.spawner.outcome = &SpawnOutcome{
		ExitCode: 0,
		Stdout:   "invoked with password s3cr3t over stdin\n",
		Stderr:   "debug: fed s3cr3t\n",
	}

	result, err := f.executor.Execute(context.Background(), command(t, "tcpdump", "-i", "eth0"), Options{})

	require.NoError(t, err)
	assert.NotContains(t, result.Stdout, "s3cr3t")
	assert.NotContains(t, result.Stderr, "s3cr3t")
	assert.Contains(t, result.Stdout, "[REDACTED]")
}

func TestExecute_ElevationRejected(t *testing.T) {
	f := newFixture(t, true, false)
	f.store.Set("wrongpass")
	f.spawner.outcome = &SpawnOutcome{
		ExitCode: 1,
		Stderr:   "sudo: 1 incorrect password attempt\n",
	}

	result, err := f.executor.Execute(context.Background(), command(t, "nmap", "-sS", "10.0.0.1"), Options{})

	require.NotNil(t, result.Err)
	assert.Equal(t, runnertypes.ErrorKindElevationRejected, result.Err.Kind)
	assert.ErrorIs(t, err, result.Err)

	assert.NotContains(t, result.Stdout, "wrongpass")
	assert.NotContains(t, result.Stderr, "wrongpass")
	assert.NotContains(t, result.Err.Error(), "wrongpass")
}

func TestExecute_SpawnFailure(t *testing.T) {
	f := newFixture(t, false, false)
	f.spawner.err = errors.New(`failed to find command "nosuchtool": executable file not found in $PATH`)

	result, err := f.executor.Execute(context.Background(), command(t, "nosuchtool"), Options{})

	require.NotNil(t, result.Err)
	assert.Equal(t, runnertypes.ErrorKindSpawnFailure, result.Err.Kind)
	assert.Contains(t, err.Error(), "nosuchtool")
}

func TestExecute_TimeoutOutcome(t *testing.T) {
	f := newFixture(t, false, false)
	f.spawner.outcome = &SpawnOutcome{ExitCode: -1, TimedOut: true}

	result, err := f.executor.Execute(context.Background(), command(t, "sleep", "10"), Options{Timeout: time.Second})

	require.NotNil(t, result.Err)
	assert.Equal(t, runnertypes.ErrorKindTimeout, result.Err.Kind)
	assert.ErrorIs(t, err, result.Err)
	assert.Greater(t, result.Duration, time.Duration(0), "timeout results report elapsed time")
}

func TestExecute_CancellationIsNotATimeout(t *testing.T) {
	f := newFixture(t, false, false)
	f.spawner.outcome = &SpawnOutcome{ExitCode: -1, TimedOut: true}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := f.executor.Execute(ctx, command(t, "sleep", "10"), Options{Timeout: time.Minute})

	require.NotNil(t, result.Err)
	assert.Equal(t, runnertypes.ErrorKindCancelled, result.Err.Kind)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecute_NonZeroExitIsNotAnError(t *testing.T) {
	f := newFixture(t, false, false)
	f.spawner.outcome = &SpawnOutcome{ExitCode: 3, Stderr: "grep: no matches\n"}

	result, err := f.executor.Execute(context.Background(), command(t, "grep", "pattern", "file"), Options{})

	require.NoError(t, err)
	assert.Nil(t, result.Err, "a tool's non-zero exit is a result, not a structured failure")
	assert.Equal(t, 3, result.ExitCode)
}
