package executor

import (
	"context"
	"io"
	"time"

	"github.com/Naveenkumar-Dev-21/CyberHelix/internal/runner/runnertypes"
)

// CommandExecutor defines the interface for privilege-aware command execution
type CommandExecutor interface {
	// Execute runs the full pipeline for one command: classify, gate on
	// confirmation, elevate if needed, spawn, wait, clean up. The returned
	// result is always non-nil; structured failures are carried in
	// result.Err and mirrored in the error return for errors.Is/As.
	Execute(ctx context.Context, cmd runnertypes.Command, opts Options) (*runnertypes.ExecutionResult, error)
}

// Options are the caller-controlled knobs for one execution.
type Options struct {
	// Timeout bounds the child's wall-clock runtime. Zero means no limit.
	// On expiry the whole process group is terminated.
	Timeout time.Duration

	// Confirmed indicates an operator approved this specific invocation.
	// Commands classified unsafe for automation refuse to run without it.
	// Confirmation is the caller's responsibility, never inferred here.
	Confirmed bool

	// Fallback, when set, is a user-level variant of the task to attempt
	// if elevation is required but unavailable.
	Fallback *runnertypes.Command
}

// SpawnOutcome is what the spawner observed for one child process.
type SpawnOutcome struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
	Pid      int
}

// Spawner launches a child process and reaps it. A non-nil error means the
// process could not be started at all; everything after a successful start
// is reported in the outcome.
type Spawner interface {
	Spawn(ctx context.Context, argv []string, stdin io.Reader, env []string) (*SpawnOutcome, error)
}
