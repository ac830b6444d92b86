//go:build !windows

package executor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"syscall"
	"time"
)

// terminationGrace is how long a process group gets to exit after SIGTERM
// before it is killed outright.
const terminationGrace = 2 * time.Second

// processGroupSpawner launches children in their own process group so a
// timeout can terminate the whole tree, including descendants of an
// elevated command, and never leaves an orphaned elevated process behind.
type processGroupSpawner struct{}

func newProcessGroupSpawner() Spawner {
	return &processGroupSpawner{}
}

// Spawn implements the Spawner interface
func (s *processGroupSpawner) Spawn(ctx context.Context, argv []string, stdin io.Reader, env []string) (*SpawnOutcome, error) {
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return nil, fmt.Errorf("failed to find command %q: %w", argv[0], err)
	}

	// #nosec G204 - argv is classified and validated before reaching the spawner
	cmd := exec.Command(path, argv[1:]...)
	cmd.Stdin = stdin
	cmd.Env = env
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start command %q: %w", argv[0], err)
	}
	pid := cmd.Process.Pid

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	timedOut := false
	select {
	case <-ctx.Done():
		timedOut = true
		s.terminateGroup(pid, waitCh)
	case <-waitCh:
	}

	outcome := &SpawnOutcome{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		TimedOut: timedOut,
		Pid:      pid,
	}
	if cmd.ProcessState != nil {
		outcome.ExitCode = cmd.ProcessState.ExitCode()
	} else {
		outcome.ExitCode = -1
	}
	return outcome, nil
}

// terminateGroup tears down the child's process group: SIGTERM first, then
// SIGKILL after the grace period. It returns only once the child has been
// reaped, so no process with this command line survives the call.
func (s *processGroupSpawner) terminateGroup(pid int, waitCh <-chan error) {
	pgid, err := syscall.Getpgid(pid)
	if err != nil {
		// Process already gone; reap and return.
		_ = syscall.Kill(pid, syscall.SIGKILL)
		<-waitCh
		return
	}

	_ = syscall.Kill(-pgid, syscall.SIGTERM)
	select {
	case <-waitCh:
		return
	case <-time.After(terminationGrace):
	}

	_ = syscall.Kill(-pgid, syscall.SIGKILL)
	<-waitCh
}
