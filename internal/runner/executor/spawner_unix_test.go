//go:build !windows

package executor

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessGroupSpawner_CapturesOutput(t *testing.T) {
	spawner := newProcessGroupSpawner()

	outcome, err := spawner.Spawn(context.Background(), []string{"sh", "-c", "echo out; echo err >&2"}, nil, os.Environ())

	require.NoError(t, err)
	assert.Equal(t, 0, outcome.ExitCode)
	assert.Equal(t, "out\n", outcome.Stdout)
	assert.Equal(t, "err\n", outcome.Stderr)
	assert.False(t, outcome.TimedOut)
}

func TestProcessGroupSpawner_ExitCode(t *testing.T) {
	spawner := newProcessGroupSpawner()

	outcome, err := spawner.Spawn(context.Background(), []string{"sh", "-c", "exit 3"}, nil, os.Environ())

	require.NoError(t, err)
	assert.Equal(t, 3, outcome.ExitCode)
}

func TestProcessGroupSpawner_FeedsStdin(t *testing.T) {
	spawner := newProcessGroupSpawner()

	outcome, err := spawner.Spawn(context.Background(), []string{"cat"}, strings.NewReader("fed over stdin"), os.Environ())

	require.NoError(t, err)
	assert.Equal(t, "fed over stdin", outcome.Stdout)
}

func TestProcessGroupSpawner_MissingBinary(t *testing.T) {
	spawner := newProcessGroupSpawner()

	_, err := spawner.Spawn(context.Background(), []string{"definitely-not-a-real-binary-name"}, nil, os.Environ())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "definitely-not-a-real-binary-name")
}

func TestProcessGroupSpawner_TimeoutKillsProcessGroup(t *testing.T) {
	spawner := newProcessGroupSpawner()
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	outcome, err := spawner.Spawn(ctx, []string{"sleep", "10"}, nil, os.Environ())
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.True(t, outcome.TimedOut)
	assert.Less(t, elapsed, 5*time.Second, "the group must be torn down promptly, not waited out")

	// The child must be gone once Spawn returns.
	err = syscall.Kill(outcome.Pid, 0)
	assert.ErrorIs(t, err, syscall.ESRCH, "no process with the child's pid may survive")
}

func TestProcessGroupSpawner_TimeoutKillsDescendants(t *testing.T) {
	spawner := newProcessGroupSpawner()
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	// The shell keeps a sleep child alive; both live in the same process
	// group and both must die on timeout.
	outcome, err := spawner.Spawn(ctx, []string{"sh", "-c", "sleep 10; sleep 10"}, nil, os.Environ())

	require.NoError(t, err)
	assert.True(t, outcome.TimedOut)

	// Killed descendants reparent to init and may linger as unreaped
	// zombies on hosts without a prompt reaper, so the group can still
	// answer kill(-pgid, 0). Nothing in the group may still be running.
	pgid := outcome.Pid
	deadline := time.Now().Add(2 * time.Second)
	for {
		running := runningGroupMembers(t, pgid)
		if len(running) == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("processes still running in group %d: %v", pgid, running)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

// runningGroupMembers returns the pids in the process group that are in
// any state other than zombie.
func runningGroupMembers(t *testing.T, pgid int) []int {
	t.Helper()

	entries, err := os.ReadDir("/proc")
	require.NoError(t, err)

	var running []int
	for _, entry := range entries {
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		data, err := os.ReadFile(filepath.Join("/proc", entry.Name(), "stat"))
		if err != nil {
			continue
		}
		// Fields after the parenthesized comm: state, ppid, pgrp, ...
		idx := bytes.LastIndexByte(data, ')')
		if idx < 0 {
			continue
		}
		fields := strings.Fields(string(data[idx+1:]))
		if len(fields) < 3 || fields[2] != strconv.Itoa(pgid) {
			continue
		}
		if fields[0] != "Z" {
			running = append(running, pid)
		}
	}
	return running
}
