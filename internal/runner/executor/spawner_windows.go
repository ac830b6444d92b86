//go:build windows

package executor

import (
	"context"
	"errors"
	"io"
)

// ErrPlatformNotSupported is returned on platforms without process-group
// semantics and a sudo-style elevation mechanism.
var ErrPlatformNotSupported = errors.New("privileged execution is not supported on this platform")

type processGroupSpawner struct{}

func newProcessGroupSpawner() Spawner {
	return &processGroupSpawner{}
}

// Spawn implements the Spawner interface
func (s *processGroupSpawner) Spawn(_ context.Context, _ []string, _ io.Reader, _ []string) (*SpawnOutcome, error) {
	return nil, ErrPlatformNotSupported
}
