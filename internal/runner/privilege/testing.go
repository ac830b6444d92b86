package privilege

import (
	"context"
	"log/slog"
)

// NewManagerForTesting creates a Manager with the sudo lookup and the
// passwordless probe replaced, so elevation paths can be exercised without
// a real sudo installation. Test support only.
func NewManagerForTesting(store *Store, logger *slog.Logger, lookPath func(string) (string, error), probe func(context.Context, string) bool) *Manager {
	m := NewManager(store, logger)
	if lookPath != nil {
		m.lookPath = lookPath
	}
	if probe != nil {
		m.probe = probe
	}
	return m
}
