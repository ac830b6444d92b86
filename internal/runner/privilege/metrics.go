package privilege

import (
	"sync"
	"time"
)

// Metrics contains operational counters for elevation attempts. The last
// error is stored as a string produced after redaction-safe formatting;
// elevation errors never embed the credential.
type Metrics struct {
	mu                 sync.RWMutex
	elevationAttempts  int64
	elevationSuccesses int64
	elevationFailures  int64
	lastElevationTime  time.Time
	lastError          string
}

// MetricsSnapshot is an immutable copy of the metrics for reporting.
type MetricsSnapshot struct {
	ElevationAttempts  int64     `json:"elevation_attempts"`
	ElevationSuccesses int64     `json:"elevation_successes"`
	ElevationFailures  int64     `json:"elevation_failures"`
	LastElevationTime  time.Time `json:"last_elevation_time"`
	LastError          string    `json:"last_error,omitempty"`
	SuccessRate        float64   `json:"success_rate"`
}

// RecordElevationAttempt records that an elevation vector was requested
func (m *Metrics) RecordElevationAttempt() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.elevationAttempts++
}

// RecordElevationSuccess records a successful elevated execution
func (m *Metrics) RecordElevationSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.elevationSuccesses++
	m.lastElevationTime = time.Now()
}

// RecordElevationFailure records a failed elevation
func (m *Metrics) RecordElevationFailure(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.elevationFailures++
	if err != nil {
		m.lastError = err.Error()
	}
}

// Snapshot returns a thread-safe copy of the current metrics
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := MetricsSnapshot{
		ElevationAttempts:  m.elevationAttempts,
		ElevationSuccesses: m.elevationSuccesses,
		ElevationFailures:  m.elevationFailures,
		LastElevationTime:  m.lastElevationTime,
		LastError:          m.lastError,
	}
	if m.elevationAttempts > 0 {
		snapshot.SuccessRate = float64(m.elevationSuccesses) / float64(m.elevationAttempts)
	}
	return snapshot
}
