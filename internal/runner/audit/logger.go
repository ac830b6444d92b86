// Package audit provides structured audit logging for privilege decisions
// and privileged command execution. Records carry the program name and the
// matched classification signature, never the full argument vector and
// never a secret value.
package audit

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/Naveenkumar-Dev-21/CyberHelix/internal/redaction"
	"github.com/Naveenkumar-Dev-21/CyberHelix/internal/runner/runnertypes"
)

// Logger provides structured audit logging functionality
type Logger struct {
	logger *slog.Logger
	redact *redaction.Config
	runID  string
}

// NewLogger creates a new audit logger instance. All attributes pass
// through the redaction configuration before reaching the sink.
func NewLogger(logger *slog.Logger, redact *redaction.Config, runID string) *Logger {
	if redact == nil {
		redact = redaction.DefaultConfig()
	}
	return &Logger{logger: logger, redact: redact, runID: runID}
}

// Record is one audit trail entry for a single execution attempt.
type Record struct {
	Program        string
	Signature      string
	Level          runnertypes.PrivilegeLevel
	AutomationSafe bool
	Justification  string
	Outcome        string
	Duration       time.Duration
}

// Outcome values for audit records
const (
	OutcomeSuccess              = "success"
	OutcomeNonZeroExit          = "non_zero_exit"
	OutcomeConfirmationRequired = "confirmation_required"
	OutcomeElevationUnavailable = "elevation_unavailable"
	OutcomeElevationRejected    = "elevation_rejected"
	OutcomeTimeout              = "timeout"
	OutcomeCancelled            = "cancelled"
	OutcomeSpawnFailure         = "spawn_failure"
	OutcomeInvalidCommand       = "invalid_command"
	OutcomeFallbackToUser       = "fallback_to_user"
)

// LogExecution writes the audit record for one execution attempt.
func (a *Logger) LogExecution(ctx context.Context, rec Record) {
	attrs := []slog.Attr{
		slog.String("audit_type", "privileged_execution"),
		slog.Int64("timestamp", time.Now().Unix()),
		slog.String("run_id", a.runID),
		slog.String("program", rec.Program),
		slog.String("command_signature", rec.Signature),
		slog.String("privilege_level", rec.Level.String()),
		slog.Bool("automation_safe", rec.AutomationSafe),
		slog.String("justification", rec.Justification),
		slog.String("outcome", rec.Outcome),
		slog.Int64("duration_ms", rec.Duration.Milliseconds()),
		slog.Int("process_id", os.Getpid()),
	}
	for i := range attrs {
		attrs[i] = a.redact.RedactLogAttribute(attrs[i])
	}

	level := slog.LevelInfo
	if rec.Outcome != OutcomeSuccess && rec.Outcome != OutcomeFallbackToUser {
		level = slog.LevelWarn
	}
	a.logger.LogAttrs(ctx, level, "Command execution audited", attrs...)
}

// LogElevation writes an audit record for one elevation attempt.
func (a *Logger) LogElevation(ctx context.Context, program, signature string, level runnertypes.PrivilegeLevel, success bool, duration time.Duration) {
	attrs := []slog.Attr{
		slog.String("audit_type", "privilege_elevation"),
		slog.Int64("timestamp", time.Now().Unix()),
		slog.String("run_id", a.runID),
		slog.String("program", program),
		slog.String("command_signature", signature),
		slog.String("privilege_level", level.String()),
		slog.Bool("success", success),
		slog.Int64("duration_ms", duration.Milliseconds()),
		slog.Int("user_id", os.Getuid()),
		slog.Int("process_id", os.Getpid()),
	}
	for i := range attrs {
		attrs[i] = a.redact.RedactLogAttribute(attrs[i])
	}

	if success {
		a.logger.LogAttrs(ctx, slog.LevelInfo, "Privilege elevation successful", attrs...)
	} else {
		a.logger.LogAttrs(ctx, slog.LevelWarn, "Privilege elevation failed", attrs...)
	}
}
