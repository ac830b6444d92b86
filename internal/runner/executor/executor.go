// Package executor provides privilege-aware command execution. One entry
// point runs the whole pipeline for every caller, so elevation decisions,
// confirmation gating, credential handling, and audit logging are never
// duplicated at call sites.
package executor

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/Naveenkumar-Dev-21/CyberHelix/internal/redaction"
	"github.com/Naveenkumar-Dev-21/CyberHelix/internal/runner/audit"
	"github.com/Naveenkumar-Dev-21/CyberHelix/internal/runner/classify"
	"github.com/Naveenkumar-Dev-21/CyberHelix/internal/runner/privilege"
	"github.com/Naveenkumar-Dev-21/CyberHelix/internal/runner/runnertypes"
)

// DefaultExecutor is the default implementation of CommandExecutor
type DefaultExecutor struct {
	classifier classify.Classifier
	privileges *privilege.Manager
	auditor    *audit.Logger
	redact     *redaction.Config
	spawner    Spawner
	environ    func() []string
}

// NewDefaultExecutor creates an executor wired to the given classifier,
// privilege manager, and audit logger.
func NewDefaultExecutor(classifier classify.Classifier, privileges *privilege.Manager, auditor *audit.Logger, redact *redaction.Config) *DefaultExecutor {
	if redact == nil {
		redact = redaction.DefaultConfig()
	}
	return &DefaultExecutor{
		classifier: classifier,
		privileges: privileges,
		auditor:    auditor,
		redact:     redact,
		spawner:    newProcessGroupSpawner(),
		environ:    os.Environ,
	}
}

// Execute implements the CommandExecutor interface.
func (e *DefaultExecutor) Execute(ctx context.Context, cmd runnertypes.Command, opts Options) (*runnertypes.ExecutionResult, error) {
	start := time.Now()

	classification, err := e.classifier.Classify(cmd)
	if err != nil {
		result := e.failure(runnertypes.ErrorKindInvalidCommand, "", err, runnertypes.PrivilegeUser, time.Since(start))
		e.audit(ctx, cmd.Program, classification, audit.OutcomeInvalidCommand, result.Duration)
		return result, result.Err
	}

	if !classification.SafeForAutomation && !opts.Confirmed {
		result := e.failure(runnertypes.ErrorKindConfirmationRequired, classification.Justification, nil, classification.Level, time.Since(start))
		e.audit(ctx, cmd.Program, classification, audit.OutcomeConfirmationRequired, result.Duration)
		return result, result.Err
	}

	elevation, err := e.privileges.Prepare(ctx, cmd, classification.Level)
	if err != nil {
		if opts.Fallback != nil {
			e.audit(ctx, cmd.Program, classification, audit.OutcomeFallbackToUser, time.Since(start))
			fallbackOpts := opts
			fallbackOpts.Fallback = nil
			return e.Execute(ctx, *opts.Fallback, fallbackOpts)
		}
		result := e.failure(runnertypes.ErrorKindElevationUnavailable, classification.Justification, err, classification.Level, time.Since(start))
		e.audit(ctx, cmd.Program, classification, audit.OutcomeElevationUnavailable, result.Duration)
		return result, result.Err
	}
	defer elevation.Cleanup()

	runCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	// Secrets are withheld from the child environment; the credential, if
	// any, exists only on the elevation stdin pipe.
	env := e.redact.FilterEnviron(e.environ())

	outcome, spawnErr := e.spawner.Spawn(runCtx, elevation.Argv, elevation.Stdin, env)
	duration := time.Since(start)

	if spawnErr != nil {
		if elevation.Level.RequiresElevation() {
			e.privileges.RecordOutcome(false, spawnErr)
		}
		result := e.failure(runnertypes.ErrorKindSpawnFailure, classification.Justification, spawnErr, elevation.Level, duration)
		e.audit(ctx, cmd.Program, classification, audit.OutcomeSpawnFailure, duration)
		return result, result.Err
	}

	if outcome.TimedOut {
		// Deadline expiry and caller cancellation both tear the group
		// down, but only the former is a Timeout.
		cause := runCtx.Err()
		kind := runnertypes.ErrorKindTimeout
		outcomeLabel := audit.OutcomeTimeout
		if errors.Is(cause, context.Canceled) {
			kind = runnertypes.ErrorKindCancelled
			outcomeLabel = audit.OutcomeCancelled
		}
		if cause == nil {
			cause = context.DeadlineExceeded
		}
		if elevation.Level.RequiresElevation() {
			e.privileges.RecordOutcome(false, cause)
		}
		result := e.failure(kind, classification.Justification, cause, elevation.Level, duration)
		result.Stdout = e.scrub(outcome.Stdout)
		result.Stderr = e.scrub(outcome.Stderr)
		result.ExitCode = outcome.ExitCode
		e.audit(ctx, cmd.Program, classification, outcomeLabel, duration)
		return result, result.Err
	}

	stdout := e.scrub(outcome.Stdout)
	stderr := e.scrub(outcome.Stderr)

	if privilege.IsAuthenticationFailure(elevation.UsedCredential, outcome.ExitCode, stderr) {
		e.privileges.RecordOutcome(false, runnertypes.NewExecutionError(runnertypes.ErrorKindElevationRejected, classification.Justification, nil))
		e.auditor.LogElevation(ctx, cmd.Program, classification.Signature, elevation.Level, false, duration)
		result := e.failure(runnertypes.ErrorKindElevationRejected, classification.Justification, nil, elevation.Level, duration)
		result.Stdout = stdout
		result.Stderr = stderr
		result.ExitCode = outcome.ExitCode
		e.audit(ctx, cmd.Program, classification, audit.OutcomeElevationRejected, duration)
		return result, result.Err
	}

	if elevation.Level.RequiresElevation() {
		e.privileges.RecordOutcome(true, nil)
		e.auditor.LogElevation(ctx, cmd.Program, classification.Signature, elevation.Level, true, duration)
	}

	result := &runnertypes.ExecutionResult{
		ExitCode:  outcome.ExitCode,
		Stdout:    stdout,
		Stderr:    stderr,
		Duration:  duration,
		UsedLevel: elevation.Level,
	}

	outcomeLabel := audit.OutcomeSuccess
	if outcome.ExitCode != 0 {
		outcomeLabel = audit.OutcomeNonZeroExit
	}
	e.audit(ctx, cmd.Program, classification, outcomeLabel, duration)

	return result, nil
}

// failure builds a structured failure result.
func (e *DefaultExecutor) failure(kind runnertypes.ErrorKind, justification string, cause error, level runnertypes.PrivilegeLevel, duration time.Duration) *runnertypes.ExecutionResult {
	return &runnertypes.ExecutionResult{
		ExitCode:  -1,
		Duration:  duration,
		UsedLevel: level,
		Err:       runnertypes.NewExecutionError(kind, justification, cause),
	}
}

// scrub removes the session credential from captured output. Tools that
// echo everything they read must not leak the secret into results or logs.
func (e *DefaultExecutor) scrub(text string) string {
	return e.privileges.RedactSecret(text, e.redact.Placeholder)
}

func (e *DefaultExecutor) audit(ctx context.Context, program string, classification runnertypes.TaskClassification, outcome string, duration time.Duration) {
	e.auditor.LogExecution(ctx, audit.Record{
		Program:        program,
		Signature:      classification.Signature,
		Level:          classification.Level,
		AutomationSafe: classification.SafeForAutomation,
		Justification:  classification.Justification,
		Outcome:        outcome,
		Duration:       duration,
	})
}
