// Package classify provides command classification for the privileged
// execution core. It maps a command to the privilege level it requires and
// decides whether it is safe to run unattended, using a declarative rule
// table plus pattern heuristics.
package classify

import (
	"strings"

	"github.com/Naveenkumar-Dev-21/CyberHelix/internal/runner/runnertypes"
)

// Classifier interface defines methods for classifying commands
type Classifier interface {
	Classify(cmd runnertypes.Command) (runnertypes.TaskClassification, error)
}

// StandardClassifier implements classification using the static rule table
// and pattern heuristics. It is pure and safe for concurrent use.
type StandardClassifier struct {
	rules             []Rule
	dangerousPatterns []DangerousPattern
	rawSocketPrograms map[string]string
}

// NewStandardClassifier creates a classifier with the built-in rule table.
func NewStandardClassifier() *StandardClassifier {
	return NewStandardClassifierWithRules(nil)
}

// NewStandardClassifierWithRules creates a classifier whose rule table is
// extended with additional rules. Extensions are consulted before the
// built-in table so operators can override built-in entries.
func NewStandardClassifierWithRules(extra []Rule) *StandardClassifier {
	rules := make([]Rule, 0, len(extra)+len(defaultRules))
	rules = append(rules, extra...)
	rules = append(rules, defaultRules...)
	return &StandardClassifier{
		rules:             rules,
		dangerousPatterns: dangerousPatterns,
		rawSocketPrograms: rawSocketPrograms,
	}
}

// Classify returns exactly one TaskClassification for the command,
// deterministically and with no side effects. Matching order: exact rule
// table, dangerous-pattern heuristic, raw-socket fallback, then the
// open-world default (least privilege, automation-safe). Unknown commands
// never produce an error; only an empty program token does.
func (c *StandardClassifier) Classify(cmd runnertypes.Command) (runnertypes.TaskClassification, error) {
	if cmd.Program == "" {
		return runnertypes.TaskClassification{}, runnertypes.ErrInvalidCommand
	}

	program := programBase(cmd.Program)

	for _, rule := range c.rules {
		if rule.matches(program, cmd.Args) {
			return runnertypes.TaskClassification{
				Signature:            rule.Name,
				Level:                rule.Level,
				SafeForAutomation:    rule.SafeForAutomation,
				RequiresConfirmation: rule.RequiresConfirmation,
				Justification:        rule.Justification,
			}, nil
		}
	}

	// No exact rule matched. A dangerous argument pattern forces operator
	// confirmation regardless of the privilege level inferred below.
	level, levelJustification := c.fallbackLevel(program)
	for _, pattern := range c.dangerousPatterns {
		if pattern.matches(cmd.Args) {
			return runnertypes.TaskClassification{
				Signature:            "heuristic/dangerous-pattern:" + pattern.Name,
				Level:                level,
				SafeForAutomation:    false,
				RequiresConfirmation: true,
				Justification:        pattern.Justification,
			}, nil
		}
	}

	signature := "heuristic/default"
	if level.RequiresElevation() {
		signature = "heuristic/raw-socket"
	}
	return runnertypes.TaskClassification{
		Signature:            signature,
		Level:                level,
		SafeForAutomation:    true,
		RequiresConfirmation: false,
		Justification:        levelJustification,
	}, nil
}

// fallbackLevel infers a privilege level for programs with no table entry.
func (c *StandardClassifier) fallbackLevel(program string) (runnertypes.PrivilegeLevel, string) {
	if reason, ok := c.rawSocketPrograms[program]; ok {
		return runnertypes.PrivilegeSudo, reason
	}
	return runnertypes.PrivilegeUser, "no known privilege requirement; defaulting to user-level execution"
}

// programBase strips any directory prefix so /usr/bin/nmap and nmap
// classify identically.
func programBase(program string) string {
	if idx := strings.LastIndexByte(program, '/'); idx >= 0 {
		return program[idx+1:]
	}
	return program
}
