// Package config provides loading and validation of classification rule
// extensions. Site operators add tool signatures as TOML data; new
// signatures never require new code paths.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/Naveenkumar-Dev-21/CyberHelix/internal/runner/classify"
	"github.com/Naveenkumar-Dev-21/CyberHelix/internal/runner/runnertypes"
)

// Error definitions for the config package
var (
	// ErrRuleNameRequired is returned when a rule has no name
	ErrRuleNameRequired = errors.New("rule name is required")
	// ErrRuleProgramsRequired is returned when a rule lists no programs
	ErrRuleProgramsRequired = errors.New("rule must list at least one program")
	// ErrRuleJustificationRequired is returned when a rule has no justification
	ErrRuleJustificationRequired = errors.New("rule justification is required")
)

// RuleSpec is the TOML shape of one classification rule extension.
type RuleSpec struct {
	Name                 string   `toml:"name"`
	Programs             []string `toml:"programs"`
	FlagsAny             []string `toml:"flags_any"`
	PrivilegeLevel       string   `toml:"privilege_level"`
	SafeForAutomation    bool     `toml:"safe_for_automation"`
	RequiresConfirmation bool     `toml:"requires_confirmation"`
	Justification        string   `toml:"justification"`
}

// RulesFile is the top-level TOML document.
type RulesFile struct {
	Rules []RuleSpec `toml:"rules"`
}

// Loader handles loading and validating rule extension files
type Loader struct{}

// NewLoader creates a new rule extension loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFile reads and parses a rule extension file from disk.
func (l *Loader) LoadFile(path string) ([]classify.Rule, error) {
	// #nosec G304 - the path comes from the operator's own command line
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}
	rules, err := l.Load(content)
	if err != nil {
		return nil, fmt.Errorf("invalid rules file %s: %w", path, err)
	}
	return rules, nil
}

// Load parses and validates rule extensions from TOML content.
func (l *Loader) Load(content []byte) ([]classify.Rule, error) {
	var file RulesFile
	if err := toml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}

	rules := make([]classify.Rule, 0, len(file.Rules))
	for i, spec := range file.Rules {
		rule, err := l.buildRule(spec)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, spec.Name, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (l *Loader) buildRule(spec RuleSpec) (classify.Rule, error) {
	if spec.Name == "" {
		return classify.Rule{}, ErrRuleNameRequired
	}
	if len(spec.Programs) == 0 {
		return classify.Rule{}, ErrRuleProgramsRequired
	}
	if spec.Justification == "" {
		return classify.Rule{}, ErrRuleJustificationRequired
	}

	level, err := runnertypes.ParsePrivilegeLevel(spec.PrivilegeLevel)
	if err != nil {
		return classify.Rule{}, err
	}

	return classify.Rule{
		Name:                 spec.Name,
		Programs:             spec.Programs,
		FlagsAny:             spec.FlagsAny,
		Level:                level,
		SafeForAutomation:    spec.SafeForAutomation,
		RequiresConfirmation: spec.RequiresConfirmation,
		Justification:        spec.Justification,
	}, nil
}
