// Package main provides the cyberhelix command line front-end: it hands
// argument vectors built by upstream tooling to the classification and
// privileged execution core and renders the structured results.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/Naveenkumar-Dev-21/CyberHelix/internal/logging"
	"github.com/Naveenkumar-Dev-21/CyberHelix/internal/redaction"
	"github.com/Naveenkumar-Dev-21/CyberHelix/internal/runner/audit"
	"github.com/Naveenkumar-Dev-21/CyberHelix/internal/runner/classify"
	"github.com/Naveenkumar-Dev-21/CyberHelix/internal/runner/config"
	"github.com/Naveenkumar-Dev-21/CyberHelix/internal/runner/executor"
	"github.com/Naveenkumar-Dev-21/CyberHelix/internal/runner/privilege"
)

// ErrCommandRequired is returned when no argument vector was given
var ErrCommandRequired = errors.New("a command to classify or run is required")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "cyberhelix",
		Usage: "privilege-aware execution core for security tooling",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "rules",
				Usage: "path to a TOML classification rule extension file",
			},
		},
		Commands: []*cli.Command{
			newClassifyCommand(),
			newRunCommand(),
			newCredsCommand(),
		},
	}
}

// appCore is the wired execution core shared by the subcommands.
type appCore struct {
	classifier *classify.StandardClassifier
	store      *privilege.Store
	privileges *privilege.Manager
	executor   *executor.DefaultExecutor
	runID      string
}

func buildCore(c *cli.Context) (*appCore, error) {
	redact := redaction.DefaultConfig()
	logger := logging.NewLogger(os.Stderr, logging.ParseLevel(c.String("log-level")), redact)
	runID := logging.GenerateRunID()

	var extra []classify.Rule
	if path := c.String("rules"); path != "" {
		rules, err := config.NewLoader().LoadFile(path)
		if err != nil {
			return nil, err
		}
		extra = rules
	}
	classifier := classify.NewStandardClassifierWithRules(extra)

	store := privilege.NewStore()
	privileges := privilege.NewManager(store, logger)
	auditor := audit.NewLogger(logger, redact, runID)

	return &appCore{
		classifier: classifier,
		store:      store,
		privileges: privileges,
		executor:   executor.NewDefaultExecutor(classifier, privileges, auditor, redact),
		runID:      runID,
	}, nil
}

func commandFromArgs(c *cli.Context) ([]string, error) {
	argv := c.Args().Slice()
	if len(argv) == 0 {
		return nil, ErrCommandRequired
	}
	return argv, nil
}
