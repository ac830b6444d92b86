package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Naveenkumar-Dev-21/CyberHelix/internal/runner/executor"
	"github.com/Naveenkumar-Dev-21/CyberHelix/internal/runner/runnertypes"
	"github.com/Naveenkumar-Dev-21/CyberHelix/internal/terminal"
)

const targetPlaceholder = "{target}"

func newClassifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "classify",
		Usage:     "classify a command without executing it",
		ArgsUsage: "<program> [args...]",
		Action: func(c *cli.Context) error {
			core, err := buildCore(c)
			if err != nil {
				return err
			}
			argv, err := commandFromArgs(c)
			if err != nil {
				return err
			}
			cmd, err := runnertypes.NewCommand(argv)
			if err != nil {
				return err
			}
			classification, err := core.classifier.Classify(cmd)
			if err != nil {
				return err
			}
			renderClassification(cmd, classification)
			return nil
		},
	}
}

func renderClassification(cmd runnertypes.Command, tc runnertypes.TaskClassification) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendRows([]table.Row{
		{"Command", cmd.String()},
		{"Signature", tc.Signature},
		{"Privilege level", tc.Level.String()},
		{"Safe for automation", tc.SafeForAutomation},
		{"Requires confirmation", tc.RequiresConfirmation},
		{"Justification", tc.Justification},
	})
	t.SetStyle(table.StyleLight)
	t.Render()
}

func newRunCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "classify and execute a command with privilege handling",
		ArgsUsage: "<program> [args...]",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "wall-clock limit for the child process (0 for none)",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "confirm execution of commands that require operator approval",
			},
			&cli.BoolFlag{
				Name:  "ask-pass",
				Usage: "prompt for an elevation credential before running",
			},
			&cli.StringFlag{
				Name:  "targets",
				Usage: "file with one target per line; " + targetPlaceholder + " in the command is replaced per target",
			},
			&cli.IntFlag{
				Name:  "parallel",
				Value: 1,
				Usage: "number of targets to run concurrently",
			},
		},
		Action: runAction,
	}
}

func runAction(c *cli.Context) error {
	core, err := buildCore(c)
	if err != nil {
		return err
	}
	argv, err := commandFromArgs(c)
	if err != nil {
		return err
	}

	if c.Bool("ask-pass") {
		secret, err := terminal.ReadSecret("elevation credential: ")
		if err != nil {
			return err
		}
		core.store.Set(secret)
		defer core.store.Clear()
	}

	opts := executor.Options{
		Timeout:   c.Duration("timeout"),
		Confirmed: c.Bool("yes"),
	}

	if path := c.String("targets"); path != "" {
		targets, err := readTargets(path)
		if err != nil {
			return err
		}
		return runTargets(c, core, argv, targets, opts)
	}

	cmd, err := runnertypes.NewCommand(argv)
	if err != nil {
		return err
	}
	result, err := core.executor.Execute(c.Context, cmd, opts)
	renderResult(cmd.String(), result)
	return err
}

// runTargets fans the command out over targets, substituting the
// placeholder token in each argument. Results are reported per target;
// the first structured failure aborts outstanding work.
func runTargets(c *cli.Context, core *appCore, argv, targets []string, opts executor.Options) error {
	parallel := c.Int("parallel")
	if parallel < 1 {
		parallel = 1
	}

	g, ctx := errgroup.WithContext(c.Context)
	g.SetLimit(parallel)

	type targetResult struct {
		target string
		label  string
		result *runnertypes.ExecutionResult
	}
	results := make([]targetResult, len(targets))

	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			cmd, err := runnertypes.NewCommand(substituteTarget(argv, target))
			if err != nil {
				return fmt.Errorf("target %s: %w", target, err)
			}
			result, err := core.executor.Execute(ctx, cmd, opts)
			results[i] = targetResult{target: target, label: cmd.String(), result: result}
			if err != nil {
				return fmt.Errorf("target %s: %w", target, err)
			}
			return nil
		})
	}

	err := g.Wait()
	for _, r := range results {
		if r.result == nil {
			continue
		}
		color.New(color.FgCyan).Printf("--- target %s ---\n", r.target)
		renderResult(r.label, r.result)
	}
	return err
}

func substituteTarget(argv []string, target string) []string {
	out := make([]string, len(argv))
	for i, arg := range argv {
		out[i] = strings.ReplaceAll(arg, targetPlaceholder, target)
	}
	return out
}

func readTargets(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open targets file: %w", err)
	}
	defer f.Close()

	var targets []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read targets file: %w", err)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("targets file %s contains no targets", path)
	}
	return targets, nil
}

func renderResult(label string, result *runnertypes.ExecutionResult) {
	if result == nil {
		return
	}

	if result.Failed() {
		color.New(color.FgRed, color.Bold).Printf("✗ %s\n", label)
		fmt.Printf("  kind: %s\n", result.Err.Kind)
		if result.Err.Justification != "" {
			fmt.Printf("  reason: %s\n", result.Err.Justification)
		}
	} else if result.ExitCode != 0 {
		color.New(color.FgYellow, color.Bold).Printf("! %s (exit %d)\n", label, result.ExitCode)
	} else {
		color.New(color.FgGreen, color.Bold).Printf("✓ %s\n", label)
	}
	fmt.Printf("  level: %s  duration: %s\n", result.UsedLevel, result.Duration.Round(time.Millisecond))

	if result.Stdout != "" {
		fmt.Print(indent(result.Stdout))
	}
	if result.Stderr != "" {
		fmt.Fprint(os.Stderr, indent(result.Stderr))
	}
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n") + "\n"
}

func newCredsCommand() *cli.Command {
	return &cli.Command{
		Name:  "creds",
		Usage: "inspect elevation credential state",
		Subcommands: []*cli.Command{
			{
				Name:  "status",
				Usage: "show whether elevation is available for this session",
				Action: func(c *cli.Context) error {
					core, err := buildCore(c)
					if err != nil {
						return err
					}

					if core.privileges.PasswordlessAvailable(c.Context) {
						color.New(color.FgGreen).Println("passwordless elevation: available")
					} else {
						color.New(color.FgYellow).Println("passwordless elevation: unavailable")
					}
					if terminal.IsInteractive() {
						fmt.Println("interactive credential entry: available (use run --ask-pass)")
					} else {
						fmt.Println("interactive credential entry: unavailable (no terminal)")
					}
					return nil
				},
			},
		},
	}
}
