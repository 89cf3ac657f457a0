package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/procsim/internal/harness"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a lifecycle scenario and evaluate its assertions",
		Long: `Run a YAML scenario against a fresh simulation engine.

The scenario's steps (create_root, fork, fork_all, wait, exit, scoped,
autorun) are executed in order; structural tree invariants are verified
after every step and the scenario's assertions are evaluated at the end.

Example:
  procsim run scenarios/zombie-reap.yaml
  procsim run scenarios/growth.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(opts, args[0], cmd)
		},
	}

	return cmd
}

func runScenario(opts *RunOptions, path string, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	slog.Info("scenario loaded", "name", scenario.Name, "steps", len(scenario.Steps))

	result, err := harness.Run(scenario)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to run scenario", err)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	if !result.Passed() {
		if opts.Format == "json" {
			_ = out.Success(map[string]any{
				"scenario": scenario.Name,
				"passed":   false,
				"failures": result.Errors,
			})
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s (%d failures)\n", scenario.Name, len(result.Errors))
			for _, msg := range result.Errors {
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", msg)
			}
		}
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed", scenario.Name))
	}

	if opts.Format == "json" {
		return out.Success(harness.Snapshot(scenario.Name, result))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "PASS %s\n", scenario.Name)
	renderTree(cmd.OutOrStdout(), result.Engine)
	return nil
}

// configureLogging installs the default slog handler for CLI runs.
func configureLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
