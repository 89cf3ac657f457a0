package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/procsim/internal/trace"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace [run-id]",
		Short: "Inspect exported simulation runs",
		Long: `List runs exported to a trace database, or dump one run's audit
log and execution intervals.

Example:
  procsim trace --db ./procsim.db
  procsim trace --db ./procsim.db 018f3c0a-...`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return dumpRun(opts, args[0], cmd)
			}
			return listRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to trace SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func listRuns(opts *TraceOptions, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)

	store, err := trace.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open trace database", err)
	}
	defer store.Close()

	runs, err := store.ListRuns(context.Background())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if opts.Format == "json" {
		return out.Success(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs exported")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  ticks=%d processes=%d  %s\n",
			r.ID, r.CreatedAt.Format(time.RFC3339), r.Ticks, r.Processes, r.Label)
	}
	return nil
}

func dumpRun(opts *TraceOptions, runID string, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)

	store, err := trace.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open trace database", err)
	}
	defer store.Close()

	ctx := context.Background()
	run, err := store.ReadRun(ctx, runID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}
	entries, err := store.ReadLog(ctx, runID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run log", err)
	}
	events, err := store.ReadEvents(ctx, runID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run events", err)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if opts.Format == "json" {
		return out.Success(map[string]any{
			"run":    run,
			"log":    entries,
			"events": events,
		})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "run %s  %s\n", run.ID, run.Label)
	fmt.Fprintf(w, "created %s, %d ticks, %d processes\n\n", run.CreatedAt.Format(time.RFC3339), run.Ticks, run.Processes)

	fmt.Fprintln(w, "audit log:")
	for _, e := range entries {
		fmt.Fprintf(w, "  [%d] %-7s %s\n", e.Seq, e.Level, e.Message)
	}

	fmt.Fprintln(w, "\nexecution intervals:")
	for _, ev := range events {
		end := "open"
		if ev.EndSeq != nil {
			end = fmt.Sprintf("%d", *ev.EndSeq)
		}
		fmt.Fprintf(w, "  pid %-6d %-7s [%d, %s]  %s\n", ev.Pid, ev.Action, ev.StartSeq, end, ev.State)
	}
	return nil
}
