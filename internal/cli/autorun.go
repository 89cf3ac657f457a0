package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/procsim/internal/sim"
	"github.com/roach88/procsim/internal/trace"
	"github.com/roach88/procsim/internal/traverse"
)

// AutorunOptions holds flags for the autorun command.
type AutorunOptions struct {
	*RootOptions
	Forks    int
	MaxTicks int
	TraceDB  string
}

// NewAutorunCommand creates the autorun command.
func NewAutorunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AutorunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "autorun",
		Short: "Grow a tree with fork-all and auto-schedule it to completion",
		Long: `Seed a root process, fork every running process --forks times
(2^k running processes), then drive the bottom-up auto-scheduler until no
eligible action remains: the deepest parents wait first, then the deepest
leaves exit, so every child is collected before its parent resumes.

Example:
  procsim autorun --forks 3
  procsim autorun --forks 2 --trace-db ./procsim.db`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return autorun(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Forks, "forks", 2, "number of fork-all rounds before scheduling")
	cmd.Flags().IntVar(&opts.MaxTicks, "max-ticks", 1000, "abort if the scheduler does not settle within this many ticks")
	cmd.Flags().StringVar(&opts.TraceDB, "trace-db", "", "export the run to this SQLite database")

	return cmd
}

func autorun(opts *AutorunOptions, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)

	if opts.Forks < 0 {
		return NewExitError(ExitCommandError, "--forks must be non-negative")
	}

	engine := sim.New()
	engine.CreateRoot()
	for i := 0; i < opts.Forks; i++ {
		engine.ForkAll()
	}
	slog.Info("tree grown", "forks", opts.Forks, "running", len(engine.AllRunning()))

	ticks, err := sim.NewScheduler(engine).RunToCompletion(opts.MaxTicks)
	if err != nil {
		return WrapExitError(ExitFailure, "autorun did not settle", err)
	}

	if opts.TraceDB != "" {
		if err := exportRun(opts, engine, len(ticks)); err != nil {
			return WrapExitError(ExitCommandError, "failed to export trace", err)
		}
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if opts.Format == "json" {
		return out.Success(autorunSummary(engine, ticks))
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "autorun: %d fork-all rounds, settled in %d ticks\n", opts.Forks, len(ticks))
	for _, tick := range ticks {
		if tick.Reaped != nil {
			fmt.Fprintf(w, "  tick %3d  %-4s pid %d (reaped %d)\n", tick.Tick, tick.Action, tick.Pid, tick.Reaped.Pid)
			continue
		}
		fmt.Fprintf(w, "  tick %3d  %-4s pid %d\n", tick.Tick, tick.Action, tick.Pid)
	}
	renderTree(w, engine)
	return nil
}

// autorunSummary builds the JSON payload for an autorun.
func autorunSummary(engine *sim.Engine, ticks []sim.TickResult) map[string]any {
	tickList := make([]map[string]any, 0, len(ticks))
	for _, tick := range ticks {
		rec := map[string]any{
			"tick":   tick.Tick,
			"action": string(tick.Action),
			"pid":    tick.Pid,
		}
		if tick.Reaped != nil {
			rec["reaped"] = tick.Reaped.Pid
		}
		tickList = append(tickList, rec)
	}

	nodes := make([]map[string]any, 0, engine.Size())
	for _, p := range engine.AllNodes() {
		nodes = append(nodes, map[string]any{
			"pid":   p.Pid,
			"ppid":  p.PPid,
			"state": p.State.String(),
			"depth": p.Depth,
		})
	}

	return map[string]any{
		"ticks": tickList,
		"tree":  nodes,
	}
}

// exportRun persists the run's audit log and execution history.
func exportRun(opts *AutorunOptions, engine *sim.Engine, tickCount int) error {
	store, err := trace.Open(opts.TraceDB)
	if err != nil {
		return err
	}
	defer store.Close()

	run := trace.Run{
		ID:        trace.NewRunID(),
		Label:     fmt.Sprintf("autorun --forks %d (%d ticks)", opts.Forks, tickCount),
		CreatedAt: time.Now(),
		Ticks:     engine.Clock().Current(),
		Processes: engine.Size(),
	}
	if err := store.SaveRun(context.Background(), run, engine.Log(), engine.History().Events()); err != nil {
		return err
	}

	slog.Info("trace exported", "db", opts.TraceDB, "run_id", run.ID)
	return nil
}

// renderTree prints the tree as an indented preorder listing.
func renderTree(w io.Writer, engine *sim.Engine) {
	init := engine.Init()
	if init == nil {
		fmt.Fprintln(w, "(no tree)")
		return
	}

	children := func(p *sim.Process) []*sim.Process {
		out := make([]*sim.Process, 0, len(p.Children))
		for _, cpid := range p.Children {
			if c := engine.FindByPid(cpid); c != nil {
				out = append(out, c)
			}
		}
		return out
	}

	indent := make(map[int]int)
	traverse.PreOrder(init, children, func(p *sim.Process) bool {
		for _, cpid := range p.Children {
			indent[cpid] = indent[p.Pid] + 1
		}
		pad := ""
		for i := 0; i < indent[p.Pid]; i++ {
			pad += "  "
		}
		if p.Pid == sim.InitPid {
			fmt.Fprintf(w, "%sinit (pid 1)\n", pad)
			return true
		}
		fmt.Fprintf(w, "%spid %d  %s  depth=%d\n", pad, p.Pid, p.State, p.Depth)
		return true
	})
}
