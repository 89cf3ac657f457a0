// Package harness provides a conformance testing framework for the
// process-lifecycle engine.
//
// A scenario is a YAML document describing a sequence of lifecycle
// operations (create_root, fork, fork_all, wait, exit, scoped replay,
// autorun) and assertions on the resulting tree and audit log. The harness
// runs each scenario against a fresh engine with deterministic helpers (a
// fixed wall-clock source; pids are deterministic by construction), checks
// the structural invariants of the tree after every step, evaluates the
// assertions, and can compare the full trace against a golden file.
package harness

import (
	"fmt"

	"github.com/roach88/procsim/internal/sim"
	"github.com/roach88/procsim/internal/testutil"
)

// Result holds the outcome of a scenario run.
type Result struct {
	// Engine is the engine after all steps, for assertion evaluation and
	// snapshot building.
	Engine *sim.Engine

	// Ticks are the auto-scheduler ticks produced by autorun steps, in
	// order across all such steps.
	Ticks []sim.TickResult

	// Errors are assertion and invariant failures. Empty means passed.
	Errors []string
}

// Passed reports whether the scenario produced no failures.
func (r *Result) Passed() bool {
	return len(r.Errors) == 0
}

// AddError records a failure message.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// Run executes a scenario against a fresh engine and returns the result.
//
// Each scenario runs in a fully isolated engine: its own pid counter, log
// ids, clock, and history, with a fixed wall-clock source so traces are
// reproducible. Structural tree invariants are verified after every step;
// a violated invariant fails the scenario at the step that broke it.
//
// Run returns an error only for scenario-level problems (a step that is
// impossible to execute); domain errors from lifecycle operations are part
// of the simulation and handled via Step.ExpectError.
func Run(scenario *Scenario) (*Result, error) {
	engine := sim.New(sim.WithTimeSource(testutil.FixedNow))
	result := &Result{Engine: engine}

	for i, step := range scenario.Steps {
		if err := executeStep(engine, result, i, step); err != nil {
			return nil, err
		}

		for _, violation := range CheckInvariants(engine) {
			result.AddError(fmt.Sprintf("steps[%d] (%s): invariant violated: %s", i, step.Op, violation))
		}
	}

	EvaluateAssertions(result, scenario.Assertions)
	return result, nil
}

// executeStep performs one scenario step against the engine.
func executeStep(engine *sim.Engine, result *Result, index int, step Step) error {
	var opErr error

	switch step.Op {
	case OpCreateRoot:
		engine.CreateRoot()

	case OpFork:
		_, opErr = engine.ForkOne(step.Pid)

	case OpForkAll:
		times := step.Times
		if times == 0 {
			times = 1
		}
		for i := 0; i < times; i++ {
			engine.ForkAll()
		}

	case OpWait:
		_, opErr = engine.Wait(step.Pid)

	case OpExit:
		opErr = engine.Exit(step.Pid)

	case OpScoped:
		opErr = runScoped(engine, step.Pid)

	case OpAutorun:
		maxTicks := step.MaxTicks
		if maxTicks == 0 {
			maxTicks = 1000
		}
		ticks, err := sim.NewScheduler(engine).RunToCompletion(maxTicks)
		result.Ticks = append(result.Ticks, ticks...)
		if err != nil {
			result.AddError(fmt.Sprintf("steps[%d]: %v", index, err))
		}

	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, step.Op)
	}

	return checkStepError(result, index, step, opErr)
}

// runScoped starts a scoped execution for the target and steps it to
// completion, one node per step.
func runScoped(engine *sim.Engine, targetPid int) error {
	scoped, err := engine.StartScopedExecution(targetPid)
	if err != nil {
		return err
	}
	for {
		_, completed, err := scoped.Step()
		if err != nil {
			return err
		}
		if completed {
			return nil
		}
	}
}

// checkStepError reconciles a step's outcome with its ExpectError clause.
func checkStepError(result *Result, index int, step Step, opErr error) error {
	if step.ExpectError == "" {
		if opErr != nil {
			result.AddError(fmt.Sprintf("steps[%d] (%s): unexpected error: %v", index, step.Op, opErr))
		}
		return nil
	}

	if opErr == nil {
		result.AddError(fmt.Sprintf("steps[%d] (%s): expected %s error, got none", index, step.Op, step.ExpectError))
		return nil
	}

	var matched bool
	switch step.ExpectError {
	case "NOT_FOUND":
		matched = sim.IsNotFound(opErr)
	case "INVALID_STATE_TRANSITION":
		matched = sim.IsInvalidTransition(opErr)
	case "NO_CHILDREN_TO_WAIT":
		matched = sim.IsNoChildren(opErr)
	}
	if !matched {
		result.AddError(fmt.Sprintf("steps[%d] (%s): expected %s error, got: %v", index, step.Op, step.ExpectError, opErr))
	}
	return nil
}
