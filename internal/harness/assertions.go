package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/procsim/internal/sim"
)

// EvaluateAssertions checks every assertion against the final engine state
// and appends a failure message to the result for each one that does not
// hold.
func EvaluateAssertions(result *Result, assertions []Assertion) {
	for i, a := range assertions {
		if msg := evaluateAssertion(result, &a); msg != "" {
			result.AddError(fmt.Sprintf("assertions[%d] (%s): %s", i, a.Type, msg))
		}
	}
}

// evaluateAssertion checks one assertion. Returns "" if it holds.
func evaluateAssertion(result *Result, a *Assertion) string {
	e := result.Engine

	switch a.Type {
	case AssertState:
		p := e.FindByPid(a.Pid)
		if p == nil {
			return fmt.Sprintf("process %d not found", a.Pid)
		}
		want, err := sim.ParseState(a.State)
		if err != nil {
			return err.Error()
		}
		if p.State != want {
			return fmt.Sprintf("process %d is %s, expected %s", a.Pid, p.State, want)
		}

	case AssertPPid:
		p := e.FindByPid(a.Pid)
		if p == nil {
			return fmt.Sprintf("process %d not found", a.Pid)
		}
		if p.PPid != a.PPid {
			return fmt.Sprintf("process %d has ppid %d, expected %d", a.Pid, p.PPid, a.PPid)
		}

	case AssertDepth:
		p := e.FindByPid(a.Pid)
		if p == nil {
			return fmt.Sprintf("process %d not found", a.Pid)
		}
		if p.Depth != a.Depth {
			return fmt.Sprintf("process %d has depth %d, expected %d", a.Pid, p.Depth, a.Depth)
		}

	case AssertRunningCount:
		if got := len(e.AllRunning()); got != a.Count {
			return fmt.Sprintf("%d schedulable processes, expected %d", got, a.Count)
		}

	case AssertTreeSize:
		if got := e.Size(); got != a.Count {
			return fmt.Sprintf("tree has %d nodes, expected %d", got, a.Count)
		}

	case AssertStateCount:
		want, err := sim.ParseState(a.State)
		if err != nil {
			return err.Error()
		}
		got := 0
		for _, p := range e.AllNodes() {
			if p.Pid != sim.InitPid && p.State == want {
				got++
			}
		}
		if got != a.Count {
			return fmt.Sprintf("%d processes in state %s, expected %d", got, want, a.Count)
		}

	case AssertChain:
		got := e.AncestorChain(a.Pid)
		if len(got) != len(a.Pids) {
			return fmt.Sprintf("chain for %d is %v, expected %v", a.Pid, got, a.Pids)
		}
		for i := range got {
			if got[i] != a.Pids[i] {
				return fmt.Sprintf("chain for %d is %v, expected %v", a.Pid, got, a.Pids)
			}
		}

	case AssertLogContains:
		for _, entry := range e.Log() {
			if a.Level != "" && string(entry.Level) != a.Level {
				continue
			}
			if strings.Contains(entry.Message, a.Message) {
				return ""
			}
		}
		if a.Level != "" {
			return fmt.Sprintf("no %s log entry containing %q", a.Level, a.Message)
		}
		return fmt.Sprintf("no log entry containing %q", a.Message)

	default:
		return fmt.Sprintf("unknown assertion type %q", a.Type)
	}

	return ""
}
