package sim

import "errors"

// ErrScopedDone is returned by Step after the replay has completed.
// Completion itself is signaled exactly once, on the step that executes
// the target; this error covers calls past that point.
var ErrScopedDone = errors.New("scoped execution already complete")

// ScopedExecution replays the path from the simulation root to a chosen
// target, one node per step, demonstrating that a process's execution is
// causally preceded by all of its ancestors.
//
// The path is computed once, at start, and frozen. If fork or exit mutate
// the tree mid-replay, the frozen path may reference stale depths or
// already-terminated nodes; it is deliberately not recomputed. This is a
// known limitation of path-scoped replay, not a bug.
type ScopedExecution struct {
	engine *Engine

	targetPid int
	path      []int
	cursor    int
	executed  []int
	done      bool
}

// StartScopedExecution freezes the root-to-target ancestor chain and
// returns a step-wise replayer over it with the cursor at the start.
//
// Returns a NOT_FOUND error if the pid does not name a process (init
// included: the sentinel has no ancestor chain).
func (e *Engine) StartScopedExecution(targetPid int) (*ScopedExecution, error) {
	path := e.AncestorChain(targetPid)
	if len(path) == 0 {
		err := newNotFoundError("scoped-execution", targetPid)
		e.logError(targetPid, err)
		return nil, err
	}

	e.logInfo(targetPid, "scoped execution started: %d steps to process %d", len(path), targetPid)
	return &ScopedExecution{
		engine:    e,
		targetPid: targetPid,
		path:      path,
	}, nil
}

// Step executes the next node on the frozen path.
//
// Each step advances the logical clock by one tick, marks the node as
// executed, and records a resume interval for it. completed is true only
// on the step that executes the target (the last path entry). Calling
// Step after completion returns ErrScopedDone.
func (s *ScopedExecution) Step() (p *Process, completed bool, err error) {
	if s.done {
		return nil, false, ErrScopedDone
	}

	e := s.engine
	pid := s.path[s.cursor]
	tick := e.clock.Next()

	p = e.nodes[pid]
	if p == nil {
		// The tree was reset under a frozen path.
		err = newNotFoundError("scoped-step", pid)
		e.logError(pid, err)
		return nil, false, err
	}

	s.executed = append(s.executed, pid)
	s.cursor++

	e.history.Record(ActionResume, pid, p.PPid, p.State, tick)
	e.emit(EventCPUScheduled, pid, p.PPid)
	e.logInfo(pid, "scoped step %d/%d: process %d executing", s.cursor, len(s.path), pid)

	if s.cursor == len(s.path) {
		s.done = true
		e.logSuccess(s.targetPid, "scoped execution complete: reached process %d", s.targetPid)
		return p, true, nil
	}
	return p, false, nil
}

// Path returns the frozen root-to-target pid path.
func (s *ScopedExecution) Path() []int {
	out := make([]int, len(s.path))
	copy(out, s.path)
	return out
}

// Executed returns the pids executed so far, in step order.
func (s *ScopedExecution) Executed() []int {
	out := make([]int, len(s.executed))
	copy(out, s.executed)
	return out
}

// TargetPid returns the replay boundary pid.
func (s *ScopedExecution) TargetPid() int {
	return s.targetPid
}

// Done reports whether the replay has reached the target.
func (s *ScopedExecution) Done() bool {
	return s.done
}

// Reset clears the cursor, the executed set, and the completion flag, and
// rewinds the engine's logical clock, so the same frozen path can be
// replayed from the top with an identical timeline.
func (s *ScopedExecution) Reset() {
	s.cursor = 0
	s.executed = nil
	s.done = false
	s.engine.clock.Reset()
}
