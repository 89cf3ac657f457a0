package sim

import (
	"fmt"
	"log/slog"
)

// SchedulerAction is the action a tick performed.
type SchedulerAction string

const (
	// ScheduleWait means the tick made a parent wait (or reap a zombie).
	ScheduleWait SchedulerAction = "wait"

	// ScheduleExit means the tick made a leaf exit.
	ScheduleExit SchedulerAction = "exit"

	// ScheduleNone means no eligible action remained; the run is done.
	ScheduleNone SchedulerAction = "none"
)

// TickResult describes what one scheduler tick did.
type TickResult struct {
	Tick   int64
	Action SchedulerAction
	Pid    int

	// Reaped is the zombie child collected by a wait tick, if any.
	Reaped *Process
}

// Scheduler drives an idle tree to a fully-resolved terminal state without
// manual input, respecting UNIX ordering: children exit before parents stop
// waiting.
//
// Each tick performs exactly one action, chosen by fixed priority:
//
//  1. Deepest schedulable process with at least one active child that has
//     not yet called wait: call Wait on it.
//  2. Else deepest schedulable process with no active children (an active
//     leaf): call Exit on it.
//  3. Else halt.
//
// Ties at equal depth break toward the lowest pid, which makes runs
// deterministic for a given tree. The resulting completion is
// postorder-consistent: every subtree's children reach a terminal-ish
// state before their parent resumes from waiting.
type Scheduler struct {
	engine *Engine
}

// NewScheduler creates a scheduler over the engine's current tree.
func NewScheduler(e *Engine) *Scheduler {
	return &Scheduler{engine: e}
}

// Tick performs exactly one scheduling action and advances the logical
// clock. Returns the action taken; more is false when nothing remained to
// do (in which case the clock is not advanced).
func (s *Scheduler) Tick() (TickResult, bool) {
	e := s.engine

	if pid, ok := s.pickWaiter(); ok {
		tick := e.clock.Next()
		e.emit(EventCPUScheduled, pid, e.nodes[pid].PPid)
		reaped, _ := e.Wait(pid)
		slog.Debug("scheduler tick", "tick", tick, "action", "wait", "pid", pid)
		return TickResult{Tick: tick, Action: ScheduleWait, Pid: pid, Reaped: reaped}, true
	}

	if pid, ok := s.pickLeaf(); ok {
		tick := e.clock.Next()
		e.emit(EventCPUScheduled, pid, e.nodes[pid].PPid)
		_ = e.Exit(pid)
		slog.Debug("scheduler tick", "tick", tick, "action", "exit", "pid", pid)
		return TickResult{Tick: tick, Action: ScheduleExit, Pid: pid}, true
	}

	return TickResult{Action: ScheduleNone}, false
}

// RunToCompletion ticks until the scheduler halts, returning every tick in
// order. maxTicks bounds runaway trees; exceeding it returns the ticks
// performed so far plus an error.
func (s *Scheduler) RunToCompletion(maxTicks int) ([]TickResult, error) {
	var results []TickResult
	for {
		if len(results) >= maxTicks {
			return results, fmt.Errorf("auto-scheduler did not settle within %d ticks", maxTicks)
		}
		res, more := s.Tick()
		if !more {
			return results, nil
		}
		results = append(results, res)
	}
}

// pickWaiter selects the deepest schedulable process that has an active
// child and is not already waiting. Parents wait before leaves exit so
// that every exit below them is collected, never zombied.
func (s *Scheduler) pickWaiter() (int, bool) {
	return s.pick(func(p *Process) bool {
		return p.State.Active() && len(p.ActiveChildren(s.engine.lookup)) > 0
	})
}

// pickLeaf selects the deepest schedulable process with no active
// children.
func (s *Scheduler) pickLeaf() (int, bool) {
	return s.pick(func(p *Process) bool {
		return p.State.Active() && len(p.ActiveChildren(s.engine.lookup)) == 0
	})
}

// pick scans the tree for the deepest eligible process, breaking depth
// ties toward the lowest pid. Init is never eligible.
func (s *Scheduler) pick(eligible func(*Process) bool) (int, bool) {
	bestPid := 0
	bestDepth := -1
	for _, p := range s.engine.AllNodes() {
		if p.Pid == InitPid || !eligible(p) {
			continue
		}
		if p.Depth > bestDepth || (p.Depth == bestDepth && p.Pid < bestPid) {
			bestPid = p.Pid
			bestDepth = p.Depth
		}
	}
	return bestPid, bestPid != 0
}
