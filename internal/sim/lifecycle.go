package sim

import (
	"fmt"
	"log/slog"
)

// logf appends a formatted entry to the audit log at the current tick.
func (e *Engine) logf(level Level, pid int, format string, args ...any) {
	e.log.append(level, e.clock.Current(), e.now(), pid, fmt.Sprintf(format, args...))
}

func (e *Engine) logSuccess(pid int, format string, args ...any) {
	e.logf(LevelSuccess, pid, format, args...)
}

func (e *Engine) logInfo(pid int, format string, args ...any) {
	e.logf(LevelInfo, pid, format, args...)
}

func (e *Engine) logWarning(pid int, format string, args ...any) {
	e.logf(LevelWarning, pid, format, args...)
}

// logError records a rejected operation. The mutation has already been
// skipped; this is the only externally visible consequence besides the
// returned error.
func (e *Engine) logError(pid int, err error) {
	e.logf(LevelError, pid, "%s", err.Error())
}

// checkActive validates that pid names an existing, schedulable, non-init
// process. Returns the process or a SimError (already logged).
func (e *Engine) checkActive(op string, pid int) (*Process, error) {
	p := e.nodes[pid]
	if p == nil {
		err := newNotFoundError(op, pid)
		e.logError(pid, err)
		return nil, err
	}
	if pid == InitPid {
		err := newTransitionError(op, p, "init is not a schedulable process")
		e.logError(pid, err)
		return nil, err
	}
	if !p.State.Active() {
		err := newTransitionError(op, p, fmt.Sprintf("process is %s", p.State))
		e.logError(pid, err)
		return nil, err
	}
	return p, nil
}

// ForkOne creates a single child of the target process.
//
// The target must be running or orphan (an orphan can still fork). The
// child starts running at the target's depth + 1 and is appended to the
// target's children, preserving fork order.
func (e *Engine) ForkOne(targetPid int) (*Process, error) {
	parent, err := e.checkActive("fork", targetPid)
	if err != nil {
		return nil, err
	}

	child := e.attachChild(parent.Pid, parent.Depth)
	e.logSuccess(parent.Pid, "process %d forked child %d", parent.Pid, child.Pid)

	seq := e.clock.Current()
	e.history.Record(ActionFork, parent.Pid, parent.PPid, parent.State, seq)
	e.history.Record(ActionCreated, child.Pid, child.PPid, StateRunning, seq)
	e.emit(EventProcessCreated, child.Pid, parent.Pid)

	slog.Debug("fork", "parent", parent.Pid, "child", child.Pid, "depth", child.Depth)
	return child, nil
}

// ForkAll forks every currently running process exactly once, the
// snapshot-based UNIX-correct fork that produces exponential growth.
//
// The snapshot is taken first, as immutable (pid, depth) pairs: children
// created for earlier snapshot entries are not themselves forked in the
// same call, and every new child attaches to its original parent regardless
// of other mutations during the call. After k sequential calls from a
// single root with no intervening exits, exactly 2^k processes are running.
//
// Processes in waiting, zombie, orphan, or terminated state do not fork;
// neither does init. With no tree yet, ForkAll bootstraps a root and
// returns it as the only new process.
func (e *Engine) ForkAll() []*Process {
	if e.rootPid == 0 {
		root := e.CreateRoot()
		return []*Process{root}
	}

	// Immutable snapshot: pid and depth only, no live references.
	type snap struct {
		pid   int
		depth int
	}
	var snapshot []snap
	for _, p := range e.AllNodes() {
		if p.Pid == InitPid {
			continue
		}
		if p.State == StateRunning {
			snapshot = append(snapshot, snap{pid: p.Pid, depth: p.Depth})
		}
	}

	e.forkCalls++
	seq := e.clock.Current()

	children := make([]*Process, 0, len(snapshot))
	for _, s := range snapshot {
		child := e.attachChild(s.pid, s.depth)
		children = append(children, child)

		e.logSuccess(s.pid, "process %d forked child %d", s.pid, child.Pid)
		e.history.Record(ActionFork, s.pid, e.nodes[s.pid].PPid, e.nodes[s.pid].State, seq)
		e.history.Record(ActionCreated, child.Pid, s.pid, StateRunning, seq)
		e.emit(EventProcessCreated, child.Pid, s.pid)
	}

	e.logInfo(0, "fork-all #%d: %d new processes", e.forkCalls, len(children))
	slog.Debug("fork-all", "level", e.forkCalls, "created", len(children))
	return children
}

// attachChild allocates a pid and attaches a fresh running child to the
// parent identified by pid. parentDepth is passed explicitly so ForkAll can
// use snapshotted depths.
func (e *Engine) attachChild(parentPid, parentDepth int) *Process {
	child := &Process{
		ID:        newNodeID(),
		Pid:       e.pids.NextPid(),
		PPid:      parentPid,
		State:     StateRunning,
		Depth:     parentDepth + 1,
		ForkLevel: e.forkCalls,
		CreatedAt: e.now(),
	}
	e.nodes[child.Pid] = child
	e.nodes[parentPid].Children = append(e.nodes[parentPid].Children, child.Pid)
	return child
}

// Wait performs the wait() transition for the target process.
//
// Priority order:
//  1. A zombie child exists: reap the first one (fork order). It becomes
//     terminated, the parent stays as it was. Returns the reaped child.
//  2. An active (running/orphan) child exists: the target becomes waiting.
//     Pure state flag; nothing is suspended. Returns (nil, nil).
//  3. No children at all: ECHILD. A warning is logged, no state changes,
//     and a NO_CHILDREN_TO_WAIT error is returned.
func (e *Engine) Wait(pid int) (*Process, error) {
	p, err := e.checkActive("wait", pid)
	if err != nil {
		return nil, err
	}

	if z := p.firstZombieChild(e.lookup); z != nil {
		z.State = StateTerminated
		e.logSuccess(p.Pid, "process %d reaped zombie child %d", p.Pid, z.Pid)
		e.history.Record(ActionWait, p.Pid, p.PPid, p.State, e.clock.Current())
		e.emit(EventProcessReaped, z.Pid, p.Pid)
		slog.Debug("wait: reaped", "pid", p.Pid, "child", z.Pid)
		return z, nil
	}

	if len(p.ActiveChildren(e.lookup)) > 0 {
		p.State = StateWaiting
		e.logInfo(p.Pid, "process %d waiting for children", p.Pid)
		e.history.Record(ActionWait, p.Pid, p.PPid, StateWaiting, e.clock.Current())
		e.emit(EventParentWaiting, p.Pid, p.PPid)
		slog.Debug("wait: blocked", "pid", p.Pid)
		return nil, nil
	}

	err = newNoChildrenError(p.Pid)
	e.logWarning(p.Pid, "process %d has no children to wait for", p.Pid)
	return nil, err
}

// Exit performs the exit() transition for the target process.
//
// The resulting state depends on the parent at the moment of exit:
//   - parent is init: terminated immediately (init always reaps)
//   - parent is waiting: terminated immediately (the parent collects it)
//   - parent is alive and not waiting: zombie
//   - no live parent: terminated
//
// Independently, every active (running/orphan) child of the exiting process
// is re-parented to init and becomes an orphan, still schedulable. If the
// exit leaves a waiting parent with no remaining active children, the
// parent resumes running.
func (e *Engine) Exit(pid int) error {
	p, err := e.checkActive("exit", pid)
	if err != nil {
		return err
	}

	seq := e.clock.Current()
	parent := e.nodes[p.PPid]

	// Orphan the active children first so their adoption is observable in
	// the log before the exit message, matching the causal order.
	e.orphanChildren(p)

	switch {
	case p.PPid == InitPid:
		p.State = StateTerminated
		e.logSuccess(p.Pid, "process %d terminated", p.Pid)

	case parent != nil && parent.State == StateWaiting:
		p.State = StateTerminated
		e.logSuccess(p.Pid, "process %d terminated", p.Pid)

	case parent != nil && parent.State.Active():
		p.State = StateZombie
		e.logWarning(p.Pid, "process %d became a zombie: parent %d is alive and not waiting", p.Pid, parent.Pid)

	default:
		// Parent is itself a zombie or terminated: nobody will ever
		// collect the status, so the process terminates cleanly.
		p.State = StateTerminated
		e.logSuccess(p.Pid, "process %d terminated", p.Pid)
	}

	e.history.Record(ActionExit, p.Pid, p.PPid, p.State, seq)
	e.emit(EventProcessExit, p.Pid, p.PPid)
	if p.State == StateZombie {
		e.emit(EventZombieCreated, p.Pid, p.PPid)
	}

	// Unblock a waiting parent that just lost its last active child.
	if parent != nil && parent.State == StateWaiting && len(parent.ActiveChildren(e.lookup)) == 0 {
		parent.State = StateRunning
		e.logInfo(parent.Pid, "process %d resumed: all children exited", parent.Pid)
		e.history.Record(ActionResume, parent.Pid, parent.PPid, StateRunning, seq)
		e.emit(EventCPUScheduled, parent.Pid, parent.PPid)
	}

	slog.Debug("exit", "pid", p.Pid, "state", p.State.String())
	return nil
}

// orphanChildren re-parents every active child of p to init. The children
// become orphans but keep running; their depth is not recomputed. Zombie
// children stay attached to p until p's subtree is discarded by Reset.
func (e *Engine) orphanChildren(p *Process) {
	init := e.Init()

	var kept []int
	for _, cpid := range p.Children {
		c := e.nodes[cpid]
		if c == nil || !c.State.Active() {
			kept = append(kept, cpid)
			continue
		}

		c.PPid = InitPid
		c.State = StateOrphan
		init.Children = append(init.Children, c.Pid)

		e.logWarning(c.Pid, "process %d orphaned: adopted by init", c.Pid)
		e.emit(EventOrphanAdopted, c.Pid, InitPid)
	}
	p.Children = kept
}
