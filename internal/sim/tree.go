package sim

import (
	"log/slog"
	"time"

	"github.com/roach88/procsim/internal/traverse"
)

// Engine is the process tree store plus the lifecycle transition rules.
//
// The tree is an arena of nodes keyed by pid with an ordered children-pid
// index per node: lookups and transitions are O(1) and no tree is ever
// rebuilt. Nodes are mutated in place and never physically deleted; the
// whole tree's lifetime ends on Reset.
//
// All counters (pids, log ids, history ids, clock) are instance state.
// Independent engines never share anything, so parallel tests and parallel
// simulation sessions are fully isolated.
//
// The engine is single-threaded: every exposed operation is an
// atomic, synchronous state transition and must be driven from one
// goroutine.
type Engine struct {
	nodes   map[int]*Process
	rootPid int // simulation root pid, 0 before CreateRoot

	pids    PidGenerator
	clock   *Clock
	log     *auditLog
	history *History
	notify  Notifier
	now     func() time.Time

	// forkCalls counts completed ForkAll calls; new nodes record it as
	// their ForkLevel.
	forkCalls int
}

// Option configures an Engine.
type Option func(*Engine)

// WithPidGenerator overrides the pid generator. Tests use
// testutil.FixedPidGenerator for predetermined pids.
func WithPidGenerator(g PidGenerator) Option {
	return func(e *Engine) { e.pids = g }
}

// WithNotifier registers a semantic event notifier.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notify = n }
}

// WithTimeSource overrides the wall-clock source used to stamp audit
// entries. Tests pass a fixed function for reproducible traces.
func WithTimeSource(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithClock supplies a pre-configured logical clock, e.g. to resume a
// timeline from a known tick.
func WithClock(c *Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// New creates an empty engine. Call CreateRoot to seed a tree.
func New(opts ...Option) *Engine {
	e := &Engine{
		nodes:   make(map[int]*Process),
		pids:    NewCounterPidGenerator(FirstUserPid),
		clock:   NewClock(),
		log:     newAuditLog(),
		history: NewHistory(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateRoot discards any existing tree and seeds a fresh one: the init
// sentinel (pid 1) plus one user root process at depth 0. Calling
// CreateRoot again is equivalent to Reset followed by CreateRoot.
//
// Returns the root process.
func (e *Engine) CreateRoot() *Process {
	e.Reset()

	init := &Process{
		ID:        newNodeID(),
		Pid:       InitPid,
		PPid:      0,
		State:     StateRunning,
		CreatedAt: e.now(),
	}
	e.nodes[InitPid] = init

	root := &Process{
		ID:        newNodeID(),
		Pid:       e.pids.NextPid(),
		PPid:      InitPid,
		State:     StateRunning,
		Depth:     0,
		ForkLevel: 0,
		CreatedAt: e.now(),
	}
	e.nodes[root.Pid] = root
	init.Children = append(init.Children, root.Pid)
	e.rootPid = root.Pid

	e.logSuccess(root.Pid, "root process %d created", root.Pid)
	e.history.Record(ActionCreated, root.Pid, InitPid, StateRunning, e.clock.Current())
	e.emit(EventProcessCreated, root.Pid, InitPid)

	slog.Debug("simulation seeded", "root_pid", root.Pid)
	return root
}

// Reset discards all nodes, clears the audit log and history, rewinds the
// logical clock, and re-seeds the pid generator. The engine is back to its
// pre-CreateRoot state.
func (e *Engine) Reset() {
	e.nodes = make(map[int]*Process)
	e.rootPid = 0
	e.forkCalls = 0
	e.pids.Seed(FirstUserPid)
	e.clock.Reset()
	e.log.reset()
	e.history.Reset()
}

// FindByPid returns the process with the given pid, or nil.
func (e *Engine) FindByPid(pid int) *Process {
	return e.nodes[pid]
}

// Root returns the simulation root process, or nil before CreateRoot.
func (e *Engine) Root() *Process {
	if e.rootPid == 0 {
		return nil
	}
	return e.nodes[e.rootPid]
}

// Init returns the init sentinel, or nil before CreateRoot.
func (e *Engine) Init() *Process {
	return e.nodes[InitPid]
}

// Size returns the number of nodes in the tree, including init.
func (e *Engine) Size() int {
	return len(e.nodes)
}

// AllNodes returns every node in preorder starting at init. Children are
// visited in fork order, so the result is deterministic for a given
// operation sequence.
func (e *Engine) AllNodes() []*Process {
	init := e.Init()
	if init == nil {
		return nil
	}
	var out []*Process
	traverse.PreOrder(init, e.childProcs, func(p *Process) bool {
		out = append(out, p)
		return true
	})
	return out
}

// AllRunning returns the schedulable processes (running and orphan, since
// an orphan can still fork, wait, and exit) in preorder. Init is excluded:
// the sentinel is permanently running but never schedulable.
func (e *Engine) AllRunning() []*Process {
	var out []*Process
	for _, p := range e.AllNodes() {
		if p.Pid == InitPid {
			continue
		}
		if p.State.Active() {
			out = append(out, p)
		}
	}
	return out
}

// AncestorChain returns the pids on the path from the simulation root to
// the target, inclusive, by following ppid links. Init is not part of the
// chain. Returns nil if the pid does not exist or is init.
//
// An orphan's chain is just the orphan itself: its ppid link leads to init,
// which terminates the walk.
func (e *Engine) AncestorChain(pid int) []int {
	if pid == InitPid {
		return nil
	}
	p := e.nodes[pid]
	if p == nil {
		return nil
	}

	var rev []int
	for p != nil && p.Pid != InitPid {
		rev = append(rev, p.Pid)
		p = e.nodes[p.PPid]
	}

	chain := make([]int, len(rev))
	for i, pid := range rev {
		chain[len(rev)-1-i] = pid
	}
	return chain
}

// Log returns a copy of the audit log in append order.
func (e *Engine) Log() []Entry {
	return e.log.snapshot()
}

// History returns the execution history recorder.
func (e *Engine) History() *History {
	return e.history
}

// Clock returns the engine's logical clock. External drivers (the
// auto-scheduler and scoped execution) advance it; transitions never do.
func (e *Engine) Clock() *Clock {
	return e.clock
}

// ForkLevel returns the number of completed ForkAll calls.
func (e *Engine) ForkLevel() int {
	return e.forkCalls
}

// childProcs resolves a node's children index to live nodes in fork order.
func (e *Engine) childProcs(p *Process) []*Process {
	out := make([]*Process, 0, len(p.Children))
	for _, cpid := range p.Children {
		if c := e.nodes[cpid]; c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (e *Engine) lookup(pid int) *Process {
	return e.nodes[pid]
}
