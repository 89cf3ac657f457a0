package sim

import "time"

// InitPid is the pid of the permanent adopter root. Init never exits, is
// always running, and immediately reaps any child that exits under it.
const InitPid = 1

// FirstUserPid is the first pid handed out for user processes. The counter
// is re-seeded to this value on every CreateRoot/Reset so that a fresh
// simulation always starts at the same pid.
const FirstUserPid = 1001

// Process is a node in the process tree.
//
// Children holds child pids in creation (fork) order. The order is
// significant: deterministic traversal depends on it, and Wait reaps the
// first zombie child by this order.
//
// Depth is assigned at creation (parent depth + 1, simulation root = 0) and
// is never recomputed: an orphan adopted by init keeps the depth it was
// born with.
type Process struct {
	// ID is an opaque unique handle, distinct from the pid. It survives
	// into trace exports, where pids from different runs may collide.
	ID string

	Pid   int
	PPid  int
	State State

	Children []int

	Depth int

	// ForkLevel is the ordinal of the ForkAll call that created this
	// process (0 for the manually created root and for init). Diagnostic
	// only: displayed in traces to explain expected 2^k counts.
	ForkLevel int

	// CreatedAt orders audit output. Never consulted for correctness.
	CreatedAt time.Time
}

// ActiveChildren returns the pids of children that are currently
// schedulable (running or orphan), in fork order.
func (p *Process) ActiveChildren(lookup func(int) *Process) []int {
	var out []int
	for _, cpid := range p.Children {
		if c := lookup(cpid); c != nil && c.State.Active() {
			out = append(out, cpid)
		}
	}
	return out
}

// firstZombieChild returns the first child (by fork order) in zombie state,
// or nil if there is none.
func (p *Process) firstZombieChild(lookup func(int) *Process) *Process {
	for _, cpid := range p.Children {
		if c := lookup(cpid); c != nil && c.State == StateZombie {
			return c
		}
	}
	return nil
}
