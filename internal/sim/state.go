package sim

import "fmt"

// State is the lifecycle state of a process.
//
// States are mutually exclusive. Transitions are applied only by the engine;
// external code observes states but never sets them.
//
// Every switch over State in this package must be exhaustive so that adding a
// state fails loudly at every call site instead of silently falling through.
type State int

const (
	// StateRunning is the initial state of every created process.
	StateRunning State = iota + 1

	// StateWaiting marks a process that called wait while it had at least
	// one active child and no zombie to reap. A waiting process is
	// unblocked (back to running) when its last active child exits.
	StateWaiting

	// StateZombie marks a process that exited while its parent was alive,
	// not init, and not waiting. Zombies hold their slot in the tree until
	// the parent reaps them via wait.
	StateZombie

	// StateOrphan marks a still-running process whose parent exited.
	// Orphans are re-parented to init and remain fully schedulable: they
	// can fork, wait, and exit like running processes.
	StateOrphan

	// StateTerminated is the final state: the exit status has been
	// collected (or init reaped the process immediately). Terminal.
	StateTerminated
)

// String returns the lowercase state name used in logs and traces.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateWaiting:
		return "waiting"
	case StateZombie:
		return "zombie"
	case StateOrphan:
		return "orphan"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Active reports whether the process is schedulable: it can fork, wait,
// and exit. Only running and orphan processes are active.
func (s State) Active() bool {
	switch s {
	case StateRunning, StateOrphan:
		return true
	case StateWaiting, StateZombie, StateTerminated:
		return false
	default:
		return false
	}
}

// Terminal reports whether the process can take no further actions of its
// own. Zombies are terminal for outgoing actions even though they still
// need to be reaped by their parent.
func (s State) Terminal() bool {
	switch s {
	case StateZombie, StateTerminated:
		return true
	case StateRunning, StateWaiting, StateOrphan:
		return false
	default:
		return false
	}
}

// ParseState converts a lowercase state name to a State.
// Used by the scenario harness to decode YAML assertions.
func ParseState(name string) (State, error) {
	switch name {
	case "running":
		return StateRunning, nil
	case "waiting":
		return StateWaiting, nil
	case "zombie":
		return StateZombie, nil
	case "orphan":
		return StateOrphan, nil
	case "terminated":
		return StateTerminated, nil
	default:
		return 0, fmt.Errorf("unknown process state %q", name)
	}
}
