package sim

// Action names what a process did at a point on the timeline.
type Action string

const (
	ActionCreated Action = "created"
	ActionFork    Action = "fork"
	ActionWait    Action = "wait"
	ActionExit    Action = "exit"
	ActionResume  Action = "resume"
)

// ExecutionEvent is one interval on a process's timeline.
//
// An event with EndSeq == nil is open. A subsequent wait or exit event for
// the same pid closes it. This is write-only derived telemetry for timeline
// views: the transition engine never reads it.
type ExecutionEvent struct {
	ID     int
	Pid    int
	Action Action

	StartSeq int64
	EndSeq   *int64

	// State is the process state right after the recorded action.
	State State

	// ParentPid is the structural parent at recording time.
	ParentPid int
}

// History records execution intervals per pid. Owned by one engine; the id
// counter is instance state, not a global.
type History struct {
	events []ExecutionEvent
	open   map[int]int // pid -> index of open event in events
	nextID int
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{
		open:   make(map[int]int),
		nextID: 1,
	}
}

// Record appends an event for pid at the given tick.
//
// A wait or exit action first closes the pid's open event (if any) at the
// same tick. Exit events are recorded already closed, since a process takes no
// further timeline intervals after exiting.
func (h *History) Record(action Action, pid, ppid int, state State, seq int64) ExecutionEvent {
	if action == ActionWait || action == ActionExit {
		h.closeOpen(pid, seq)
	}

	ev := ExecutionEvent{
		ID:        h.nextID,
		Pid:       pid,
		Action:    action,
		StartSeq:  seq,
		State:     state,
		ParentPid: ppid,
	}
	h.nextID++

	if action == ActionExit {
		end := seq
		ev.EndSeq = &end
	}

	h.events = append(h.events, ev)
	if ev.EndSeq == nil {
		h.open[pid] = len(h.events) - 1
	}
	return ev
}

// closeOpen closes the pid's open event at the given tick, if one exists.
func (h *History) closeOpen(pid int, seq int64) {
	idx, ok := h.open[pid]
	if !ok {
		return
	}
	end := seq
	h.events[idx].EndSeq = &end
	delete(h.open, pid)
}

// Events returns a copy of all recorded events in record order.
func (h *History) Events() []ExecutionEvent {
	out := make([]ExecutionEvent, len(h.events))
	copy(out, h.events)
	return out
}

// OpenCount returns the number of currently open intervals.
func (h *History) OpenCount() int {
	return len(h.open)
}

// Reset discards all events and restarts ids.
func (h *History) Reset() {
	h.events = nil
	h.open = make(map[int]int)
	h.nextID = 1
}
