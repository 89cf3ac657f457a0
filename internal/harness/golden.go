package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// TraceSnapshot captures the externally observable outcome of a scenario:
// the final tree in preorder, the scheduler ticks, and the audit log.
//
// Everything in the snapshot is deterministic for a given scenario: pids
// come from the reseeded counter, ticks from the logical clock, and log
// messages carry no wall-clock content. The serialized form can therefore
// be compared byte-for-byte against a golden file.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	FinalTree    []TreeNode   `json:"final_tree"`
	Ticks        []TickRecord `json:"ticks,omitempty"`
	Log          []LogRecord  `json:"log"`
}

// TreeNode is one process in the final-tree listing.
type TreeNode struct {
	Pid       int    `json:"pid"`
	PPid      int    `json:"ppid"`
	State     string `json:"state"`
	Depth     int    `json:"depth"`
	ForkLevel int    `json:"fork_level"`
}

// TickRecord is one auto-scheduler tick.
type TickRecord struct {
	Tick   int64  `json:"tick"`
	Action string `json:"action"`
	Pid    int    `json:"pid"`
	Reaped int    `json:"reaped,omitempty"`
}

// LogRecord is one audit entry. The wall timestamp is deliberately
// excluded; it is display-only and would break byte comparison.
type LogRecord struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Snapshot builds the trace snapshot for a finished scenario run.
func Snapshot(scenarioName string, result *Result) TraceSnapshot {
	snap := TraceSnapshot{ScenarioName: scenarioName}

	for _, p := range result.Engine.AllNodes() {
		snap.FinalTree = append(snap.FinalTree, TreeNode{
			Pid:       p.Pid,
			PPid:      p.PPid,
			State:     p.State.String(),
			Depth:     p.Depth,
			ForkLevel: p.ForkLevel,
		})
	}

	for _, tick := range result.Ticks {
		rec := TickRecord{
			Tick:   tick.Tick,
			Action: string(tick.Action),
			Pid:    tick.Pid,
		}
		if tick.Reaped != nil {
			rec.Reaped = tick.Reaped.Pid
		}
		snap.Ticks = append(snap.Ticks, rec)
	}

	for _, entry := range result.Engine.Log() {
		snap.Log = append(snap.Log, LogRecord{
			Level:   string(entry.Level),
			Message: entry.Message,
		})
	}

	return snap
}

// Marshal serializes the snapshot for golden comparison: indented JSON
// with a trailing newline.
func (s TraceSnapshot) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares the trace snapshot
// against a golden file under testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// The scenario's own assertions must also pass; assertion failures fail
// the test before the golden comparison.
func RunWithGolden(t *testing.T, scenario *Scenario) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		t.Fatalf("scenario %s: %v", scenario.Name, err)
	}
	for _, msg := range result.Errors {
		t.Errorf("scenario %s: %s", scenario.Name, msg)
	}
	if t.Failed() {
		return
	}

	data, err := Snapshot(scenario.Name, result).Marshal()
	if err != nil {
		t.Fatalf("scenario %s: marshal snapshot: %v", scenario.Name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
}
