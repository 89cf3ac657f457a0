package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: a sequence of lifecycle
// operations against a fresh engine plus assertions on the resulting tree
// and audit log.
type Scenario struct {
	// Name uniquely identifies this scenario (also names its golden file).
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Steps are the lifecycle operations to perform, in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final tree, counts, and audit log.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is a single lifecycle operation.
type Step struct {
	// Op is the operation: create_root, fork, fork_all, wait, exit,
	// scoped, autorun.
	Op string `yaml:"op"`

	// Pid is the target process (fork, wait, exit, scoped).
	Pid int `yaml:"pid,omitempty"`

	// Times repeats the operation; only meaningful for fork_all.
	// Defaults to 1.
	Times int `yaml:"times,omitempty"`

	// MaxTicks bounds an autorun step. Defaults to 1000.
	MaxTicks int `yaml:"max_ticks,omitempty"`

	// ExpectError names the error code this step must fail with
	// (NOT_FOUND, INVALID_STATE_TRANSITION, NO_CHILDREN_TO_WAIT).
	// A step with no ExpectError fails the scenario if it errors.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Step operation constants.
const (
	OpCreateRoot = "create_root"
	OpFork       = "fork"
	OpForkAll    = "fork_all"
	OpWait       = "wait"
	OpExit       = "exit"
	OpScoped     = "scoped"
	OpAutorun    = "autorun"
)

// Assertion validates final engine state.
type Assertion struct {
	// Type specifies the assertion:
	//   - "state": process Pid is in State
	//   - "ppid": process Pid has parent PPid
	//   - "depth": process Pid is at Depth
	//   - "running_count": |AllRunning()| == Count
	//   - "tree_size": node count including init == Count
	//   - "state_count": processes in State == Count
	//   - "chain": AncestorChain(Pid) == Pids
	//   - "log_contains": an entry at Level containing Message exists
	Type string `yaml:"type"`

	Pid   int    `yaml:"pid,omitempty"`
	PPid  int    `yaml:"ppid,omitempty"`
	Depth int    `yaml:"depth,omitempty"`
	State string `yaml:"state,omitempty"`
	Count int    `yaml:"count,omitempty"`
	Pids  []int  `yaml:"pids,omitempty"`

	Level   string `yaml:"level,omitempty"`
	Message string `yaml:"message,omitempty"`
}

// Assertion type constants.
const (
	AssertState        = "state"
	AssertPPid         = "ppid"
	AssertDepth        = "depth"
	AssertRunningCount = "running_count"
	AssertTreeSize     = "tree_size"
	AssertStateCount   = "state_count"
	AssertChain        = "chain"
	AssertLogContains  = "log_contains"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation
// (catches typos like "assertion:" vs "assertions:").
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateStep validates a single step based on its operation.
func validateStep(index int, step *Step) error {
	switch step.Op {
	case OpCreateRoot, OpForkAll, OpAutorun:
		// No target pid.
	case OpFork, OpWait, OpExit, OpScoped:
		if step.Pid == 0 {
			return fmt.Errorf("steps[%d]: pid is required for %s", index, step.Op)
		}
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, step.Op)
	}

	if step.Times < 0 {
		return fmt.Errorf("steps[%d]: times must be non-negative", index)
	}
	if step.Times > 1 && step.Op != OpForkAll {
		return fmt.Errorf("steps[%d]: times is only valid for fork_all", index)
	}

	switch step.ExpectError {
	case "", "NOT_FOUND", "INVALID_STATE_TRANSITION", "NO_CHILDREN_TO_WAIT":
	default:
		return fmt.Errorf("steps[%d]: unknown expect_error %q", index, step.ExpectError)
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertState:
		if a.Pid == 0 || a.State == "" {
			return fmt.Errorf("assertions[%d]: pid and state are required for state", index)
		}
	case AssertPPid:
		if a.Pid == 0 {
			return fmt.Errorf("assertions[%d]: pid is required for ppid", index)
		}
	case AssertDepth:
		if a.Pid == 0 {
			return fmt.Errorf("assertions[%d]: pid is required for depth", index)
		}
	case AssertRunningCount, AssertTreeSize:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertStateCount:
		if a.State == "" {
			return fmt.Errorf("assertions[%d]: state is required for state_count", index)
		}
	case AssertChain:
		if a.Pid == 0 || len(a.Pids) == 0 {
			return fmt.Errorf("assertions[%d]: pid and pids are required for chain", index)
		}
	case AssertLogContains:
		if a.Message == "" {
			return fmt.Errorf("assertions[%d]: message is required for log_contains", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
