package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validScenarioYAML = `
name: basic
description: fork once and check the child
steps:
  - op: create_root
  - op: fork
    pid: 1001
assertions:
  - type: state
    pid: 1002
    state: running
`

func TestParseScenario_Valid(t *testing.T) {
	s, err := ParseScenario([]byte(validScenarioYAML))
	require.NoError(t, err)

	assert.Equal(t, "basic", s.Name)
	require.Len(t, s.Steps, 2)
	assert.Equal(t, OpCreateRoot, s.Steps[0].Op)
	assert.Equal(t, 1001, s.Steps[1].Pid)
	require.Len(t, s.Assertions, 1)
	assert.Equal(t, AssertState, s.Assertions[0].Type)
}

func TestParseScenario_RejectsUnknownFields(t *testing.T) {
	yaml := `
name: typo
description: assertion instead of assertions
steps:
  - op: create_root
assertion:
  - type: tree_size
    count: 2
`
	_, err := ParseScenario([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "no name",
			yaml:    "description: d\nsteps:\n  - op: create_root\nassertions:\n  - type: tree_size\n    count: 2\n",
			wantErr: "name is required",
		},
		{
			name:    "no description",
			yaml:    "name: n\nsteps:\n  - op: create_root\nassertions:\n  - type: tree_size\n    count: 2\n",
			wantErr: "description is required",
		},
		{
			name:    "no steps",
			yaml:    "name: n\ndescription: d\nassertions:\n  - type: tree_size\n    count: 2\n",
			wantErr: "steps list is required",
		},
		{
			name:    "no assertions",
			yaml:    "name: n\ndescription: d\nsteps:\n  - op: create_root\n",
			wantErr: "assertions list is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateStep(t *testing.T) {
	tests := []struct {
		name    string
		step    Step
		wantErr string
	}{
		{"fork needs pid", Step{Op: OpFork}, "pid is required"},
		{"wait needs pid", Step{Op: OpWait}, "pid is required"},
		{"scoped needs pid", Step{Op: OpScoped}, "pid is required"},
		{"unknown op", Step{Op: "spawn"}, `unknown op "spawn"`},
		{"empty op", Step{}, "op is required"},
		{"times on fork", Step{Op: OpFork, Pid: 1001, Times: 3}, "only valid for fork_all"},
		{"negative times", Step{Op: OpForkAll, Times: -1}, "must be non-negative"},
		{"bad expect_error", Step{Op: OpWait, Pid: 1001, ExpectError: "EPERM"}, `unknown expect_error "EPERM"`},
		{"ok fork_all times", Step{Op: OpForkAll, Times: 3}, ""},
		{"ok expect_error", Step{Op: OpWait, Pid: 1001, ExpectError: "NO_CHILDREN_TO_WAIT"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateStep(0, &tt.step)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateAssertion(t *testing.T) {
	tests := []struct {
		name    string
		a       Assertion
		wantErr string
	}{
		{"state needs pid and state", Assertion{Type: AssertState, Pid: 1001}, "pid and state are required"},
		{"ppid needs pid", Assertion{Type: AssertPPid}, "pid is required"},
		{"chain needs pids", Assertion{Type: AssertChain, Pid: 1003}, "pid and pids are required"},
		{"state_count needs state", Assertion{Type: AssertStateCount, Count: 2}, "state is required"},
		{"log_contains needs message", Assertion{Type: AssertLogContains, Level: "info"}, "message is required"},
		{"unknown type", Assertion{Type: "exists"}, `unknown assertion type "exists"`},
		{"no type", Assertion{}, "type is required"},
		{"ok", Assertion{Type: AssertTreeSize, Count: 4}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAssertion(0, &tt.a)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadScenario_FromFile(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/zombie-reap.yaml")
	require.NoError(t, err)
	assert.Equal(t, "zombie-reap", s.Name)
	assert.NotEmpty(t, s.Steps)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/no-such-scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}
