package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestScenarios_Golden runs every scenario under testdata/scenarios and
// compares its trace snapshot against the matching golden file.
//
// Regenerate golden files after intentional trace changes with:
//
//	go test ./internal/harness -update
func TestScenarios_Golden(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths, "no scenario files found")

	for _, path := range paths {
		scenario, err := LoadScenario(path)
		require.NoError(t, err, "load %s", path)

		t.Run(scenario.Name, func(t *testing.T) {
			RunWithGolden(t, scenario)
		})
	}
}

func TestSnapshot_MarshalIsStable(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/zombie-reap.yaml")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	require.True(t, result.Passed(), "errors: %v", result.Errors)

	a, err := Snapshot(scenario.Name, result).Marshal()
	require.NoError(t, err)
	b, err := Snapshot(scenario.Name, result).Marshal()
	require.NoError(t, err)
	require.Equal(t, string(a), string(b))
}
