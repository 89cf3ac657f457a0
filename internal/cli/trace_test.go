package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/procsim/internal/trace"
)

// exportedDB runs an autorun with trace export and returns the db path and
// the exported run id.
func exportedDB(t *testing.T) (string, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "procsim.db")

	_, err := executeCommand(t, "autorun", "--forks", "1", "--trace-db", dbPath)
	require.NoError(t, err)

	store, err := trace.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()
	runs, err := store.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	return dbPath, runs[0].ID
}

func TestTraceCommand_List(t *testing.T) {
	dbPath, runID := exportedDB(t)

	out, err := executeCommand(t, "trace", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, runID)
	assert.Contains(t, out, "autorun --forks 1")
	assert.Contains(t, out, "ticks=3 processes=3")
}

func TestTraceCommand_ListEmpty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")
	store, err := trace.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	out, err := executeCommand(t, "trace", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "no runs exported")
}

func TestTraceCommand_Dump(t *testing.T) {
	dbPath, runID := exportedDB(t)

	out, err := executeCommand(t, "trace", "--db", dbPath, runID)
	require.NoError(t, err)
	assert.Contains(t, out, "run "+runID)
	assert.Contains(t, out, "audit log:")
	assert.Contains(t, out, "root process 1001 created")
	assert.Contains(t, out, "execution intervals:")
	assert.Contains(t, out, "created")
}

func TestTraceCommand_UnknownRun(t *testing.T) {
	dbPath, _ := exportedDB(t)

	_, err := executeCommand(t, "trace", "--db", dbPath, "no-such-run")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to read run")
}

func TestTraceCommand_RequiresDB(t *testing.T) {
	_, err := executeCommand(t, "trace")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"db" not set`)
}
