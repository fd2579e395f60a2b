package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/deswitch/internal/journal"
)

func TestHistoryRequiresJournal(t *testing.T) {
	_, _, err := execute(t, "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestHistoryEmpty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	stdout, _, err := execute(t, "history", "--journal", db)
	require.NoError(t, err)
	assert.Equal(t, "No runs recorded\n", stdout)
}

func TestRewriteJournalsAndHistoryLists(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	stdout, _, err := execute(t, "--format", "json", "rewrite", "testdata/classify.yaml", "--journal", db)
	require.NoError(t, err)
	var rewrite rewriteEnvelope
	require.NoError(t, json.Unmarshal([]byte(stdout), &rewrite))
	runID := rewrite.Data.RunID

	stdout, _, err = execute(t, "history", "--journal", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, runID)
	assert.Contains(t, stdout, "classify  restored=1 aborted=0  testdata/classify.yaml")

	stdout, _, err = execute(t, "history", "--journal", db, "--run", runID)
	require.NoError(t, err)
	assert.Contains(t, stdout, "run "+runID+": classify from testdata/classify.yaml\n")
	assert.Contains(t, stdout, `  #1 Classify: switch on s via Switch.map0 -> "a", "b", "c"`)

	stdout, _, err = execute(t, "--format", "json", "history", "--journal", db, "--run", runID)
	require.NoError(t, err)
	var resp struct {
		Status string        `json:"status"`
		Data   HistoryResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data.Runs, 1)
	assert.Equal(t, rewrite.Data.HashAfter, resp.Data.Runs[0].HashAfter)
	require.Len(t, resp.Data.Rewrites, 1)
	assert.Equal(t, journal.StatusRestored, resp.Data.Rewrites[0].Status)
	assert.True(t, resp.Data.Rewrites[0].GuardErased)
}

func TestHistoryUnknownRun(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	_, stderr, err := execute(t, "history", "--journal", db, "--run", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stderr, "Error [E002]: no run nope")
}
