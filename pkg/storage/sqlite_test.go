package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowlet/studio/pkg/simulate"
	"github.com/flowlet/studio/pkg/workflow"
)

func newTestRunRepo(t *testing.T) *SQLiteRunRepository {
	t.Helper()
	repo, err := NewSQLiteRunRepositoryWithPath(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func testRun(workflowID workflow.WorkflowID, startedAt time.Time) *simulate.Run {
	nodeID := workflow.NewNodeID()
	return &simulate.Run{
		ID:          simulate.NewRunID(),
		WorkflowID:  workflowID,
		Status:      simulate.RunStatusCompleted,
		StartedAt:   startedAt,
		CompletedAt: startedAt.Add(2 * time.Second),
		Transitions: []simulate.Transition{
			{NodeID: nodeID, Status: workflow.NodeStatusRunning, Timestamp: startedAt},
			{NodeID: nodeID, Status: workflow.NodeStatusCompleted, Timestamp: startedAt.Add(time.Second)},
		},
	}
}

func TestSQLiteSaveLoadRoundTrip(t *testing.T) {
	repo := newTestRunRepo(t)
	run := testRun(workflow.NewWorkflowID(), time.Now().UTC().Truncate(time.Second))

	require.NoError(t, repo.Save(run))

	loaded, err := repo.Load(run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, loaded.ID)
	assert.Equal(t, run.WorkflowID, loaded.WorkflowID)
	assert.Equal(t, run.Status, loaded.Status)
	require.Len(t, loaded.Transitions, 2)
	assert.Equal(t, run.Transitions[0].NodeID, loaded.Transitions[0].NodeID)
	assert.Equal(t, workflow.NodeStatusCompleted, loaded.Transitions[1].Status)
}

func TestSQLiteSaveUpsert(t *testing.T) {
	repo := newTestRunRepo(t)
	run := testRun(workflow.NewWorkflowID(), time.Now().UTC())
	run.Status = simulate.RunStatusRunning
	run.CompletedAt = time.Time{}
	require.NoError(t, repo.Save(run))

	run.Status = simulate.RunStatusCompleted
	run.CompletedAt = time.Now().UTC()
	require.NoError(t, repo.Save(run))

	loaded, err := repo.Load(run.ID)
	require.NoError(t, err)
	assert.Equal(t, simulate.RunStatusCompleted, loaded.Status)
	assert.False(t, loaded.CompletedAt.IsZero())
}

func TestSQLiteSaveNil(t *testing.T) {
	repo := newTestRunRepo(t)
	assert.Error(t, repo.Save(nil))
}

func TestSQLiteLoadMissing(t *testing.T) {
	repo := newTestRunRepo(t)
	_, err := repo.Load(simulate.NewRunID())
	assert.Error(t, err)
}

func TestSQLiteListByWorkflowNewestFirst(t *testing.T) {
	repo := newTestRunRepo(t)
	workflowID := workflow.NewWorkflowID()
	base := time.Now().UTC().Truncate(time.Second)

	older := testRun(workflowID, base.Add(-time.Hour))
	newer := testRun(workflowID, base)
	other := testRun(workflow.NewWorkflowID(), base)
	require.NoError(t, repo.Save(older))
	require.NoError(t, repo.Save(newer))
	require.NoError(t, repo.Save(other))

	runs, err := repo.ListByWorkflow(workflowID)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newer.ID, runs[0].ID)
	assert.Equal(t, older.ID, runs[1].ID)
}

func TestSQLiteListByWorkflowEmpty(t *testing.T) {
	repo := newTestRunRepo(t)
	runs, err := repo.ListByWorkflow(workflow.NewWorkflowID())
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestSQLiteDelete(t *testing.T) {
	repo := newTestRunRepo(t)
	run := testRun(workflow.NewWorkflowID(), time.Now().UTC())
	require.NoError(t, repo.Save(run))

	require.NoError(t, repo.Delete(run.ID))

	_, err := repo.Load(run.ID)
	assert.Error(t, err)
	assert.Error(t, repo.Delete(run.ID))
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")

	repo, err := NewSQLiteRunRepositoryWithPath(dbPath)
	require.NoError(t, err)
	run := testRun(workflow.NewWorkflowID(), time.Now().UTC())
	require.NoError(t, repo.Save(run))
	require.NoError(t, repo.Close())

	reopened, err := NewSQLiteRunRepositoryWithPath(dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	loaded, err := reopened.Load(run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, loaded.ID)
}
