package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/tidy/pkg/tidy/artifact"
	"github.com/jamesainslie/tidy/pkg/tidy/executor"
	"github.com/jamesainslie/tidy/pkg/tidy/plan"
)

func TestLatestExecutedRollback(t *testing.T) {
	store, err := artifact.NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = latestExecutedRollback(store)
	assert.Error(t, err, "no execution has happened yet")

	executed := &plan.Rollback{
		ID:     "rb-exec",
		PlanID: "p-1",
		Entries: []plan.RollbackEntry{
			{ActionID: "a-1", From: "/organized/a.txt", To: "/downloads/a.txt"},
		},
	}
	report := &executor.Report{ID: "rep-1", PlanID: "p-1", Rollback: executed}
	_, err = store.Save(artifact.StageReport, report.ID, report)
	require.NoError(t, err)

	// A newer plan-time rollback artifact describes moves that were
	// never executed; it must not shadow the executed one.
	planned := &plan.Rollback{
		ID:     "rb-plan",
		PlanID: "p-2",
		Entries: []plan.RollbackEntry{
			{ActionID: "a-9", From: "/organized/b.txt", To: "/downloads/b.txt"},
		},
	}
	_, err = store.Save(artifact.StageRollback, planned.ID, planned)
	require.NoError(t, err)

	rb, err := latestExecutedRollback(store)
	require.NoError(t, err)
	assert.Equal(t, "rb-exec", rb.ID)
	require.Len(t, rb.Entries, 1)
	assert.Equal(t, "a-1", rb.Entries[0].ActionID)
}

func TestLatestExecutedRollback_ReportWithoutMoves(t *testing.T) {
	store, err := artifact.NewStore(t.TempDir())
	require.NoError(t, err)

	report := &executor.Report{ID: "rep-undo", PlanID: "p-1"}
	_, err = store.Save(artifact.StageReport, report.ID, report)
	require.NoError(t, err)

	_, err = latestExecutedRollback(store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recorded no moves")
}
