package executor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/tidy/pkg/tidy/plan"
)

func TestUndo_RestoresOriginalTree(t *testing.T) {
	t.Parallel()
	src := t.TempDir()
	dest := t.TempDir()
	a := filepath.Join(src, "deep", "nested", "a.txt")
	b := filepath.Join(src, "b.txt")
	writeFile(t, a, "alpha")
	writeFile(t, b, "beta")

	p := movePlan(t, dest, a, b)
	report, err := New().Execute(context.Background(), p, Options{})
	require.NoError(t, err)
	require.Equal(t, 2, report.Summary.Completed)
	require.NoFileExists(t, a)

	undoReport, err := New().Undo(context.Background(), report.Rollback)
	require.NoError(t, err)

	assert.Equal(t, 2, undoReport.Summary.Completed)
	assert.Zero(t, undoReport.Summary.Failed)
	assert.Equal(t, "alpha", readFile(t, a))
	assert.Equal(t, "beta", readFile(t, b))
	assert.NoFileExists(t, filepath.Join(dest, "a.txt"))
	assert.NoFileExists(t, filepath.Join(dest, "b.txt"))
}

func TestUndo_ReplaysInReverseOrder(t *testing.T) {
	t.Parallel()
	rb := &plan.Rollback{
		PlanID: "p-test",
		Entries: []plan.RollbackEntry{
			{ActionID: "a-0", From: "/missing/one", To: "/orig/one", Timestamp: time.Now()},
			{ActionID: "a-1", From: "/missing/two", To: "/orig/two", Timestamp: time.Now()},
		},
	}

	report, err := New().Undo(context.Background(), rb)
	require.NoError(t, err)

	require.Len(t, report.Results, 2)
	assert.Equal(t, "a-1", report.Results[0].ActionID)
	assert.Equal(t, "a-0", report.Results[1].ActionID)
}

func TestUndo_MissingSourceFailsEntryOnly(t *testing.T) {
	t.Parallel()
	src := t.TempDir()
	dest := t.TempDir()
	a := filepath.Join(src, "a.txt")
	b := filepath.Join(src, "b.txt")
	writeFile(t, a, "alpha")
	writeFile(t, b, "beta")

	p := movePlan(t, dest, a, b)
	report, err := New().Execute(context.Background(), p, Options{})
	require.NoError(t, err)

	// One moved file disappears before the undo.
	require.NoError(t, os.Remove(filepath.Join(dest, "a.txt")))

	undoReport, err := New().Undo(context.Background(), report.Rollback)
	require.NoError(t, err)

	assert.Equal(t, 1, undoReport.Summary.Completed)
	assert.Equal(t, 1, undoReport.Summary.Failed)
	assert.Equal(t, "beta", readFile(t, b))

	var failed ActionResult
	for _, res := range undoReport.Results {
		if res.Status == StatusFailed {
			failed = res
		}
	}
	assert.Contains(t, failed.Error, "rollback source missing")
}

func TestUndo_NeverOverwritesOccupiedOriginal(t *testing.T) {
	t.Parallel()
	src := t.TempDir()
	dest := t.TempDir()
	a := filepath.Join(src, "a.txt")
	writeFile(t, a, "alpha")

	p := movePlan(t, dest, a)
	report, err := New().Execute(context.Background(), p, Options{})
	require.NoError(t, err)

	// Something new claims the original location.
	writeFile(t, a, "newcomer")

	undoReport, err := New().Undo(context.Background(), report.Rollback)
	require.NoError(t, err)

	assert.Equal(t, 1, undoReport.Summary.Failed)
	assert.Contains(t, undoReport.Results[0].Error, "original location occupied")
	assert.Equal(t, "newcomer", readFile(t, a))
	assert.Equal(t, "alpha", readFile(t, filepath.Join(dest, "a.txt")))
}
