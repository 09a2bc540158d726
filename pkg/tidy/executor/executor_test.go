package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/tidy/pkg/tidy/plan"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// movePlan builds an approved plan moving each named source file into
// dest, keeping its base name.
func movePlan(t *testing.T, dest string, sources ...string) *plan.Plan {
	t.Helper()
	p := &plan.Plan{ID: "p-test", SchemaVersion: plan.SchemaVersion}
	for i, src := range sources {
		p.Actions = append(p.Actions, plan.Action{
			ID:       fmt.Sprintf("a-%d", i),
			From:     src,
			To:       filepath.Join(dest, filepath.Base(src)),
			Type:     plan.ActionMove,
			Approved: true,
		})
	}
	return p
}

func TestExecute_MovesApprovedActions(t *testing.T) {
	t.Parallel()
	src := t.TempDir()
	dest := t.TempDir()
	writeFile(t, filepath.Join(src, "a.txt"), "alpha")
	writeFile(t, filepath.Join(src, "b.txt"), "beta")

	p := movePlan(t, dest, filepath.Join(src, "a.txt"), filepath.Join(src, "b.txt"))

	report, err := New().Execute(context.Background(), p, Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Summary.Completed)
	assert.Zero(t, report.Summary.Failed)
	assert.Equal(t, "alpha", readFile(t, filepath.Join(dest, "a.txt")))
	assert.Equal(t, "beta", readFile(t, filepath.Join(dest, "b.txt")))
	assert.NoFileExists(t, filepath.Join(src, "a.txt"))

	require.NotNil(t, report.Rollback)
	require.Len(t, report.Rollback.Entries, 2)
	assert.Equal(t, filepath.Join(dest, "a.txt"), report.Rollback.Entries[0].From)
	assert.Equal(t, filepath.Join(src, "a.txt"), report.Rollback.Entries[0].To)
}

func TestExecute_DryRunDoesNotTouchDisk(t *testing.T) {
	t.Parallel()
	src := t.TempDir()
	dest := t.TempDir()
	writeFile(t, filepath.Join(src, "a.txt"), "alpha")

	p := movePlan(t, dest, filepath.Join(src, "a.txt"))

	report, err := New().Execute(context.Background(), p, Options{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Summary.Completed)
	assert.True(t, report.DryRun)
	assert.Nil(t, report.Rollback)
	assert.FileExists(t, filepath.Join(src, "a.txt"))
	assert.NoFileExists(t, filepath.Join(dest, "a.txt"))
}

func TestExecute_DryRunReportsMissingSource(t *testing.T) {
	t.Parallel()
	src := t.TempDir()
	dest := t.TempDir()
	writeFile(t, filepath.Join(src, "a.txt"), "alpha")
	// b.txt vanished between planning and the dry run.

	p := movePlan(t, dest, filepath.Join(src, "a.txt"), filepath.Join(src, "b.txt"))

	report, err := New().Execute(context.Background(), p, Options{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Summary.Completed)
	assert.Equal(t, 1, report.Summary.Failed)
	assert.Equal(t, StatusFailed, report.Results[1].Status)
	assert.Contains(t, report.Results[1].Error, "source missing")
	assert.FileExists(t, filepath.Join(src, "a.txt"))
	assert.NoFileExists(t, filepath.Join(dest, "a.txt"))
}

func TestExecute_LateCollisionReprobed(t *testing.T) {
	t.Parallel()
	src := t.TempDir()
	dest := t.TempDir()
	writeFile(t, filepath.Join(src, "a.txt"), "mine")
	// Something else appeared at the planned destination after planning.
	writeFile(t, filepath.Join(dest, "a.txt"), "theirs")

	p := movePlan(t, dest, filepath.Join(src, "a.txt"))

	report, err := New().Execute(context.Background(), p, Options{})
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	res := report.Results[0]
	assert.Equal(t, StatusCompleted, res.Status)
	assert.Equal(t, filepath.Join(dest, "a (2).txt"), res.ActualDestination)

	// The pre-existing file is untouched; ours landed beside it.
	assert.Equal(t, "theirs", readFile(t, filepath.Join(dest, "a.txt")))
	assert.Equal(t, "mine", readFile(t, filepath.Join(dest, "a (2).txt")))

	// The rollback points at where the file actually went.
	require.Len(t, report.Rollback.Entries, 1)
	assert.Equal(t, filepath.Join(dest, "a (2).txt"), report.Rollback.Entries[0].From)
}

func TestExecute_PartialFailureContinues(t *testing.T) {
	t.Parallel()
	src := t.TempDir()
	dest := t.TempDir()

	var sources []string
	for i := 0; i < 10; i++ {
		path := filepath.Join(src, fmt.Sprintf("file%02d.txt", i))
		sources = append(sources, path)
		if i == 4 {
			// Source vanishes before execution; rename will fail.
			continue
		}
		writeFile(t, path, "x")
	}

	p := movePlan(t, dest, sources...)

	report, err := New().Execute(context.Background(), p, Options{})
	require.NoError(t, err)

	assert.Equal(t, 9, report.Summary.Completed)
	assert.Equal(t, 1, report.Summary.Failed)
	assert.Equal(t, StatusFailed, report.Results[4].Status)
	assert.NotEmpty(t, report.Results[4].Error)

	// Rollback covers exactly the completed moves.
	require.NotNil(t, report.Rollback)
	assert.Len(t, report.Rollback.Entries, 9)
	for _, entry := range report.Rollback.Entries {
		assert.NotEqual(t, "a-4", entry.ActionID)
	}
}

func TestExecute_SelectionRules(t *testing.T) {
	t.Parallel()
	src := t.TempDir()
	dest := t.TempDir()
	writeFile(t, filepath.Join(src, "a.txt"), "a")
	writeFile(t, filepath.Join(src, "b.txt"), "b")

	p := movePlan(t, dest, filepath.Join(src, "a.txt"), filepath.Join(src, "b.txt"))
	p.Actions[1].Approved = false

	// Default selection executes approved actions only.
	report, err := New().Execute(context.Background(), p, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Summary.Completed)
	assert.Equal(t, StatusSkipped, report.Results[1].Status)
	assert.Equal(t, "not selected", report.Results[1].Reason)
	assert.FileExists(t, filepath.Join(src, "b.txt"))

	// Explicit ids override approval.
	report, err = New().Execute(context.Background(), p, Options{SelectedActionIDs: []string{"a-1"}})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Summary.Completed)
	assert.Equal(t, StatusCompleted, report.Results[1].Status)
	assert.NoFileExists(t, filepath.Join(src, "b.txt"))
}

func TestExecute_ExplicitSelectionNeverRunsSkips(t *testing.T) {
	t.Parallel()
	p := &plan.Plan{ID: "p-test"}
	p.Actions = append(p.Actions, plan.Action{
		ID: "a-0", From: "/x", To: "/x", Type: plan.ActionSkip, Reason: "project root is an atomic unit",
	})

	report, err := New().Execute(context.Background(), p, Options{SelectedActionIDs: []string{"a-0"}})
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, report.Results[0].Status)
	assert.Zero(t, report.Summary.Completed)
}

func TestExecute_CancellationStopsAtActionBoundary(t *testing.T) {
	t.Parallel()
	src := t.TempDir()
	dest := t.TempDir()
	writeFile(t, filepath.Join(src, "a.txt"), "a")
	writeFile(t, filepath.Join(src, "b.txt"), "b")

	p := movePlan(t, dest, filepath.Join(src, "a.txt"), filepath.Join(src, "b.txt"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := New().Execute(ctx, p, Options{})
	require.NoError(t, err)
	assert.Zero(t, report.Summary.Completed)
	assert.Equal(t, 2, report.Summary.Skipped)
	for _, res := range report.Results {
		assert.Equal(t, "cancelled", res.Reason)
	}
	assert.FileExists(t, filepath.Join(src, "a.txt"))
}
