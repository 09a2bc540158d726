package executor

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jamesainslie/tidy/pkg/tidy/plan"
)

// Undo replays a rollback in reverse chronological order, renaming
// every moved file back to its original location. A missing rollback
// source fails that entry only; the undo continues with the rest.
func (e *Executor) Undo(ctx context.Context, rb *plan.Rollback) (*Report, error) {
	report := &Report{
		ID:            uuid.NewString(),
		SchemaVersion: SchemaVersion,
		PlanID:        rb.PlanID,
	}

	cancelled := false
	for i := len(rb.Entries) - 1; i >= 0; i-- {
		entry := rb.Entries[i]
		if cancelled || ctx.Err() != nil {
			cancelled = true
			report.record(ActionResult{ActionID: entry.ActionID, Status: StatusSkipped, Reason: "cancelled"})
			continue
		}
		report.record(undoEntry(entry))
	}

	report.CreatedAt = time.Now().UTC()
	logger.Info("undo finished", "plan", rb.PlanID, "completed", report.Summary.Completed,
		"failed", report.Summary.Failed)
	return report, nil
}

// undoEntry restores one moved file. The original location is never
// overwritten: if something new occupies it, the entry fails instead.
func undoEntry(entry plan.RollbackEntry) ActionResult {
	result := ActionResult{ActionID: entry.ActionID}

	if !pathExists(entry.From) {
		result.Status = StatusFailed
		result.Error = "rollback source missing: " + entry.From
		logger.Warn("rollback source missing", "path", entry.From)
		return result
	}
	if pathExists(entry.To) {
		result.Status = StatusFailed
		result.Error = "original location occupied: " + entry.To
		return result
	}
	if err := os.MkdirAll(filepath.Dir(entry.To), 0o755); err != nil {
		result.Status = StatusFailed
		result.Error = err.Error()
		return result
	}
	if err := os.Rename(entry.From, entry.To); err != nil {
		result.Status = StatusFailed
		result.Error = err.Error()
		return result
	}

	result.Status = StatusCompleted
	logger.Debug("restored", "from", entry.From, "to", entry.To)
	return result
}
