// Package executor applies approved plan actions to the filesystem.
// Moves are sequential atomic renames with execution-time collision
// re-probing; every outcome is recorded and the rollback produced
// covers exactly the actions that completed. Nothing is ever deleted
// or overwritten.
package executor

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jamesainslie/tidy/pkg/tidy/logging"
	"github.com/jamesainslie/tidy/pkg/tidy/plan"
)

var logger = logging.Get("executor")

// SchemaVersion identifies the execution report JSON layout.
const SchemaVersion = 1

// Status is the outcome of one action.
type Status string

// Action outcomes.
const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// ActionResult records the outcome of one plan action.
type ActionResult struct {
	// ActionID ties the result to its plan action.
	ActionID string `json:"action_id"`

	// Status is the outcome.
	Status Status `json:"status"`

	// Error holds the failure text when Status is failed.
	Error string `json:"error,omitempty"`

	// Reason explains a skip.
	Reason string `json:"reason,omitempty"`

	// ActualDestination is set when a late collision forced a rename
	// away from the planned destination.
	ActualDestination string `json:"actual_destination,omitempty"`
}

// ReportSummary aggregates result counts.
type ReportSummary struct {
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// Report is the record of one executor run.
type Report struct {
	// ID uniquely identifies this report.
	ID string `json:"id"`

	// SchemaVersion is the JSON schema version.
	SchemaVersion int `json:"schema_version"`

	// PlanID is the plan (or rollback's plan) that was executed.
	PlanID string `json:"plan_id"`

	// CreatedAt is when the run finished.
	CreatedAt time.Time `json:"created_at"`

	// DryRun reports whether filesystem mutation was suppressed.
	DryRun bool `json:"dry_run"`

	// Results holds one entry per plan action, in plan order.
	Results []ActionResult `json:"results"`

	// Summary aggregates result counts.
	Summary ReportSummary `json:"summary"`

	// Rollback maps completed moves back to their origins. Nil for
	// dry runs and undo runs.
	Rollback *plan.Rollback `json:"rollback,omitempty"`
}

// Options selects and modulates the actions to execute.
type Options struct {
	// DryRun suppresses all filesystem mutation.
	DryRun bool

	// SelectedActionIDs restricts execution to these actions. Empty
	// defaults to all approved actions.
	SelectedActionIDs []string
}

// Executor applies plans and rollbacks to the filesystem.
type Executor struct{}

// New returns a ready Executor.
func New() *Executor {
	return &Executor{}
}

// Execute runs the selected actions sequentially, in plan order.
// A single failed action never aborts the batch. Cancellation is
// honored at action boundaries; completed moves stay valid and are
// reflected in the returned rollback.
func (e *Executor) Execute(ctx context.Context, p *plan.Plan, opts Options) (*Report, error) {
	now := time.Now().UTC()
	report := &Report{
		ID:            uuid.NewString(),
		SchemaVersion: SchemaVersion,
		PlanID:        p.ID,
		DryRun:        opts.DryRun,
	}

	var rollback *plan.Rollback
	if !opts.DryRun {
		rollback = &plan.Rollback{
			ID:            uuid.NewString(),
			SchemaVersion: plan.SchemaVersion,
			PlanID:        p.ID,
			CreatedAt:     now,
		}
	}

	selected := selectionSet(opts.SelectedActionIDs)
	cancelled := false

	for _, action := range p.Actions {
		switch {
		case cancelled:
			report.record(ActionResult{ActionID: action.ID, Status: StatusSkipped, Reason: "cancelled"})
		case action.Type == plan.ActionSkip:
			report.record(ActionResult{ActionID: action.ID, Status: StatusSkipped, Reason: action.Reason})
		case !isSelected(action, selected):
			report.record(ActionResult{ActionID: action.ID, Status: StatusSkipped, Reason: "not selected"})
		default:
			if err := ctx.Err(); err != nil {
				cancelled = true
				report.record(ActionResult{ActionID: action.ID, Status: StatusSkipped, Reason: "cancelled"})
				continue
			}
			report.record(e.apply(action, opts.DryRun, rollback))
		}
	}

	report.CreatedAt = time.Now().UTC()
	report.Rollback = rollback
	logger.Info("execution finished", "plan", p.ID, "completed", report.Summary.Completed,
		"failed", report.Summary.Failed, "skipped", report.Summary.Skipped, "dry_run", opts.DryRun)
	return report, nil
}

// apply performs one move: ensure the destination directory, re-probe
// for a late collision, then rename atomically.
func (e *Executor) apply(action plan.Action, dryRun bool, rollback *plan.Rollback) ActionResult {
	result := ActionResult{ActionID: action.ID}

	// The plan may be stale relative to concurrent filesystem changes;
	// probe again and pick a fresh unique path if needed.
	dest := plan.UniqueDestination(action.To, pathExists)
	if dest != action.To {
		result.ActualDestination = dest
		logger.Warn("late destination collision", "planned", action.To, "actual", dest)
	}

	if dryRun {
		// Still verify the source so a stale plan surfaces the same
		// failure a real run would hit.
		if !pathExists(action.From) {
			result.Status = StatusFailed
			result.Error = "source missing: " + action.From
			return result
		}
		result.Status = StatusCompleted
		return result
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		result.Status = StatusFailed
		result.Error = err.Error()
		return result
	}
	if err := os.Rename(action.From, dest); err != nil {
		result.Status = StatusFailed
		result.Error = err.Error()
		logger.Error("move failed", "from", action.From, "to", dest, "error", err)
		return result
	}

	rollback.Entries = append(rollback.Entries, plan.RollbackEntry{
		ActionID:  action.ID,
		From:      dest,
		To:        action.From,
		Timestamp: time.Now().UTC(),
	})
	result.Status = StatusCompleted
	logger.Debug("moved", "from", action.From, "to", dest)
	return result
}

// record appends a result and updates the summary counts.
func (r *Report) record(res ActionResult) {
	r.Results = append(r.Results, res)
	switch res.Status {
	case StatusCompleted:
		r.Summary.Completed++
	case StatusFailed:
		r.Summary.Failed++
	case StatusSkipped:
		r.Summary.Skipped++
	}
}

// selectionSet builds a lookup set from explicit action ids.
func selectionSet(ids []string) map[string]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// isSelected applies the selection rule: explicit ids intersected with
// non-skip actions, else only approved actions.
func isSelected(action plan.Action, selected map[string]struct{}) bool {
	if selected != nil {
		_, ok := selected[action.ID]
		return ok
	}
	return action.Approved
}

// pathExists reports whether anything is present at path.
func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
