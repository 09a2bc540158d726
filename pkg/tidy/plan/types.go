// Package plan turns a manifest into a reviewable set of file
// operations. Plan generation computes destinations, validates every
// move against project-boundary invariants, resolves destination
// collisions, and emits the rollback mapping that makes a completed
// plan undoable.
package plan

import (
	"time"

	"github.com/jamesainslie/tidy/pkg/tidy/types"
)

// SchemaVersion identifies the plan JSON layout.
const SchemaVersion = 1

// ActionType classifies one planned operation.
type ActionType string

// Action types.
const (
	ActionMove       ActionType = "move"        // directory changes, name kept
	ActionRename     ActionType = "rename"      // name changes, directory kept
	ActionMoveRename ActionType = "move_rename" // both change
	ActionSkip       ActionType = "skip"        // nothing to do
)

// Action is one proposed file operation.
type Action struct {
	// ID uniquely identifies this action.
	ID string `json:"id"`

	// From is the absolute source path.
	From string `json:"from"`

	// To is the absolute destination path. Equal to From for skips.
	To string `json:"to"`

	// RelativeFrom is the source relative to the scan root.
	RelativeFrom string `json:"relative_from"`

	// RelativeTo is the destination relative to the destination root.
	// Empty for skips.
	RelativeTo string `json:"relative_to,omitempty"`

	// Type is the operation classification.
	Type ActionType `json:"type"`

	// Reason explains the action in human terms.
	Reason string `json:"reason"`

	// Confidence is carried over from the manifest entry.
	Confidence float64 `json:"confidence"`

	// Category is the destination category folder, if any.
	Category string `json:"category,omitempty"`

	// Tags carry optional labels (e.g. the inferred subject).
	Tags []string `json:"tags,omitempty"`

	// MovesInsideProjectRoot marks a project-boundary violation.
	// A violating action is always converted to a skip.
	MovesInsideProjectRoot bool `json:"moves_inside_project_root"`

	// HasCollision marks that the destination collided with another
	// action or an existing file and was renamed with a numeric suffix.
	HasCollision bool `json:"has_collision"`

	// Approved marks the action as pre-approved for execution.
	Approved bool `json:"approved"`
}

// SafetyCheck summarizes plan validation.
type SafetyCheck struct {
	// Passed is false iff any project-root violation occurred.
	Passed bool `json:"passed"`

	// Errors lists hard violations.
	Errors []string `json:"errors,omitempty"`

	// Warnings lists advisory findings; they never block a plan.
	Warnings []string `json:"warnings,omitempty"`

	// CollisionsResolved counts destinations adjusted for uniqueness.
	CollisionsResolved int `json:"collisions_resolved"`

	// LowConfidenceActions counts non-skip actions below 0.5 confidence.
	LowConfidenceActions int `json:"low_confidence_actions"`

	// SkippedItems counts skip actions.
	SkippedItems int `json:"skipped_items"`

	// ProjectRootViolations counts actions that would have crossed a
	// project boundary.
	ProjectRootViolations int `json:"project_root_violations"`
}

// Summary aggregates plan counters.
type Summary struct {
	TotalActions int `json:"total_actions"`
	Moves        int `json:"moves"`
	Renames      int `json:"renames"`
	MoveRenames  int `json:"move_renames"`
	Skips        int `json:"skips"`
	AutoApproved int `json:"auto_approved"`
}

// Preferences carries the user's naming and threshold choices.
type Preferences struct {
	// NamingStyle transforms destination filenames. See naming.go.
	NamingStyle NamingStyle `json:"naming_style"`

	// AutoApproveThreshold pre-approves actions at or above this
	// confidence.
	AutoApproveThreshold float64 `json:"auto_approve_threshold"`

	// ReviewThreshold routes entries below this confidence to the
	// Inbox folder regardless of type.
	ReviewThreshold float64 `json:"review_threshold"`
}

// DefaultPreferences returns the stock preference set.
func DefaultPreferences() Preferences {
	return Preferences{
		NamingStyle:          NamingKeep,
		AutoApproveThreshold: 0.9,
		ReviewThreshold:      types.LowConfidence,
	}
}

// Plan is the immutable unit of review.
type Plan struct {
	// ID uniquely identifies this plan.
	ID string `json:"id"`

	// SchemaVersion is the JSON schema version.
	SchemaVersion int `json:"schema_version"`

	// ManifestID is the manifest this plan was derived from.
	ManifestID string `json:"manifest_id"`

	// DestinationRoot is the root the tree is reorganized into.
	DestinationRoot string `json:"destination_root"`

	// CreatedAt is when the plan was generated.
	CreatedAt time.Time `json:"created_at"`

	// Actions is the ordered list of proposed operations.
	Actions []Action `json:"actions"`

	// Safety is the validation summary.
	Safety SafetyCheck `json:"safety"`

	// Summary holds aggregate counters.
	Summary Summary `json:"summary"`

	// Preferences echoes the user preferences the plan was built with.
	Preferences Preferences `json:"preferences"`
}

// RollbackEntry maps a post-move location back to the original one.
type RollbackEntry struct {
	// ActionID ties the entry to its plan action.
	ActionID string `json:"action_id"`

	// From is the new (post-move) location.
	From string `json:"from"`

	// To is the original location.
	To string `json:"to"`

	// Timestamp is when the entry was recorded.
	Timestamp time.Time `json:"timestamp"`
}

// Rollback is the reverse mapping for a plan. Replayed in reverse
// order it restores the pre-execution tree for every completed action.
type Rollback struct {
	// ID uniquely identifies this rollback.
	ID string `json:"id"`

	// SchemaVersion is the JSON schema version.
	SchemaVersion int `json:"schema_version"`

	// PlanID is the plan this rollback belongs to.
	PlanID string `json:"plan_id"`

	// CreatedAt is when the rollback was built.
	CreatedAt time.Time `json:"created_at"`

	// Entries is ordered to match the plan's actions.
	Entries []RollbackEntry `json:"entries"`
}
