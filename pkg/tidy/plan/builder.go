package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jamesainslie/tidy/pkg/tidy/logging"
	"github.com/jamesainslie/tidy/pkg/tidy/manifest"
	"github.com/jamesainslie/tidy/pkg/tidy/types"
)

var logger = logging.Get("plan")

// Builder generates plans from manifests.
type Builder struct{}

// NewBuilder returns a ready Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build computes a plan and its rollback mapping for the given manifest,
// destination root, and user preferences. The manifest is read-only
// input; re-running with different preferences yields a new plan id.
func (b *Builder) Build(m *manifest.Manifest, destRoot string, prefs Preferences) (*Plan, *Rollback, error) {
	if m == nil {
		return nil, nil, fmt.Errorf("manifest is nil")
	}
	destRoot, err := filepath.Abs(destRoot)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving destination root: %w", err)
	}
	prefs = normalizePreferences(prefs)

	actions := make([]Action, 0, len(m.Entries))
	var violations []string
	for _, entry := range m.Entries {
		action, violation := b.buildAction(entry, m.ProjectRoots, destRoot, prefs)
		if violation != "" {
			violations = append(violations, violation)
		}
		actions = append(actions, action)
	}

	// Entries already sitting at their computed destination are complete.
	// They must become skips before collision resolution, or the disk
	// probe would see the source itself occupying the destination and
	// suffix it into a pointless rename.
	for i := range actions {
		a := &actions[i]
		if a.Type != ActionSkip && a.To == a.From {
			a.Type = ActionSkip
			a.RelativeTo = ""
			a.Reason = "already at destination"
		}
	}

	resolved := ResolveCollisions(actions, statExists)

	for i := range actions {
		finalizeAction(&actions[i], prefs)
	}

	now := time.Now().UTC()
	p := &Plan{
		ID:              uuid.NewString(),
		SchemaVersion:   SchemaVersion,
		ManifestID:      m.ID,
		DestinationRoot: destRoot,
		CreatedAt:       now,
		Actions:         actions,
		Safety:          buildSafetyCheck(actions, violations, resolved),
		Summary:         buildSummary(actions),
		Preferences:     prefs,
	}

	rollback := &Rollback{
		ID:            uuid.NewString(),
		SchemaVersion: SchemaVersion,
		PlanID:        p.ID,
		CreatedAt:     now,
	}
	for _, a := range p.Actions {
		if a.Type == ActionSkip {
			continue
		}
		rollback.Entries = append(rollback.Entries, RollbackEntry{
			ActionID:  a.ID,
			From:      a.To,
			To:        a.From,
			Timestamp: now,
		})
	}

	logger.Info("plan built", "id", p.ID, "actions", p.Summary.TotalActions,
		"skips", p.Summary.Skips, "passed", p.Safety.Passed)
	return p, rollback, nil
}

// normalizePreferences fills in zero-value preferences with defaults.
func normalizePreferences(prefs Preferences) Preferences {
	def := DefaultPreferences()
	if prefs.NamingStyle == "" {
		prefs.NamingStyle = def.NamingStyle
	}
	if prefs.AutoApproveThreshold <= 0 {
		prefs.AutoApproveThreshold = def.AutoApproveThreshold
	}
	if prefs.ReviewThreshold <= 0 {
		prefs.ReviewThreshold = def.ReviewThreshold
	}
	return prefs
}

// buildAction produces the raw action for one manifest entry and, when
// the proposed move would cross a project boundary, the violation text.
func (b *Builder) buildAction(entry manifest.Entry, projectRoots []string, destRoot string, prefs Preferences) (Action, string) {
	action := Action{
		ID:           uuid.NewString(),
		From:         entry.Path,
		To:           entry.Path,
		RelativeFrom: entry.RelativePath,
		Confidence:   entry.Confidence,
	}

	// Entries pinned by the manifest are never moved and never get a
	// destination computed.
	if entry.RecommendedHandling == types.HandlingKeep || entry.InsideProjectRoot {
		action.Type = ActionSkip
		action.Confidence = 1.0
		action.Reason = keepReason(entry)
		return action, ""
	}

	dest, category, tags := computeDestination(entry, destRoot, prefs)
	action.To = dest
	action.Category = category
	action.Tags = tags
	if rel, err := filepath.Rel(destRoot, dest); err == nil {
		action.RelativeTo = rel
	}
	action.Reason = fmt.Sprintf("group %s into %s", entry.Name, category)

	if violation := boundaryViolation(action.From, action.To, projectRoots); violation != "" {
		action.Type = ActionSkip
		action.To = action.From
		action.RelativeTo = ""
		action.MovesInsideProjectRoot = true
		action.Reason = "skipped for safety: " + violation
		return action, violation
	}

	return action, ""
}

// keepReason explains why an entry stays in place.
func keepReason(entry manifest.Entry) string {
	switch {
	case entry.InsideProjectRoot:
		return "inside project root " + entry.ParentProjectRoot
	case entry.Kind == types.KindProjectRoot:
		return "project root is an atomic unit"
	case entry.Kind == types.KindGenerated:
		return "generated folder is never reorganized"
	default:
		return "recommended handling is keep"
	}
}

// computeDestination returns the destination path, category, and tags
// for a movable entry. Entries below the review threshold are routed to
// the Inbox folder regardless of type.
func computeDestination(entry manifest.Entry, destRoot string, prefs Preferences) (string, string, []string) {
	if entry.Confidence < prefs.ReviewThreshold {
		name := TransformName(entry.Name, prefs.NamingStyle)
		return filepath.Join(destRoot, manifest.CategoryInbox, name), manifest.CategoryInbox, nil
	}

	category := entry.SuggestedCategory
	if category == "" {
		category = manifest.CategoryInbox
	}

	dir := filepath.Join(destRoot, category)
	name := entry.Name
	var tags []string

	if entry.Kind == types.KindDocument && entry.SuggestedTitle != "" {
		name = entry.SuggestedTitle + entry.Extension
		if entry.SuggestedSubject != "" {
			dir = filepath.Join(dir, entry.SuggestedSubject)
			tags = append(tags, entry.SuggestedSubject)
		}
	}

	return filepath.Join(dir, TransformName(name, prefs.NamingStyle)), category, tags
}

// boundaryViolation checks a (source, destination) pair against every
// known project root. Moving out of a root (when the source is not the
// root itself) and moving into any root are both hard violations.
func boundaryViolation(from, to string, projectRoots []string) string {
	for _, root := range projectRoots {
		if from != root && isUnder(from, root) {
			return fmt.Sprintf("%s would move out of project root %s", from, root)
		}
		if to == root || isUnder(to, root) {
			return fmt.Sprintf("%s would move into project root %s", from, root)
		}
	}
	return ""
}

// isUnder reports whether path is strictly inside dir.
func isUnder(path, dir string) bool {
	return strings.HasPrefix(path, dir+string(filepath.Separator))
}

// finalizeAction classifies the action type from its final source and
// destination and applies auto-approval. Runs after collision
// resolution because suffixing can turn a move into a move+rename.
func finalizeAction(a *Action, prefs Preferences) {
	if a.Type == ActionSkip {
		return
	}

	sameDir := filepath.Dir(a.From) == filepath.Dir(a.To)
	sameName := filepath.Base(a.From) == filepath.Base(a.To)

	switch {
	case sameDir && sameName:
		a.Type = ActionSkip
		a.To = a.From
		a.Reason = "already at destination"
	case sameDir:
		a.Type = ActionRename
	case sameName:
		a.Type = ActionMove
	default:
		a.Type = ActionMoveRename
	}

	if a.Type != ActionSkip && a.Confidence >= prefs.AutoApproveThreshold {
		a.Approved = true
	}
}

// buildSafetyCheck aggregates validation results. Low confidence is a
// warning, never an error; only project-root violations fail a plan.
func buildSafetyCheck(actions []Action, violations []string, collisionsResolved int) SafetyCheck {
	check := SafetyCheck{
		Passed:                len(violations) == 0,
		Errors:                violations,
		CollisionsResolved:    collisionsResolved,
		ProjectRootViolations: len(violations),
	}
	for _, a := range actions {
		if a.Type == ActionSkip {
			check.SkippedItems++
			continue
		}
		if a.Confidence < types.LowConfidence {
			check.LowConfidenceActions++
		}
	}
	if check.LowConfidenceActions > 0 {
		check.Warnings = append(check.Warnings,
			fmt.Sprintf("%d low-confidence actions routed for review", check.LowConfidenceActions))
	}
	if collisionsResolved > 0 {
		check.Warnings = append(check.Warnings,
			fmt.Sprintf("%d destination collisions resolved with numeric suffixes", collisionsResolved))
	}
	return check
}

// buildSummary counts actions by type.
func buildSummary(actions []Action) Summary {
	s := Summary{TotalActions: len(actions)}
	for _, a := range actions {
		switch a.Type {
		case ActionMove:
			s.Moves++
		case ActionRename:
			s.Renames++
		case ActionMoveRename:
			s.MoveRenames++
		case ActionSkip:
			s.Skips++
		}
		if a.Approved {
			s.AutoApproved++
		}
	}
	return s
}

// statExists is the default filesystem probe for collision resolution.
func statExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
