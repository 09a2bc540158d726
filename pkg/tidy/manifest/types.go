// Package manifest builds the classified inventory of a scanned tree.
// The manifest is the first pipeline artifact: one entry per leaf item
// (file, project root, or generated folder) with a confidence score,
// an evidence trail, and a recommended handling.
package manifest

import (
	"time"

	"github.com/jamesainslie/tidy/pkg/tidy/types"
)

// SchemaVersion identifies the manifest JSON layout.
const SchemaVersion = 1

// Entry is one classified item in the manifest.
type Entry struct {
	// Path is the absolute path to the item.
	Path string `json:"path"`

	// RelativePath is the path relative to the scan root.
	RelativePath string `json:"relative_path"`

	// Name is the base name of the item.
	Name string `json:"name"`

	// Extension is the lowercased file extension including the dot.
	Extension string `json:"extension,omitempty"`

	// Size is the file size in bytes (0 for directories).
	Size int64 `json:"size"`

	// ModifiedAt is the last modification time.
	ModifiedAt time.Time `json:"modified_at"`

	// Kind is the classified kind of the entry.
	Kind types.Kind `json:"kind"`

	// Confidence is the classification confidence in [0, 1].
	Confidence float64 `json:"confidence"`

	// Signals is the ordered, human-readable evidence trail.
	Signals []string `json:"signals,omitempty"`

	// SuggestedCategory is the destination category folder name
	// (e.g. "Documents", "Images"). Always non-empty for files.
	SuggestedCategory string `json:"suggested_category,omitempty"`

	// SuggestedSubject is an optional subject folder inside the
	// category, inferred from metadata or the classifier.
	SuggestedSubject string `json:"suggested_subject,omitempty"`

	// SuggestedTitle is an optional cleaned title for renaming.
	SuggestedTitle string `json:"suggested_title,omitempty"`

	// DocumentMetadata is the extracted metadata, if any.
	DocumentMetadata *types.DocumentMetadata `json:"document_metadata,omitempty"`

	// InsideProjectRoot reports whether the item lives inside a
	// detected project root. Such entries are always kept in place.
	InsideProjectRoot bool `json:"inside_project_root"`

	// ParentProjectRoot is the project root containing this item,
	// empty when InsideProjectRoot is false.
	ParentProjectRoot string `json:"parent_project_root,omitempty"`

	// RecommendedHandling drives plan generation for this entry.
	RecommendedHandling types.Handling `json:"recommended_handling"`
}

// Summary aggregates manifest counters.
type Summary struct {
	// TotalItems is the number of entries.
	TotalItems int `json:"total_items"`

	// TotalSize is the sum of all entry sizes in bytes.
	TotalSize int64 `json:"total_size"`

	// ByKind counts entries per kind.
	ByKind map[types.Kind]int `json:"by_kind"`

	// HighConfidence counts entries with confidence >= 0.7.
	HighConfidence int `json:"high_confidence"`

	// MediumConfidence counts entries with 0.5 <= confidence < 0.7.
	MediumConfidence int `json:"medium_confidence"`

	// LowConfidence counts entries with confidence < 0.5.
	LowConfidence int `json:"low_confidence"`
}

// Options configures a scan.
type Options struct {
	// Root is the directory to scan.
	Root string `json:"root"`

	// MaxDepth bounds walk depth. 0 uses the detector default.
	MaxDepth int `json:"max_depth,omitempty"`

	// Ignore contains glob patterns matched against root-relative paths.
	Ignore []string `json:"ignore,omitempty"`

	// UseClassifier enables escalation of ambiguous documents to the
	// external classifier.
	UseClassifier bool `json:"use_classifier"`

	// ClassifierConcurrency bounds parallel classifier calls.
	// 0 uses the pool default.
	ClassifierConcurrency int `json:"classifier_concurrency,omitempty"`
}

// Manifest is the immutable result of one scan.
type Manifest struct {
	// ID uniquely identifies this manifest.
	ID string `json:"id"`

	// SchemaVersion is the JSON schema version.
	SchemaVersion int `json:"schema_version"`

	// Root is the absolute scan root.
	Root string `json:"root"`

	// CreatedAt is when the scan completed.
	CreatedAt time.Time `json:"created_at"`

	// Options echoes the scan options used.
	Options Options `json:"options"`

	// Entries is the ordered list of classified items.
	Entries []Entry `json:"entries"`

	// Summary holds aggregate counters.
	Summary Summary `json:"summary"`

	// ProjectRoots lists every detected project root, keyed by path.
	ProjectRoots []string `json:"project_roots,omitempty"`
}

// summarize recomputes the aggregate counters from the entries.
func summarize(entries []Entry) Summary {
	s := Summary{ByKind: make(map[types.Kind]int)}
	for _, e := range entries {
		s.TotalItems++
		s.TotalSize += e.Size
		s.ByKind[e.Kind]++
		switch types.BandOf(e.Confidence) {
		case types.BandHigh:
			s.HighConfidence++
		case types.BandMedium:
			s.MediumConfidence++
		default:
			s.LowConfidence++
		}
	}
	return s
}
