// Package types provides core data types shared by the tidy pipeline stages.
// It defines entry kinds, handling recommendations, confidence bands, and
// document metadata, along with helpers for working with confidence scores.
package types

import (
	"math"
	"strings"
	"time"
)

// Kind classifies a manifest entry.
type Kind string

// Entry kinds.
const (
	KindProjectRoot Kind = "project_root"
	KindDocument    Kind = "document"
	KindMedia       Kind = "media"
	KindArchive     Kind = "archive"
	KindCode        Kind = "code"
	KindGenerated   Kind = "generated"
	KindUnknown     Kind = "unknown"
)

// Handling is the recommended treatment for a manifest entry.
type Handling string

// Handling recommendations.
const (
	// HandlingKeep means the entry must stay exactly where it is.
	HandlingKeep Handling = "keep"

	// HandlingGroup means the entry is safe to move into a category folder.
	HandlingGroup Handling = "group"

	// HandlingReview means the entry needs a human decision before moving.
	HandlingReview Handling = "review"
)

// Confidence band thresholds. Entries at or above HighConfidence are
// eligible for grouping; entries below LowConfidence are flagged in
// safety summaries.
const (
	HighConfidence = 0.7
	LowConfidence  = 0.5
)

// Band partitions a confidence score into high/medium/low.
type Band string

// Confidence bands.
const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// BandOf returns the confidence band for a score.
func BandOf(confidence float64) Band {
	switch {
	case confidence >= HighConfidence:
		return BandHigh
	case confidence >= LowConfidence:
		return BandMedium
	default:
		return BandLow
	}
}

// ClampConfidence clamps a confidence score to [0, 1].
// Values from external classifiers are never trusted to be in range.
func ClampConfidence(c float64) float64 {
	if math.IsNaN(c) || c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// RoundConfidence rounds a confidence score to 2 decimal places.
func RoundConfidence(c float64) float64 {
	return math.Round(c*100) / 100
}

// DocumentMetadata holds best-effort metadata extracted from a document.
// Every field is optional; an empty struct is valid.
type DocumentMetadata struct {
	// Title is the document title, if known.
	Title string `json:"title,omitempty"`

	// Author is the document author, if known.
	Author string `json:"author,omitempty"`

	// Subject is the document subject or topic, if known.
	Subject string `json:"subject,omitempty"`

	// Keywords are free-form keywords associated with the document.
	Keywords []string `json:"keywords,omitempty"`

	// PageCount is the number of pages, or 0 if unknown.
	PageCount int `json:"page_count,omitempty"`

	// FirstPageSnippet is a short text excerpt from the first page.
	FirstPageSnippet string `json:"first_page_snippet,omitempty"`
}

// Empty reports whether the metadata carries no useful signal.
func (m DocumentMetadata) Empty() bool {
	return strings.TrimSpace(m.Title) == "" &&
		strings.TrimSpace(m.Author) == "" &&
		strings.TrimSpace(m.Subject) == "" &&
		len(m.Keywords) == 0 &&
		m.PageCount == 0 &&
		strings.TrimSpace(m.FirstPageSnippet) == ""
}

// FileStat captures the filesystem identity of a scanned item.
type FileStat struct {
	// Path is the absolute path to the item.
	Path string `json:"path"`

	// RelativePath is the path relative to the scan root.
	RelativePath string `json:"relative_path"`

	// Name is the base name of the item.
	Name string `json:"name"`

	// Extension is the file extension including the dot, lowercased.
	// Empty for directories.
	Extension string `json:"extension,omitempty"`

	// Size is the item size in bytes (0 for directories).
	Size int64 `json:"size"`

	// ModifiedAt is the last modification time.
	ModifiedAt time.Time `json:"modified_at"`

	// IsDir reports whether the item is a directory.
	IsDir bool `json:"is_dir"`
}
