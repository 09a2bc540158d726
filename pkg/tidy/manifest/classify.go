package manifest

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jamesainslie/tidy/pkg/tidy/classifier"
	"github.com/jamesainslie/tidy/pkg/tidy/types"
)

// Confidence scores for deterministic classification outcomes.
const (
	confidenceDeterministic = 0.9  // media/archive/code, extension alone decides
	confidenceDocWithMeta   = 0.85 // document with usable metadata
	confidenceDocBare       = 0.6  // document, filename only
	confidenceUnknown       = 0.3  // unmatched extension
)

// classifyFile produces the manifest entry for one regular file.
func (b *Builder) classifyFile(ctx context.Context, stat types.FileStat) Entry {
	entry := Entry{
		Path:         stat.Path,
		RelativePath: stat.RelativePath,
		Name:         stat.Name,
		Extension:    stat.Extension,
		Size:         stat.Size,
		ModifiedAt:   stat.ModifiedAt,
	}

	info, ok := lookupExtension(stat.Extension)
	if !ok {
		entry.Kind = types.KindUnknown
		entry.Confidence = confidenceUnknown
		entry.SuggestedCategory = CategoryInbox
		entry.Signals = []string{fmt.Sprintf("unrecognized extension %q", stat.Extension)}
		entry.RecommendedHandling = types.HandlingReview
		return entry
	}

	entry.Kind = info.kind
	entry.SuggestedCategory = info.category
	entry.Signals = []string{fmt.Sprintf("extension %s matched %s", stat.Extension, info.category)}

	if info.kind == types.KindDocument {
		b.classifyDocument(ctx, &entry)
	} else {
		entry.Confidence = confidenceDeterministic
	}

	entry.RecommendedHandling = handlingFor(entry.Confidence)
	return entry
}

// classifyDocument enriches a document entry with extracted metadata.
// Extraction failures fall back to filename heuristics; an empty result
// is valid and only lowers confidence.
func (b *Builder) classifyDocument(ctx context.Context, entry *Entry) {
	meta := b.extractMetadata(ctx, entry.Path)

	if meta.Empty() {
		entry.Confidence = confidenceDocBare
		entry.Signals = append(entry.Signals, "no usable metadata, filename heuristics only")
		return
	}

	entry.Confidence = confidenceDocWithMeta
	entry.DocumentMetadata = &meta
	if meta.Title != "" {
		entry.SuggestedTitle = meta.Title
		entry.Signals = append(entry.Signals, "metadata title: "+meta.Title)
	}
	if meta.Subject != "" {
		entry.SuggestedSubject = meta.Subject
		entry.Signals = append(entry.Signals, "metadata subject: "+meta.Subject)
	}
}

// extractMetadata runs the configured extractor, falling back to
// filename heuristics when it fails or yields nothing useful.
func (b *Builder) extractMetadata(ctx context.Context, path string) types.DocumentMetadata {
	if b.extractor != nil {
		meta, err := b.extractor.Extract(ctx, path)
		if err != nil {
			logger.Debug("metadata extraction failed, using filename heuristics", "path", path, "error", err)
		} else if !meta.Empty() {
			return meta
		}
	}
	meta, err := b.fallback.Extract(ctx, path)
	if err != nil {
		return types.DocumentMetadata{}
	}
	return meta
}

// handlingFor maps a confidence score to a recommended handling.
func handlingFor(confidence float64) types.Handling {
	if confidence >= types.HighConfidence {
		return types.HandlingGroup
	}
	return types.HandlingReview
}

// escalate sends ambiguous documents to the external classifier with
// bounded concurrency. A failed call keeps the extension-based
// classification and records the fallback in the entry's signals.
func (b *Builder) escalate(ctx context.Context, entries []Entry, concurrency int) {
	var (
		indexes []int
		reqs    []classifier.Request
	)
	for i := range entries {
		e := &entries[i]
		if e.Kind != types.KindDocument || e.Confidence >= types.HighConfidence {
			continue
		}
		indexes = append(indexes, i)
		reqs = append(reqs, classifier.Request{
			Filename:      e.Name,
			Extension:     e.Extension,
			Size:          e.Size,
			Metadata:      e.DocumentMetadata,
			FolderContext: filepath.Dir(e.RelativePath),
		})
	}
	if len(reqs) == 0 {
		return
	}
	logger.Info("escalating ambiguous documents to classifier", "count", len(reqs))

	results := classifier.ClassifyAll(ctx, b.clf, reqs, concurrency)
	for n, res := range results {
		entry := &entries[indexes[n]]
		if res.Err != nil {
			logger.Warn("classification failed", "file", entry.Name, "error", res.Err)
			entry.Signals = append(entry.Signals, "classification failed, using fallback")
			continue
		}
		applyClassification(entry, res.Response)
	}
}

// applyClassification overwrites an entry's suggestion with the
// classifier's sanitized response.
func applyClassification(entry *Entry, resp classifier.Response) {
	if folder := categoryFolder(resp.Category); folder != "" {
		entry.SuggestedCategory = folder
	}
	if resp.Subject != "" {
		entry.SuggestedSubject = resp.Subject
	}
	if resp.Title != "" {
		entry.SuggestedTitle = resp.Title
	}
	entry.Confidence = types.ClampConfidence(resp.Confidence)
	entry.Signals = append(entry.Signals,
		fmt.Sprintf("ai classification: %s (%.2f)", resp.Category, entry.Confidence))
	if resp.Reasoning != "" {
		entry.Signals = append(entry.Signals, "ai reasoning: "+resp.Reasoning)
	}
	entry.RecommendedHandling = handlingFor(entry.Confidence)
}

// categoryFolder maps a classifier category to a destination folder.
func categoryFolder(category string) string {
	switch categoryToKind(category) {
	case types.KindDocument:
		return CategoryDocuments
	case types.KindMedia:
		return CategoryImages
	case types.KindArchive:
		return CategoryArchives
	case types.KindCode:
		return CategoryCode
	default:
		return ""
	}
}
