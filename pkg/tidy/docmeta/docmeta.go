// Package docmeta defines the document metadata extraction contract and
// ships a filename-heuristics implementation. Extraction is best effort:
// every metadata field is optional and an empty result is valid.
package docmeta

import (
	"context"

	"github.com/jamesainslie/tidy/pkg/tidy/types"
)

// Extractor produces best-effort metadata for a document file.
// Implementations must treat missing fields as normal, not as errors;
// an error is reserved for genuinely failed reads.
type Extractor interface {
	Extract(ctx context.Context, path string) (types.DocumentMetadata, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, path string) (types.DocumentMetadata, error)

// Extract calls f.
func (f ExtractorFunc) Extract(ctx context.Context, path string) (types.DocumentMetadata, error) {
	return f(ctx, path)
}
