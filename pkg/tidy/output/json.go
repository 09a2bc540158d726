package output

import (
	"encoding/json"
	"io"

	"github.com/jamesainslie/tidy/pkg/tidy/executor"
	"github.com/jamesainslie/tidy/pkg/tidy/manifest"
	"github.com/jamesainslie/tidy/pkg/tidy/plan"
)

// JSONFormatter renders artifacts as indented JSON, matching the
// persisted artifact layout byte for byte.
type JSONFormatter struct{}

// FormatManifest writes the manifest as JSON.
func (f *JSONFormatter) FormatManifest(w io.Writer, m *manifest.Manifest) error {
	return encode(w, m)
}

// FormatPlan writes the plan as JSON.
func (f *JSONFormatter) FormatPlan(w io.Writer, p *plan.Plan) error {
	return encode(w, p)
}

// FormatReport writes the report as JSON.
func (f *JSONFormatter) FormatReport(w io.Writer, r *executor.Report) error {
	return encode(w, r)
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
