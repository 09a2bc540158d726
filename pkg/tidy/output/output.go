// Package output provides formatters for displaying pipeline artifacts
// (manifests, plans, execution reports) in various output formats.
//
// The package uses a registry pattern so formatter implementations can
// be selected at runtime:
//
//	formatter, err := output.Get("pretty")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := formatter.FormatPlan(os.Stdout, p); err != nil {
//	    log.Fatal(err)
//	}
package output

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/jamesainslie/tidy/pkg/tidy/executor"
	"github.com/jamesainslie/tidy/pkg/tidy/manifest"
	"github.com/jamesainslie/tidy/pkg/tidy/plan"
)

// Formatter renders pipeline artifacts to a writer.
type Formatter interface {
	// FormatManifest renders a scan manifest.
	FormatManifest(w io.Writer, m *manifest.Manifest) error

	// FormatPlan renders a plan with its safety verdict.
	FormatPlan(w io.Writer, p *plan.Plan) error

	// FormatReport renders an execution report.
	FormatReport(w io.Writer, r *executor.Report) error
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Formatter)
)

// Register adds a formatter under the given name, replacing any
// existing registration.
func Register(name string, f Formatter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// Get returns the formatter registered under name.
func Get(name string) (Formatter, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %v)", name, names())
	}
	return f, nil
}

// names returns registered formatter names, sorted.
// Caller must hold the registry lock.
func names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func init() {
	Register("json", &JSONFormatter{})
	Register("pretty", NewPrettyFormatter())
}
