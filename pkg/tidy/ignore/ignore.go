// Package ignore matches scan-root-relative paths against glob-like
// ignore patterns. A `*` in a pattern matches any character sequence,
// including path separators.
package ignore

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// Matcher holds a compiled set of ignore patterns.
type Matcher struct {
	patterns []string
	globs    []glob.Glob
}

// New compiles the given patterns into a Matcher.
// Invalid patterns are rejected with an error naming the pattern.
func New(patterns []string) (*Matcher, error) {
	m := &Matcher{
		patterns: patterns,
		globs:    make([]glob.Glob, 0, len(patterns)),
	}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		// No separators passed to Compile: `*` crosses directory
		// boundaries, matching the documented ignore syntax.
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", p, err)
		}
		m.globs = append(m.globs, g)
	}
	return m, nil
}

// Match reports whether the relative path matches any ignore pattern.
// Paths are normalized to forward slashes before matching.
func (m *Matcher) Match(relPath string) bool {
	if m == nil || len(m.globs) == 0 {
		return false
	}
	normalized := filepath.ToSlash(relPath)
	for _, g := range m.globs {
		if g.Match(normalized) {
			return true
		}
	}
	return false
}

// Patterns returns the original pattern list.
func (m *Matcher) Patterns() []string {
	if m == nil {
		return nil
	}
	return m.patterns
}
