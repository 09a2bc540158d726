// Package project detects software project roots so the rest of the
// pipeline can treat them as atomic, unsplittable units. Detection reads
// only the immediate children of a directory and is cheap enough to run
// at every level of a scan.
package project

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"

	"github.com/jamesainslie/tidy/pkg/tidy/logging"
	"github.com/jamesainslie/tidy/pkg/tidy/types"
)

var logger = logging.Get("project")

// Detection is the result of probing one directory for project markers.
type Detection struct {
	// IsProjectRoot reports whether at least one marker was found.
	IsProjectRoot bool `json:"is_project_root"`

	// Signals lists the matched marker filenames, sorted.
	Signals []string `json:"signals,omitempty"`

	// ProjectType is the inferred ecosystem, TypeMixed when only
	// version-control or lockfile signals were present, TypeNone when
	// the directory is not a project root.
	ProjectType Type `json:"project_type,omitempty"`

	// Confidence is the detection confidence in [0, 1].
	Confidence float64 `json:"confidence"`
}

// DefaultMaxDepth bounds how deep FindProjectRoots descends.
const DefaultMaxDepth = 12

// Detector probes directories for project-root markers.
type Detector struct{}

// NewDetector returns a ready Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect decides whether dir is the root of a software project by
// inspecting its immediate child names. Unreadable directories are
// reported as not-a-root, never as an error.
func (d *Detector) Detect(dir string) Detection {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Debug("directory unreadable, treating as non-root", "dir", dir, "error", err)
		return Detection{}
	}

	var (
		signals    []string
		strong     bool
		typesFound = map[Type]struct{}{}
	)

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			if IsVCSDir(name) {
				signals = append(signals, name)
				strong = true
			}
			continue
		}
		if t, ok := primaryManifests[name]; ok {
			signals = append(signals, name)
			typesFound[t] = struct{}{}
			strong = true
			continue
		}
		if _, ok := secondaryMarkers[name]; ok {
			signals = append(signals, name)
			continue
		}
		if strings.HasSuffix(name, ".csproj") || strings.HasSuffix(name, ".sln") {
			signals = append(signals, name)
			typesFound[TypeDotnet] = struct{}{}
			strong = true
		}
	}

	if len(signals) == 0 {
		return Detection{}
	}

	sort.Strings(signals)

	projectType := TypeMixed
	for _, t := range typePriority {
		if _, ok := typesFound[t]; ok {
			projectType = t
			break
		}
	}

	return Detection{
		IsProjectRoot: true,
		Signals:       signals,
		ProjectType:   projectType,
		Confidence:    score(len(signals), strong, projectType != TypeMixed),
	}
}

// score computes detection confidence: a base that grows with signal
// count, a bonus for strong signals (version control, primary manifest),
// and a bonus for a definite ecosystem.
func score(signalCount int, strong, definiteType bool) float64 {
	c := 0.5 + 0.1*float64(signalCount)
	if c > 1.0 {
		c = 1.0
	}
	if strong {
		c += 0.2
	}
	if definiteType {
		c += 0.1
	}
	if c > 1.0 {
		c = 1.0
	}
	return types.RoundConfidence(c)
}

// FindProjectRoots walks the tree under root and returns every detected
// project root keyed by absolute path. The walk stops descending the
// moment a directory is itself a project root, so children of detected
// roots are never visited. Generated folders are never descended into.
// maxDepth <= 0 uses DefaultMaxDepth.
func (d *Detector) FindProjectRoots(root string, maxDepth int) (map[string]Detection, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var (
		mu    sync.Mutex
		roots = make(map[string]Detection)
	)

	conf := fastwalk.Config{
		Follow: false, // symlinked trees are not project subtrees of this scan
	}

	walkErr := fastwalk.Walk(&conf, absRoot, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			logger.Debug("skipping unreadable path", "path", path, "error", err)
			if entry != nil && entry.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		if depthOf(absRoot, path) > maxDepth {
			return fastwalk.SkipDir
		}
		if path != absRoot && IsGeneratedDir(entry.Name()) {
			return fastwalk.SkipDir
		}

		det := d.Detect(path)
		if det.IsProjectRoot {
			mu.Lock()
			roots[path] = det
			mu.Unlock()
			return fastwalk.SkipDir
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return roots, nil
}

// depthOf returns the number of path separators between root and path.
func depthOf(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
