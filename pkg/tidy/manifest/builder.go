package manifest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jamesainslie/tidy/pkg/tidy/classifier"
	"github.com/jamesainslie/tidy/pkg/tidy/docmeta"
	"github.com/jamesainslie/tidy/pkg/tidy/ignore"
	"github.com/jamesainslie/tidy/pkg/tidy/logging"
	"github.com/jamesainslie/tidy/pkg/tidy/project"
	"github.com/jamesainslie/tidy/pkg/tidy/types"
)

var logger = logging.Get("manifest")

// Builder walks a tree and produces a classified Manifest.
type Builder struct {
	detector  *project.Detector
	extractor docmeta.Extractor
	fallback  docmeta.Extractor
	clf       classifier.Classifier
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithMetadataExtractor installs a richer document metadata extractor.
// Filename heuristics remain the fallback when it yields nothing useful.
func WithMetadataExtractor(e docmeta.Extractor) BuilderOption {
	return func(b *Builder) { b.extractor = e }
}

// WithClassifier installs the external classifier used for ambiguous
// documents when Options.UseClassifier is set.
func WithClassifier(c classifier.Classifier) BuilderOption {
	return func(b *Builder) { b.clf = c }
}

// NewBuilder creates a Builder around the given project-root detector.
func NewBuilder(detector *project.Detector, opts ...BuilderOption) *Builder {
	b := &Builder{
		detector: detector,
		fallback: docmeta.NewFilenameExtractor(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// walker carries per-scan state through the depth-first walk.
type walker struct {
	b            *Builder
	ctx          context.Context
	root         string
	maxDepth     int
	matcher      *ignore.Matcher
	projectRoots map[string]project.Detection
	visited      map[string]struct{}
	entries      []Entry
}

// Build scans the tree under opts.Root and returns the manifest.
// The walk is read-only; unreadable directories are logged and skipped.
func (b *Builder) Build(ctx context.Context, opts Options) (*Manifest, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving scan root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root is not a directory: %s", root)
	}

	matcher, err := ignore.New(opts.Ignore)
	if err != nil {
		return nil, err
	}

	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = project.DefaultMaxDepth
	}

	// First pass: find every project root so the walk can treat their
	// subtrees as atomic units.
	roots, err := b.detector.FindProjectRoots(root, maxDepth)
	if err != nil {
		return nil, fmt.Errorf("finding project roots: %w", err)
	}
	logger.Info("project root detection complete", "root", root, "found", len(roots))

	w := &walker{
		b:            b,
		ctx:          ctx,
		root:         root,
		maxDepth:     maxDepth,
		matcher:      matcher,
		projectRoots: roots,
		visited:      make(map[string]struct{}),
	}

	// Second pass: depth-first walk emitting one entry per leaf item.
	if det, ok := roots[root]; ok {
		w.emitProjectRoot(root, det)
	} else {
		w.walk(root, 0)
	}

	if opts.UseClassifier && b.clf != nil {
		b.escalate(ctx, w.entries, opts.ClassifierConcurrency)
	}

	if parent := b.enclosingProjectRoot(root); parent != "" {
		markInsideProject(w.entries, parent)
	}

	rootPaths := make([]string, 0, len(roots))
	for p := range roots {
		rootPaths = append(rootPaths, p)
	}
	sort.Strings(rootPaths)

	m := &Manifest{
		ID:            uuid.NewString(),
		SchemaVersion: SchemaVersion,
		Root:          root,
		CreatedAt:     time.Now().UTC(),
		Options:       opts,
		Entries:       w.entries,
		Summary:       summarize(w.entries),
		ProjectRoots:  rootPaths,
	}
	logger.Info("manifest built", "id", m.ID, "entries", m.Summary.TotalItems)
	return m, nil
}

// walk descends into dir, emitting entries for its leaf items.
// Recursion is bounded by maxDepth; symlink cycles are broken by
// tracking visited real paths.
func (w *walker) walk(dir string, depth int) {
	if depth > w.maxDepth {
		logger.Warn("max depth reached, not descending", "dir", dir, "depth", depth)
		return
	}
	if err := w.ctx.Err(); err != nil {
		return
	}

	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		real = dir
	}
	if _, seen := w.visited[real]; seen {
		logger.Warn("symlink cycle detected, not descending", "dir", dir)
		return
	}
	w.visited[real] = struct{}{}

	children, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("directory unreadable, skipping subtree", "dir", dir, "error", err)
		return
	}

	for _, child := range children {
		name := child.Name()
		path := filepath.Join(dir, name)
		rel, relErr := filepath.Rel(w.root, path)
		if relErr != nil {
			rel = name
		}

		if w.matcher.Match(rel) {
			continue
		}

		// A hidden directory that is a detected project root is still
		// inventoried as an atomic unit; detection already saw it.
		if child.IsDir() {
			if det, ok := w.projectRoots[path]; ok {
				w.emitProjectRoot(path, det)
				continue
			}
		}

		// All other hidden items are suppressed before any
		// classification work. Version-control directories stay visible
		// to Detect because it reads child names itself.
		if strings.HasPrefix(name, ".") {
			continue
		}

		if child.IsDir() {
			if project.IsGeneratedDir(name) {
				w.emitGenerated(path, rel, name)
				continue
			}
			w.walk(path, depth+1)
			continue
		}
		if !child.Type().IsRegular() {
			continue
		}

		info, err := child.Info()
		if err != nil {
			logger.Warn("stat failed, skipping file", "path", path, "error", err)
			continue
		}
		stat := types.FileStat{
			Path:         path,
			RelativePath: rel,
			Name:         name,
			Extension:    strings.ToLower(filepath.Ext(name)),
			Size:         info.Size(),
			ModifiedAt:   info.ModTime(),
		}
		w.entries = append(w.entries, w.b.classifyFile(w.ctx, stat))
	}
}

// emitProjectRoot records a project root as a single atomic entry.
func (w *walker) emitProjectRoot(path string, det project.Detection) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	info, statErr := os.Stat(path)
	var modified time.Time
	if statErr == nil {
		modified = info.ModTime()
	}

	signals := []string{fmt.Sprintf("project root (%s)", det.ProjectType)}
	for _, s := range det.Signals {
		signals = append(signals, "marker: "+s)
	}

	w.entries = append(w.entries, Entry{
		Path:                path,
		RelativePath:        rel,
		Name:                filepath.Base(path),
		ModifiedAt:          modified,
		Kind:                types.KindProjectRoot,
		Confidence:          det.Confidence,
		Signals:             signals,
		RecommendedHandling: types.HandlingKeep,
	})
}

// emitGenerated records a generated/build-output folder as one entry.
func (w *walker) emitGenerated(path, rel, name string) {
	info, statErr := os.Stat(path)
	var modified time.Time
	if statErr == nil {
		modified = info.ModTime()
	}
	w.entries = append(w.entries, Entry{
		Path:                path,
		RelativePath:        rel,
		Name:                name,
		ModifiedAt:          modified,
		Kind:                types.KindGenerated,
		Confidence:          1.0,
		Signals:             []string{"generated folder name: " + name},
		RecommendedHandling: types.HandlingKeep,
	})
}

// enclosingProjectRoot walks up from root looking for a project root
// that contains the scan root itself. Scanning a subtree of a project
// must never split that project apart.
func (b *Builder) enclosingProjectRoot(root string) string {
	dir := filepath.Dir(root)
	for {
		if det := b.detector.Detect(dir); det.IsProjectRoot {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// markInsideProject pins every entry inside a containing project root.
// These facts are never second-guessed by later stages.
func markInsideProject(entries []Entry, parent string) {
	for i := range entries {
		entries[i].InsideProjectRoot = true
		entries[i].ParentProjectRoot = parent
		entries[i].RecommendedHandling = types.HandlingKeep
		entries[i].Confidence = 1.0
		entries[i].Signals = append(entries[i].Signals, "inside project root: "+parent)
	}
}
