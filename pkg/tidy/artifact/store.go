// Package artifact persists pipeline stage outputs as JSON files, one
// file per stage per run. Artifacts carry their own ids and the id of
// the artifact they were derived from, so runs can be correlated on
// disk without a database.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
)

// Stage names the pipeline stage an artifact came from.
type Stage string

// Pipeline stages.
const (
	StageManifest Stage = "manifest"
	StagePlan     Stage = "plan"
	StageRollback Stage = "rollback"
	StageReport   Stage = "report"
)

// Store manages the artifact directory.
type Store struct {
	dir string
	mu  sync.Mutex
}

// DefaultDir returns the default artifact directory under the XDG
// state home.
func DefaultDir() string {
	return filepath.Join(xdg.StateHome, "tidy", "artifacts")
}

// NewStore creates a Store rooted at dir. The directory is not created
// until EnsureDir is called.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("artifact directory cannot be empty")
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's directory.
func (s *Store) Dir() string {
	return s.dir
}

// EnsureDir creates the artifact directory if it does not exist.
func (s *Store) EnsureDir() error {
	return os.MkdirAll(s.dir, 0o755)
}

// Save persists one artifact and returns the file path. Writes are
// atomic: a temp file is renamed into place.
func (s *Store) Save(stage Stage, id string, v any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating artifact directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling %s artifact: %w", stage, err)
	}

	path := filepath.Join(s.dir, filename(stage, id))
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp file: %w", err)
	}
	return path, nil
}

// Load reads one artifact file into v.
func (s *Store) Load(name string, v any) error {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.dir, name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading artifact: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshaling artifact %s: %w", name, err)
	}
	return nil
}

// Info describes one stored artifact file.
type Info struct {
	Name     string    `json:"name"`
	Stage    Stage     `json:"stage"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// List returns stored artifacts for a stage, newest first. An empty
// stage lists everything. If limit is 0 or negative, all entries are
// returned.
func (s *Store) List(stage Stage, limit int) ([]Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, fmt.Errorf("reading artifact directory: %w", err)
	}

	infos := make([]Info, 0, len(files))
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		fileStage := stageOf(f.Name())
		if stage != "" && fileStage != stage {
			continue
		}
		fi, err := f.Info()
		if err != nil {
			continue
		}
		infos = append(infos, Info{
			Name:     f.Name(),
			Stage:    fileStage,
			Size:     fi.Size(),
			Modified: fi.ModTime(),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Modified.After(infos[j].Modified)
	})
	if limit > 0 && len(infos) > limit {
		infos = infos[:limit]
	}
	return infos, nil
}

// Find locates the artifact file for a stage whose name carries the
// given id (full or shortened).
func (s *Store) Find(stage Stage, id string) (string, error) {
	if id == "" {
		return "", errors.New("artifact id cannot be empty")
	}
	infos, err := s.List(stage, 0)
	if err != nil {
		return "", err
	}
	short := shortID(id)
	for _, info := range infos {
		if strings.Contains(info.Name, short) {
			return filepath.Join(s.dir, info.Name), nil
		}
	}
	return "", fmt.Errorf("artifact not found: %s %s", stage, id)
}

// Latest returns the newest artifact file for a stage.
func (s *Store) Latest(stage Stage) (string, error) {
	infos, err := s.List(stage, 1)
	if err != nil {
		return "", err
	}
	if len(infos) == 0 {
		return "", fmt.Errorf("no %s artifacts found", stage)
	}
	return filepath.Join(s.dir, infos[0].Name), nil
}

// Cleanup removes artifacts older than retentionDays.
func (s *Store) Cleanup(retentionDays int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	files, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading artifact directory: %w", err)
	}

	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		fi, err := f.Info()
		if err != nil {
			continue
		}
		if fi.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(s.dir, f.Name()))
		}
	}
	return nil
}

// filename builds a name like "plan-2024-06-15T10-30-00-1a2b3c4d.json".
func filename(stage Stage, id string) string {
	ts := time.Now().UTC().Format("2006-01-02T15-04-05")
	return fmt.Sprintf("%s-%s-%s.json", stage, ts, shortID(id))
}

// stageOf extracts the stage prefix from an artifact filename.
func stageOf(name string) Stage {
	if i := strings.Index(name, "-"); i > 0 {
		return Stage(name[:i])
	}
	return ""
}

// shortID keeps the first 8 characters of an id for filenames.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
