package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.ScanPath)
	assert.Equal(t, filepath.Join(home, "Organized"), cfg.Destination)
	assert.Equal(t, DefaultIgnore, cfg.Ignore)
	assert.Equal(t, DefaultMaxDepth, cfg.MaxDepth)
	assert.Equal(t, "keep", cfg.NamingStyle)
	assert.InDelta(t, 0.9, cfg.AutoApproveThreshold, 1e-9)
	assert.InDelta(t, 0.5, cfg.ReviewThreshold, 1e-9)

	assert.False(t, cfg.Classifier.Enabled)
	assert.Equal(t, "ollama", cfg.Classifier.Provider)
	assert.Equal(t, "llama3.2", cfg.Classifier.Model)
	assert.Equal(t, 4, cfg.Classifier.Concurrency)

	assert.Equal(t, DefaultRetentionDays, cfg.Artifacts.RetentionDays)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FromFile(t *testing.T) {
	home := t.TempDir()
	configDir := filepath.Join(home, ".config", "tidy")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))

	content := `
destination: ~/Sorted
naming_style: snake
max_depth: 6
classifier:
  enabled: true
  provider: openai
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "Sorted"), cfg.Destination)
	assert.Equal(t, "snake", cfg.NamingStyle)
	assert.Equal(t, 6, cfg.MaxDepth)
	assert.True(t, cfg.Classifier.Enabled)
	assert.Equal(t, "openai", cfg.Classifier.Provider)
	// Untouched keys keep their defaults.
	assert.Equal(t, ".", cfg.ScanPath)
}

func TestLoad_MalformedFile(t *testing.T) {
	home := t.TempDir()
	configDir := filepath.Join(home, ".config", "tidy")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))

	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte("{{not yaml"), 0o644))

	_, err := Load()
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct{ in, want string }{
		{"~", home},
		{"~/Organized", filepath.Join(home, "Organized")},
		{"/absolute/path", "/absolute/path"},
		{"relative", "relative"},
		{"", ""},
	}
	for _, tt := range tests {
		got, err := ExpandPath(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestWriteDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))

	path, err := WriteDefault()
	require.NoError(t, err)
	require.NotEmpty(t, path)
	assert.FileExists(t, path)

	// A second call must not clobber the existing file.
	again, err := WriteDefault()
	require.NoError(t, err)
	assert.Empty(t, again)
}
