package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"info", LevelInfo, false},
		{"INFO", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
		{"", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			require.ErrorIs(t, err, ErrInvalidLevel, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "debug", LevelDebug.String())
	assert.Equal(t, "error", LevelError.String())
	assert.Equal(t, "unknown", Level(99).String())
}

func TestInit_RejectsInvalidLevels(t *testing.T) {
	assert.Error(t, Init(Config{Level: "loud"}))
	assert.Error(t, Init(Config{Level: "info", Components: map[string]string{"manifest": "loud"}}))
}

func TestInit_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tidy.log")
	require.NoError(t, Init(Config{Level: "debug", Path: path}))
	defer func() { _ = Close() }()

	Get("logtest").Info("hello", "key", "value")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.Contains(t, string(data), "logtest")
}

func TestInit_ReconfiguresLoggersCapturedBeforeInit(t *testing.T) {
	// Mirrors the package-level `var logger = logging.Get(...)` pattern
	// used by the pipeline stages: the Logger exists before Init runs.
	early := Get("early-capture")

	path := filepath.Join(t.TempDir(), "tidy.log")
	require.NoError(t, Init(Config{Level: "info", Path: path}))
	defer func() { _ = Close() }()

	early.Info("captured before init")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "captured before init")
	assert.Contains(t, string(data), "early-capture")
}

func TestGet_ReturnsSameLoggerForComponent(t *testing.T) {
	a := Get("same-component")
	b := Get("same-component")
	assert.Same(t, a, b)
}

func TestWith(t *testing.T) {
	base := Get("with-test")
	derived := base.With("run", "42")
	require.NotNil(t, derived)
	assert.NotSame(t, base, derived)
}
