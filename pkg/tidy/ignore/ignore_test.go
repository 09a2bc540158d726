package ignore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	t.Parallel()

	m, err := New([]string{"*.tmp", "Downloads/*", "*.part"})
	require.NoError(t, err)

	tests := []struct {
		path string
		want bool
	}{
		{"file.tmp", true},
		{"nested/deep/file.tmp", true},
		{"Downloads/anything.pdf", true},
		{"Downloads/sub/deeper.pdf", true},
		{"movie.mp4.part", true},
		{"file.txt", false},
		{"tmp", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, m.Match(tt.path), "path %s", tt.path)
	}
}

func TestMatch_EmptyAndNil(t *testing.T) {
	t.Parallel()

	m, err := New(nil)
	require.NoError(t, err)
	assert.False(t, m.Match("anything"))

	var nilMatcher *Matcher
	assert.False(t, nilMatcher.Match("anything"))
}

func TestNew_SkipsBlankPatterns(t *testing.T) {
	t.Parallel()
	m, err := New([]string{"", "  ", "*.log"})
	require.NoError(t, err)
	assert.True(t, m.Match("a.log"))
}

func TestNew_InvalidPattern(t *testing.T) {
	t.Parallel()
	_, err := New([]string{"["})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid ignore pattern")
}

func TestPatterns(t *testing.T) {
	t.Parallel()
	in := []string{"*.tmp", "*.part"}
	m, err := New(in)
	require.NoError(t, err)
	assert.Equal(t, in, m.Patterns())
}
