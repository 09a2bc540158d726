package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func never(string) bool { return false }

func existsSet(paths ...string) ExistsFunc {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return func(p string) bool {
		_, ok := set[p]
		return ok
	}
}

func moveAction(from, to string) Action {
	return Action{From: from, To: to, RelativeTo: to}
}

func TestResolveCollisions_InPlanGroup(t *testing.T) {
	t.Parallel()
	actions := []Action{
		moveAction("/src/a/photo.jpg", "/dst/Images/photo.jpg"),
		moveAction("/src/b/photo.jpg", "/dst/Images/photo.jpg"),
		moveAction("/src/c/photo.jpg", "/dst/Images/photo.jpg"),
	}

	resolved := ResolveCollisions(actions, never)
	assert.Equal(t, 2, resolved)

	// First member keeps its destination, the rest get numeric suffixes.
	assert.Equal(t, "/dst/Images/photo.jpg", actions[0].To)
	assert.Equal(t, "/dst/Images/photo (2).jpg", actions[1].To)
	assert.Equal(t, "/dst/Images/photo (3).jpg", actions[2].To)

	// Every member of a colliding group is flagged, including the winner.
	for i := range actions {
		assert.True(t, actions[i].HasCollision, "action %d", i)
	}
}

func TestResolveCollisions_DestinationsPairwiseDistinct(t *testing.T) {
	t.Parallel()
	actions := []Action{
		moveAction("/s/1/r.pdf", "/d/Documents/r.pdf"),
		moveAction("/s/2/r.pdf", "/d/Documents/r.pdf"),
		// A third action already occupies the first suffix slot.
		moveAction("/s/3/r2.pdf", "/d/Documents/r (2).pdf"),
	}

	ResolveCollisions(actions, never)

	seen := make(map[string]int)
	for _, a := range actions {
		seen[a.To]++
	}
	for dest, n := range seen {
		assert.Equal(t, 1, n, "destination %s assigned %d times", dest, n)
	}
}

func TestResolveCollisions_AgainstDisk(t *testing.T) {
	t.Parallel()
	actions := []Action{
		moveAction("/src/notes.txt", "/dst/Documents/notes.txt"),
	}
	exists := existsSet("/dst/Documents/notes.txt", "/dst/Documents/notes (2).txt")

	resolved := ResolveCollisions(actions, exists)
	require.Equal(t, 1, resolved)
	assert.Equal(t, "/dst/Documents/notes (3).txt", actions[0].To)
	assert.True(t, actions[0].HasCollision)
}

func TestResolveCollisions_Idempotent(t *testing.T) {
	t.Parallel()
	actions := []Action{
		moveAction("/src/a/photo.jpg", "/dst/Images/photo.jpg"),
		moveAction("/src/b/photo.jpg", "/dst/Images/photo.jpg"),
	}

	ResolveCollisions(actions, never)
	first := []string{actions[0].To, actions[1].To}

	// Re-resolving must not stack further suffixes.
	resolved := ResolveCollisions(actions, never)
	assert.Zero(t, resolved)
	assert.Equal(t, first, []string{actions[0].To, actions[1].To})
}

func TestResolveCollisions_SkipsIgnored(t *testing.T) {
	t.Parallel()
	actions := []Action{
		{From: "/src/a.txt", To: "/src/a.txt", Type: ActionSkip},
		moveAction("/src/b/a.txt", "/src/a.txt"),
	}

	resolved := ResolveCollisions(actions, never)
	assert.Zero(t, resolved)
	assert.False(t, actions[0].HasCollision)
	assert.False(t, actions[1].HasCollision)
}

func TestUniqueDestination(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "/d/a.txt", UniqueDestination("/d/a.txt", never))

	exists := existsSet("/d/a.txt")
	assert.Equal(t, "/d/a (2).txt", UniqueDestination("/d/a.txt", exists))

	// A suffixed input does not stack a second suffix.
	exists = existsSet("/d/a (2).txt")
	assert.Equal(t, "/d/a (3).txt", UniqueDestination("/d/a (2).txt", exists))
}

func TestUnsuffixed(t *testing.T) {
	t.Parallel()
	tests := []struct{ in, want string }{
		{"/d/a (2).txt", "/d/a.txt"},
		{"/d/a (10).txt", "/d/a.txt"},
		{"/d/a.txt", "/d/a.txt"},
		{"/d/a (final).txt", "/d/a (final).txt"},
		{"/d/a ().txt", "/d/a ().txt"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, unsuffixed(tt.in), "input %s", tt.in)
	}
}
