package plan

import (
	"fmt"
	"path/filepath"
	"strings"
)

// maxSuffixProbes bounds the uniqueness search. A directory cannot
// plausibly hold more colliding names than this.
const maxSuffixProbes = 10000

// ExistsFunc probes whether a path already exists on disk.
type ExistsFunc func(path string) bool

// ResolveCollisions makes every non-skip destination unique, first
// within the plan itself, then against the real filesystem. Both passes
// are idempotent: resolving an already-resolved action list changes
// nothing. Returns the number of destinations adjusted.
func ResolveCollisions(actions []Action, exists ExistsFunc) int {
	resolved := 0
	resolved += resolveInPlan(actions)
	resolved += resolveAgainstDisk(actions, exists)
	return resolved
}

// resolveInPlan groups non-skip actions by destination and suffixes
// every member after the first. All members of a colliding group are
// flagged, including the one that kept its destination.
func resolveInPlan(actions []Action) int {
	groups := make(map[string][]int)
	order := make([]string, 0)
	for i, a := range actions {
		if a.Type == ActionSkip {
			continue
		}
		if _, seen := groups[a.To]; !seen {
			order = append(order, a.To)
		}
		groups[a.To] = append(groups[a.To], i)
	}

	taken := make(map[string]struct{}, len(groups))
	for dest := range groups {
		taken[dest] = struct{}{}
	}

	resolved := 0
	for _, dest := range order {
		members := groups[dest]
		if len(members) < 2 {
			continue
		}
		for n, idx := range members {
			actions[idx].HasCollision = true
			if n == 0 {
				continue
			}
			unique := nextFree(dest, n+1, func(p string) bool {
				_, ok := taken[p]
				return ok
			})
			taken[unique] = struct{}{}
			retarget(&actions[idx], unique)
			resolved++
		}
	}
	return resolved
}

// resolveAgainstDisk probes every surviving destination against the
// filesystem and suffixes any that would land on an existing file.
func resolveAgainstDisk(actions []Action, exists ExistsFunc) int {
	taken := make(map[string]struct{})
	for _, a := range actions {
		if a.Type != ActionSkip {
			taken[a.To] = struct{}{}
		}
	}

	resolved := 0
	for i := range actions {
		a := &actions[i]
		if a.Type == ActionSkip || !exists(a.To) {
			continue
		}
		delete(taken, a.To)
		unique := nextFree(a.To, 2, func(p string) bool {
			if exists(p) {
				return true
			}
			_, ok := taken[p]
			return ok
		})
		taken[unique] = struct{}{}
		a.HasCollision = true
		retarget(a, unique)
		resolved++
	}
	return resolved
}

// UniqueDestination returns path if it is free, otherwise the first
// " (n)"-suffixed variant that is. The executor uses this to resolve
// collisions that appear between plan time and execution time.
func UniqueDestination(path string, exists ExistsFunc) string {
	if !exists(path) {
		return path
	}
	return nextFree(path, 2, func(p string) bool { return exists(p) })
}

// retarget points an action at a new destination, keeping RelativeTo
// consistent.
func retarget(a *Action, dest string) {
	a.To = dest
	if a.RelativeTo != "" {
		a.RelativeTo = filepath.Join(filepath.Dir(a.RelativeTo), filepath.Base(dest))
	}
}

// nextFree finds the first suffixed variant of path, starting at n,
// that is not taken. The search is bounded and terminates.
func nextFree(path string, n int, taken func(string) bool) string {
	base := unsuffixed(path)
	for ; n < maxSuffixProbes; n++ {
		candidate := withSuffix(base, n)
		if !taken(candidate) {
			return candidate
		}
	}
	// Unreachable in practice; fall back to the highest probe.
	return withSuffix(base, maxSuffixProbes)
}

// withSuffix inserts " (n)" before the extension.
func withSuffix(path string, n int) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	return fmt.Sprintf("%s (%d)%s", stem, n, ext)
}

// unsuffixed strips a previously applied numeric suffix so that
// re-resolution does not stack " (2) (3)" variants.
func unsuffixed(path string) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	if i := strings.LastIndex(stem, " ("); i >= 0 && strings.HasSuffix(stem, ")") {
		digits := stem[i+2 : len(stem)-1]
		if len(digits) > 0 && strings.Trim(digits, "0123456789") == "" {
			return stem[:i] + ext
		}
	}
	return path
}
