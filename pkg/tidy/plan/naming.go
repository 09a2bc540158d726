package plan

import (
	"path/filepath"
	"regexp"
	"strings"
)

// NamingStyle selects how destination filenames are transformed.
// The extension is always preserved verbatim.
type NamingStyle string

// Supported naming styles.
const (
	// NamingKeep leaves the name as-is apart from special-character
	// stripping.
	NamingKeep NamingStyle = "keep"

	// NamingSnake lowercases and joins words with underscores.
	NamingSnake NamingStyle = "snake"

	// NamingKebab lowercases and joins words with hyphens.
	NamingKebab NamingStyle = "kebab"

	// NamingTitle capitalizes each word, joined with spaces.
	NamingTitle NamingStyle = "title"
)

// unsafeChars matches characters stripped from destination filenames.
var unsafeChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// TransformName applies the naming style to a filename, preserving the
// extension verbatim. An empty transformation result falls back to the
// original name.
func TransformName(name string, style NamingStyle) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	transformed := transformStem(stem, style)
	if transformed == "" {
		return name
	}
	return transformed + ext
}

func transformStem(stem string, style NamingStyle) string {
	stem = strings.TrimSpace(unsafeChars.ReplaceAllString(stem, ""))

	switch style {
	case NamingSnake:
		return strings.ToLower(strings.Join(splitWords(stem), "_"))
	case NamingKebab:
		return strings.ToLower(strings.Join(splitWords(stem), "-"))
	case NamingTitle:
		words := splitWords(stem)
		for i, w := range words {
			if len(w) > 0 {
				words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
			}
		}
		return strings.Join(words, " ")
	default:
		return stem
	}
}

// splitWords breaks a filename stem on spaces, underscores, hyphens and
// dots.
func splitWords(stem string) []string {
	return strings.FieldsFunc(stem, func(r rune) bool {
		switch r {
		case ' ', '_', '-', '.':
			return true
		}
		return false
	})
}
