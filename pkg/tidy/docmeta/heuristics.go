package docmeta

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jamesainslie/tidy/pkg/tidy/types"
)

// FilenameExtractor infers metadata from the filename alone. It is the
// fallback used when no richer extractor is configured or when a richer
// extractor yields nothing useful.
type FilenameExtractor struct{}

// NewFilenameExtractor returns a ready FilenameExtractor.
func NewFilenameExtractor() *FilenameExtractor {
	return &FilenameExtractor{}
}

// datePrefix matches leading dates like "2024-06-15", "20240615" or
// "2024_06_15" at the start of a filename.
var datePrefix = regexp.MustCompile(`^(\d{4})[-_.]?(\d{2})[-_.]?(\d{2})[-_.\s]*`)

// versionSuffix matches trailing noise like "(1)", "[final]", "v2", "copy".
var versionSuffix = regexp.MustCompile(`(?i)[\s_-]*(\(\d+\)|\[[^\]]*\]|v\d+|final|draft|copy)\s*$`)

// subjectKeywords maps filename keywords to an inferred subject folder.
var subjectKeywords = map[string]string{
	"invoice":   "Invoices",
	"receipt":   "Receipts",
	"statement": "Statements",
	"contract":  "Contracts",
	"agreement": "Contracts",
	"resume":    "Career",
	"cv":        "Career",
	"tax":       "Taxes",
	"report":    "Reports",
	"manual":    "Manuals",
	"guide":     "Manuals",
	"ticket":    "Travel",
	"boarding":  "Travel",
	"itinerary": "Travel",
	"insurance": "Insurance",
	"policy":    "Insurance",
	"payslip":   "Payroll",
	"salary":    "Payroll",
	"lecture":   "Study",
	"thesis":    "Study",
	"paper":     "Study",
}

// Extract derives a title and subject from the filename. It never fails.
func (e *FilenameExtractor) Extract(_ context.Context, path string) (types.DocumentMetadata, error) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	stem = datePrefix.ReplaceAllString(stem, "")
	for {
		trimmed := versionSuffix.ReplaceAllString(stem, "")
		if trimmed == stem {
			break
		}
		stem = trimmed
	}

	title := cleanTitle(stem)
	if title == "" {
		return types.DocumentMetadata{}, nil
	}

	return types.DocumentMetadata{
		Title:   title,
		Subject: inferSubject(title),
	}, nil
}

// cleanTitle turns separator-heavy filename stems into readable titles.
func cleanTitle(stem string) string {
	replaced := strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(stem)
	fields := strings.Fields(replaced)
	if len(fields) == 0 {
		return ""
	}
	return strings.Join(fields, " ")
}

// inferSubject matches title words against the keyword table.
func inferSubject(title string) string {
	for _, word := range strings.Fields(strings.ToLower(title)) {
		if subject, ok := subjectKeywords[word]; ok {
			return subject
		}
	}
	return ""
}
