// Package config provides configuration management for tidy.
package config

// Default configuration values.
const (
	// DefaultScanPath is the path scanned when none is specified.
	DefaultScanPath = "."

	// DefaultDestination is the destination root for organized files.
	DefaultDestination = "~/Organized"

	// DefaultNamingStyle controls destination filename transformation.
	DefaultNamingStyle = "keep"

	// DefaultAutoApproveThreshold pre-approves actions at or above
	// this confidence.
	DefaultAutoApproveThreshold = 0.9

	// DefaultReviewThreshold routes entries below this confidence to
	// the Inbox folder.
	DefaultReviewThreshold = 0.5

	// DefaultMaxDepth bounds the scan walk.
	DefaultMaxDepth = 12

	// DefaultRetentionDays is how long persisted artifacts are kept.
	DefaultRetentionDays = 30

	// DefaultClassifierProvider selects the classification backend.
	DefaultClassifierProvider = "ollama"

	// DefaultClassifierModel is the model requested from the provider.
	DefaultClassifierModel = "llama3.2"

	// DefaultClassifierConcurrency bounds parallel classifier calls.
	DefaultClassifierConcurrency = 4
)

// DefaultIgnore contains patterns excluded from scanning by default.
var DefaultIgnore = []string{
	"*.tmp",
	"*.part",
	"*.crdownload",
	"*.download",
}
