package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ClassifierConfig configures the external classification provider.
type ClassifierConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Provider    string        `mapstructure:"provider"`
	Model       string        `mapstructure:"model"`
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxRetries  int           `mapstructure:"max_retries"`
	Concurrency int           `mapstructure:"concurrency"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Components map[string]string `mapstructure:"components"`
}

// ArtifactsConfig configures the on-disk artifact store.
type ArtifactsConfig struct {
	Dir           string `mapstructure:"dir"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// Config represents the application configuration. It is loaded once
// and threaded by value into the pipeline builders; nothing in the
// core reads ambient global state.
type Config struct {
	ScanPath             string           `mapstructure:"scan_path"`
	Destination          string           `mapstructure:"destination"`
	Ignore               []string         `mapstructure:"ignore"`
	MaxDepth             int              `mapstructure:"max_depth"`
	NamingStyle          string           `mapstructure:"naming_style"`
	AutoApproveThreshold float64          `mapstructure:"auto_approve_threshold"`
	ReviewThreshold      float64          `mapstructure:"review_threshold"`
	Classifier           ClassifierConfig `mapstructure:"classifier"`
	Artifacts            ArtifactsConfig  `mapstructure:"artifacts"`
	Logging              LoggingConfig    `mapstructure:"logging"`
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/tidy/config.yaml
//   - $HOME/.config/tidy/config.yaml
//
// Environment variables are prefixed with TIDY_ (e.g. TIDY_DESTINATION).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "tidy"))
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", "tidy"))

	v.SetEnvPrefix("TIDY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is acceptable; we use defaults.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.ScanPath, err = ExpandPath(cfg.ScanPath)
	if err != nil {
		return nil, err
	}
	cfg.Destination, err = ExpandPath(cfg.Destination)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SetDefaults registers every default value on a viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("scan_path", DefaultScanPath)
	v.SetDefault("destination", DefaultDestination)
	v.SetDefault("ignore", DefaultIgnore)
	v.SetDefault("max_depth", DefaultMaxDepth)
	v.SetDefault("naming_style", DefaultNamingStyle)
	v.SetDefault("auto_approve_threshold", DefaultAutoApproveThreshold)
	v.SetDefault("review_threshold", DefaultReviewThreshold)

	v.SetDefault("classifier.enabled", false)
	v.SetDefault("classifier.provider", DefaultClassifierProvider)
	v.SetDefault("classifier.model", DefaultClassifierModel)
	v.SetDefault("classifier.timeout", "30s")
	v.SetDefault("classifier.max_retries", 2)
	v.SetDefault("classifier.concurrency", DefaultClassifierConcurrency)

	v.SetDefault("artifacts.dir", "")
	v.SetDefault("artifacts.retention_days", DefaultRetentionDays)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.components", map[string]string{
		"manifest":   "info",
		"plan":       "info",
		"executor":   "info",
		"classifier": "warn",
	})
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "tidy"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "tidy"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	if path == "~" {
		return homeDir, nil
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~/")), nil
}

// WriteDefault writes a default config file if none exists.
// Returns the path written, or empty when a config already exists.
func WriteDefault() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	path := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return "", nil
	}

	v := viper.New()
	v.SetConfigType("yaml")
	SetDefaults(v)
	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write default config: %w", err)
	}
	return path, nil
}
