package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/tidy/pkg/tidy/artifact"
	"github.com/jamesainslie/tidy/pkg/tidy/config"
	"github.com/jamesainslie/tidy/pkg/tidy/logging"
)

var rootCmd = &cobra.Command{
	Use:   "tidy",
	Short: "Safely reorganize messy directories",
	Long: `Tidy scans a messy directory (like Downloads), classifies what it
finds, and proposes a reviewable plan of moves. Nothing touches the
filesystem until a plan is applied, every applied plan can be undone,
and software projects inside the tree are never split apart.

Typical workflow:
  tidy scan ~/Downloads          # Build a classified manifest
  tidy plan --dest ~/Organized   # Compute a plan from the last manifest
  tidy apply --dry-run           # Preview what would happen
  tidy apply                     # Execute approved actions
  tidy undo                      # Put everything back`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// loadedConfig is populated by the pre-run hook and threaded into the
// pipeline builders explicitly.
var loadedConfig *config.Config

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("output", "o", "pretty", "output format (pretty, json)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")

	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

// initConfig loads the config file and initializes logging.
func initConfig() {
	cfg, err := config.Load()
	if err != nil {
		printError("failed to load config: %v", err)
		cfg = &config.Config{}
	}
	loadedConfig = cfg

	level := cfg.Logging.Level
	if level == "" {
		level = "info"
	}
	if viper.GetBool("verbose") {
		level = "debug"
	}
	if err := logging.Init(logging.Config{
		Level:      level,
		Path:       cfg.Logging.Path,
		Components: cfg.Logging.Components,
	}); err != nil {
		printError("failed to initialize logging: %v", err)
	}
}

// openStore returns the artifact store from configuration.
func openStore() (*artifact.Store, error) {
	dir := loadedConfig.Artifacts.Dir
	if dir == "" {
		dir = artifact.DefaultDir()
	}
	store, err := artifact.NewStore(dir)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureDir(); err != nil {
		return nil, fmt.Errorf("creating artifact directory: %w", err)
	}
	return store, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// printInfo prints a message unless quiet mode is enabled.
func printInfo(format string, args ...interface{}) {
	if !viper.GetBool("quiet") {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
