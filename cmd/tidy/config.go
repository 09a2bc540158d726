package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jamesainslie/tidy/pkg/tidy/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigShow prints the effective configuration as YAML.
func runConfigShow(_ *cobra.Command, _ []string) error {
	data, err := yaml.Marshal(loadedConfig)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Print(string(data))
	return nil
}

// runConfigInit writes a default config file if none exists.
func runConfigInit(_ *cobra.Command, _ []string) error {
	path, err := config.WriteDefault()
	if err != nil {
		return err
	}
	if path == "" {
		dir, dirErr := config.ConfigDir()
		if dirErr != nil {
			return dirErr
		}
		printInfo("config already exists at %s", filepath.Join(dir, "config.yaml"))
		return nil
	}
	printInfo("wrote default config to %s", path)
	return nil
}
