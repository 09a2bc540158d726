package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/tidy/pkg/tidy/artifact"
	"github.com/jamesainslie/tidy/pkg/tidy/manifest"
	"github.com/jamesainslie/tidy/pkg/tidy/output"
	"github.com/jamesainslie/tidy/pkg/tidy/plan"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a reviewable plan from a manifest",
	Long: `Plan computes a destination for every movable manifest entry,
validates each move against project boundaries, resolves destination
collisions, and persists both the plan and its rollback mapping.

By default the most recent manifest is used.`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().String("manifest", "", "manifest id or file (default: latest)")
	planCmd.Flags().String("dest", "", "destination root (default: config destination)")
	planCmd.Flags().String("naming", "", "naming style: keep, snake, kebab, title")
	planCmd.Flags().Float64("auto-approve", 0, "auto-approve threshold (0=config default)")
	planCmd.Flags().Float64("review", 0, "review threshold (0=config default)")
	rootCmd.AddCommand(planCmd)
}

// runPlan builds and persists a plan plus its rollback mapping.
func runPlan(cmd *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	m, err := loadManifest(cmd, store)
	if err != nil {
		return err
	}

	dest, _ := cmd.Flags().GetString("dest")
	if dest == "" {
		dest = loadedConfig.Destination
	}
	if dest == "" {
		return fmt.Errorf("no destination root configured; pass --dest")
	}

	prefs := plan.Preferences{
		NamingStyle:          plan.NamingStyle(loadedConfig.NamingStyle),
		AutoApproveThreshold: loadedConfig.AutoApproveThreshold,
		ReviewThreshold:      loadedConfig.ReviewThreshold,
	}
	if naming, _ := cmd.Flags().GetString("naming"); naming != "" {
		prefs.NamingStyle = plan.NamingStyle(naming)
	}
	if v, _ := cmd.Flags().GetFloat64("auto-approve"); v > 0 {
		prefs.AutoApproveThreshold = v
	}
	if v, _ := cmd.Flags().GetFloat64("review"); v > 0 {
		prefs.ReviewThreshold = v
	}

	p, rollback, err := plan.NewBuilder().Build(m, dest, prefs)
	if err != nil {
		return fmt.Errorf("plan generation failed: %w", err)
	}

	planPath, err := store.Save(artifact.StagePlan, p.ID, p)
	if err != nil {
		return fmt.Errorf("persisting plan: %w", err)
	}
	if _, err := store.Save(artifact.StageRollback, rollback.ID, rollback); err != nil {
		return fmt.Errorf("persisting rollback: %w", err)
	}

	formatter, err := output.Get(viper.GetString("output"))
	if err != nil {
		return err
	}
	if err := formatter.FormatPlan(os.Stdout, p); err != nil {
		return err
	}
	printInfo("plan saved to %s", planPath)

	if !p.Safety.Passed {
		return fmt.Errorf("plan failed safety checks and must not be executed")
	}
	return nil
}

// loadManifest resolves the --manifest flag to a manifest artifact,
// defaulting to the newest one.
func loadManifest(cmd *cobra.Command, store *artifact.Store) (*manifest.Manifest, error) {
	ref, _ := cmd.Flags().GetString("manifest")

	var (
		path string
		err  error
	)
	switch {
	case ref == "":
		path, err = store.Latest(artifact.StageManifest)
	case fileExists(ref):
		path = ref
	default:
		path, err = store.Find(artifact.StageManifest, ref)
	}
	if err != nil {
		return nil, err
	}

	var m manifest.Manifest
	if err := store.Load(path, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// fileExists reports whether path names an existing file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
