package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jamesainslie/tidy/pkg/tidy/artifact"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List persisted pipeline artifacts",
	Long: `History lists the manifests, plans, rollbacks, and execution
reports stored on disk, newest first.`,
	RunE: runHistory,
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove artifacts older than the retention period",
	RunE:  runHistoryClean,
}

func init() {
	historyCmd.Flags().IntP("limit", "l", 20, "maximum number of entries to show")
	historyCmd.Flags().String("stage", "", "filter by stage (manifest, plan, rollback, report)")
	historyCmd.AddCommand(historyCleanCmd)
	rootCmd.AddCommand(historyCmd)
}

// runHistory lists stored artifacts.
func runHistory(cmd *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	stage, _ := cmd.Flags().GetString("stage")

	infos, err := store.List(artifact.Stage(stage), limit)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		printInfo("no artifacts found in %s", store.Dir())
		return nil
	}

	for _, info := range infos {
		fmt.Printf("%-10s %-60s %10s  %s\n",
			info.Stage, info.Name,
			humanize.IBytes(uint64(info.Size)),
			humanize.Time(info.Modified))
	}
	return nil
}

// runHistoryClean removes artifacts past the retention period.
func runHistoryClean(_ *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	retention := loadedConfig.Artifacts.RetentionDays
	if retention <= 0 {
		retention = 30
	}
	if err := store.Cleanup(retention); err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}
	printInfo("removed artifacts older than %d days", retention)
	return nil
}
