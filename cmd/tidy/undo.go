package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/tidy/pkg/tidy/artifact"
	"github.com/jamesainslie/tidy/pkg/tidy/executor"
	"github.com/jamesainslie/tidy/pkg/tidy/output"
	"github.com/jamesainslie/tidy/pkg/tidy/plan"
)

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Undo a previously applied plan",
	Long: `Undo replays a rollback mapping in reverse order, renaming every
moved file back to its original location. Entries whose source has
since vanished fail individually; the rest are still restored.

By default undo replays the rollback recorded by the most recent
execution. Rollback mappings persisted at plan time describe moves
that may never have happened and are only replayed when named
explicitly with --rollback.`,
	RunE: runUndo,
}

func init() {
	undoCmd.Flags().String("rollback", "", "rollback id or file (default: rollback of the latest execution)")
	rootCmd.AddCommand(undoCmd)
}

// runUndo replays a rollback and prints the outcome report.
func runUndo(cmd *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	ref, _ := cmd.Flags().GetString("rollback")
	var rb *plan.Rollback
	if ref == "" {
		rb, err = latestExecutedRollback(store)
		if err != nil {
			return err
		}
	} else {
		path := ref
		if !fileExists(ref) {
			path, err = store.Find(artifact.StageRollback, ref)
			if err != nil {
				return err
			}
		}
		rb = &plan.Rollback{}
		if err := store.Load(path, rb); err != nil {
			return err
		}
	}
	if len(rb.Entries) == 0 {
		printInfo("rollback %s has no entries; nothing to undo", rb.ID)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := executor.New().Undo(ctx, rb)
	if err != nil {
		return fmt.Errorf("undo failed: %w", err)
	}
	if _, err := store.Save(artifact.StageReport, report.ID, report); err != nil {
		return fmt.Errorf("persisting report: %w", err)
	}

	formatter, err := output.Get(viper.GetString("output"))
	if err != nil {
		return err
	}
	return formatter.FormatReport(os.Stdout, report)
}

// latestExecutedRollback returns the rollback embedded in the newest
// execution report. It never consults the rollback artifacts directly:
// plan generation persists an eager rollback under that stage, and
// replaying one of those would "restore" moves that were never made.
func latestExecutedRollback(store *artifact.Store) (*plan.Rollback, error) {
	path, err := store.Latest(artifact.StageReport)
	if err != nil {
		return nil, fmt.Errorf("no execution reports found; pass --rollback to replay one explicitly: %w", err)
	}

	var report executor.Report
	if err := store.Load(path, &report); err != nil {
		return nil, err
	}
	if report.Rollback == nil {
		return nil, fmt.Errorf("latest report %s recorded no moves; pass --rollback to replay one explicitly", report.ID)
	}
	return report.Rollback, nil
}
