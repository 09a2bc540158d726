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

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Execute an approved plan",
	Long: `Apply executes a plan's actions as sequential atomic renames.
Only auto-approved actions run unless explicit action ids are given.
Each completed move is recorded in a rollback artifact so the whole
run can be undone. A plan that failed its safety check is refused.`,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().String("plan", "", "plan id or file (default: latest)")
	applyCmd.Flags().StringSlice("action", nil, "explicit action ids to execute (can be repeated)")
	applyCmd.Flags().BoolP("dry-run", "d", false, "report outcomes without touching the filesystem")
	rootCmd.AddCommand(applyCmd)
}

// runApply executes the selected plan actions and persists the report
// and rollback.
func runApply(cmd *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	p, err := loadPlan(cmd, store)
	if err != nil {
		return err
	}
	if !p.Safety.Passed {
		return fmt.Errorf("plan %s failed safety checks; refusing to execute", p.ID)
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	actionIDs, _ := cmd.Flags().GetStringSlice("action")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := executor.New().Execute(ctx, p, executor.Options{
		DryRun:            dryRun,
		SelectedActionIDs: actionIDs,
	})
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}

	if !dryRun {
		if _, err := store.Save(artifact.StageReport, report.ID, report); err != nil {
			return fmt.Errorf("persisting report: %w", err)
		}
		if report.Rollback != nil && len(report.Rollback.Entries) > 0 {
			if _, err := store.Save(artifact.StageRollback, report.Rollback.ID, report.Rollback); err != nil {
				return fmt.Errorf("persisting rollback: %w", err)
			}
		}
	}

	formatter, err := output.Get(viper.GetString("output"))
	if err != nil {
		return err
	}
	return formatter.FormatReport(os.Stdout, report)
}

// loadPlan resolves the --plan flag to a plan artifact, defaulting to
// the newest one.
func loadPlan(cmd *cobra.Command, store *artifact.Store) (*plan.Plan, error) {
	ref, _ := cmd.Flags().GetString("plan")

	var (
		path string
		err  error
	)
	switch {
	case ref == "":
		path, err = store.Latest(artifact.StagePlan)
	case fileExists(ref):
		path = ref
	default:
		path, err = store.Find(artifact.StagePlan, ref)
	}
	if err != nil {
		return nil, err
	}

	var p plan.Plan
	if err := store.Load(path, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
