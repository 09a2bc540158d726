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
	"github.com/jamesainslie/tidy/pkg/tidy/classifier"
	"github.com/jamesainslie/tidy/pkg/tidy/manifest"
	"github.com/jamesainslie/tidy/pkg/tidy/output"
	"github.com/jamesainslie/tidy/pkg/tidy/project"
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan a directory and build a classified manifest",
	Long: `Scan walks the directory tree, detects software project roots and
generated folders (which are never split apart), classifies every file,
and persists the resulting manifest for plan generation.

The scan is read-only: no file is touched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringSliceP("ignore", "i", nil, "ignore patterns (can be repeated)")
	scanCmd.Flags().Int("max-depth", 0, "maximum walk depth (0=config default)")
	scanCmd.Flags().Bool("classify", false, "escalate ambiguous documents to the AI classifier")
	rootCmd.AddCommand(scanCmd)
}

// runScan builds and persists a manifest.
func runScan(cmd *cobra.Command, args []string) error {
	scanPath := loadedConfig.ScanPath
	if len(args) > 0 {
		scanPath = args[0]
	}

	ignorePatterns := loadedConfig.Ignore
	if flagged, _ := cmd.Flags().GetStringSlice("ignore"); len(flagged) > 0 {
		ignorePatterns = append(ignorePatterns, flagged...)
	}
	maxDepth, _ := cmd.Flags().GetInt("max-depth")
	if maxDepth <= 0 {
		maxDepth = loadedConfig.MaxDepth
	}
	useClassifier, _ := cmd.Flags().GetBool("classify")
	if !cmd.Flags().Changed("classify") {
		useClassifier = loadedConfig.Classifier.Enabled
	}

	builderOpts := []manifest.BuilderOption{}
	if useClassifier {
		clf, err := classifier.New(classifier.Config{
			Provider:   loadedConfig.Classifier.Provider,
			Model:      loadedConfig.Classifier.Model,
			BaseURL:    loadedConfig.Classifier.BaseURL,
			APIKey:     loadedConfig.Classifier.APIKey,
			Timeout:    loadedConfig.Classifier.Timeout,
			MaxRetries: loadedConfig.Classifier.MaxRetries,
		})
		if err != nil {
			return fmt.Errorf("configuring classifier: %w", err)
		}
		builderOpts = append(builderOpts, manifest.WithClassifier(clf))
	}

	builder := manifest.NewBuilder(project.NewDetector(), builderOpts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m, err := builder.Build(ctx, manifest.Options{
		Root:                  scanPath,
		MaxDepth:              maxDepth,
		Ignore:                ignorePatterns,
		UseClassifier:         useClassifier,
		ClassifierConcurrency: loadedConfig.Classifier.Concurrency,
	})
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	path, err := store.Save(artifact.StageManifest, m.ID, m)
	if err != nil {
		return fmt.Errorf("persisting manifest: %w", err)
	}

	formatter, err := output.Get(viper.GetString("output"))
	if err != nil {
		return err
	}
	if err := formatter.FormatManifest(os.Stdout, m); err != nil {
		return err
	}
	printInfo("manifest saved to %s", path)
	return nil
}
