// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-profile-stats/internal/config"
	"github.com/naka-gawa/github-profile-stats/internal/gateway"
	"github.com/naka-gawa/github-profile-stats/internal/report"
	"github.com/naka-gawa/github-profile-stats/internal/usecase"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Generates github-stats.json and commit-heatmap.json",
	Long: `Aggregates commits (all-time and last 365 days), languages, stars and forks over
every non-fork repository visible to GITHUB_TOKEN, then overwrites the output files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		verbose, _ := cmd.Flags().GetBool("verbose")
		logger := newLogger(verbose)

		cfg, err := config.Load(cmd.Flags())
		if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		runID := uuid.NewString()
		log := logger.WithField("run_id", runID)
		log.WithField("user", cfg.User).Info("Generating stats")

		// Inject dependencies and run the main business logic.
		githubGateway, err := gateway.NewGitHubGateway(cfg.GitHubToken, logger)
		if err != nil {
			return fmt.Errorf("failed to create GitHub gateway: %w", err)
		}
		aggregator := usecase.NewAggregator(githubGateway, usecase.Options{
			CommitDelay:   cfg.CommitDelay,
			LanguageDelay: cfg.LanguageDelay,
			Location:      cfg.Location,
		}, logger)

		result, err := aggregator.Generate(ctx, cfg.User)
		if err != nil {
			log.WithError(err).Error("Error generating stats")
			return fmt.Errorf("failed to generate stats: %w", err)
		}

		writer := &report.Writer{
			Dir:           cfg.OutDir,
			StatsFile:     cfg.StatsFile,
			HeatmapFile:   cfg.HeatmapFile,
			LanguagesFile: cfg.LanguagesFile,
			ChartFile:     cfg.ChartFile,
			Logger:        logger,
		}
		if err := writer.Write(result); err != nil {
			return fmt.Errorf("failed to write output files: %w", err)
		}

		if cfg.Summary {
			report.PrintSummary(os.Stdout, result)
		}
		log.Info("Stats generated successfully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	config.RegisterFlags(statsCmd.Flags())
}
