package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/joescharf/prbot/internal/config"
	"github.com/joescharf/prbot/internal/models"
	"github.com/joescharf/prbot/internal/output"
	"github.com/joescharf/prbot/internal/quality"
)

var qualityCmd = &cobra.Command{
	Use:   "quality",
	Short: "Post SonarQube quality metrics on a pull request",
	Long: `Fetch measures, quality gate status and open issues for a SonarQube
project and post them as a Markdown report on a pull request.

Requires SONARQUBE_URL, SONARQUBE_TOKEN, SONARQUBE_PROJECT_KEY, GITHUB_TOKEN,
GITHUB_REPOSITORY and PR_NUMBER.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		return qualityRun(ctx)
	},
}

func init() {
	qualityCmd.Flags().BoolVar(&updateComment, "update", false, "Edit the previous quality comment instead of posting a new one")
	rootCmd.AddCommand(qualityCmd)
}

func qualityRun(ctx context.Context) error {
	cfg := loadConfig()
	if err := cfg.ValidateQuality(); err != nil {
		return err
	}

	if err := runQuality(ctx, cfg); err != nil {
		reportFailure(err)
	}
	return nil
}

func runQuality(ctx context.Context, cfg *config.Config) error {
	key := cfg.Sonar.ProjectKey
	ui.Info("Collecting SonarQube results for %s (run %s)", key, runID)

	sc := newSonarClient(cfg)

	measures, err := sc.Measures(ctx, key)
	if err != nil {
		ui.Error("Error getting analysis results: %v", err)
		ui.Error("Could not retrieve SonarQube analysis results.")
		return nil
	}

	in := quality.Input{
		ServerURL:  cfg.Sonar.URL,
		ProjectKey: key,
		Component:  measures.Component,
		RunID:      runID,
	}

	if in.Component == nil {
		ui.Warning("No analysis results found for %s", key)
	} else {
		gate, err := sc.QualityGate(ctx, key)
		if err != nil {
			ui.Warning("Error getting Quality Gate status: %v", err)
		} else {
			in.Gate = gate
		}
		ui.Info("Quality gate: %s", output.GateColor(quality.GateStatus(in.Gate)))

		in.Issues, in.IssuesErr = sc.SearchIssues(ctx, key)
		if in.IssuesErr != nil {
			ui.Warning("Error getting file-level issues: %v", in.IssuesErr)
		} else {
			ui.VerboseLog("%d open issues", len(in.Issues))
		}

		if verbose || dryRun {
			printMetrics(in.Component)
		}
	}

	gh, err := newGitHubClient(cfg)
	if err != nil {
		return err
	}
	return publish(ctx, gh, cfg, quality.CommentMarker, quality.Build(in))
}

func printMetrics(c *models.Component) {
	table := ui.Table([]string{"Metric", "Value"})
	for _, row := range quality.MetricRows(c.Values()) {
		table.Append([]string{row.Label, row.Value})
	}
	table.Render()
}
