package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joescharf/prbot/internal/config"
	"github.com/joescharf/prbot/internal/review"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Post an AI code review on a pull request",
	Long: `Fetch the changed files of a pull request, ask a language model to review
the diff, and post the result as a pull request comment.

Requires GITHUB_TOKEN, GITHUB_REPOSITORY, PR_NUMBER and an API key for the
selected provider (OPENAI_API_KEY by default).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		return reviewRun(ctx)
	},
}

func init() {
	reviewCmd.Flags().BoolVar(&updateComment, "update", false, "Edit the previous review comment instead of posting a new one")
	rootCmd.AddCommand(reviewCmd)
}

func reviewRun(ctx context.Context) error {
	cfg := loadConfig()
	if err := cfg.ValidateReview(); err != nil {
		return err
	}

	if err := runReview(ctx, cfg); err != nil {
		reportFailure(err)
	}
	return nil
}

func runReview(ctx context.Context, cfg *config.Config) error {
	ui.Info("Reviewing %s (run %s)", prLabel(cfg), runID)

	gh, err := newGitHubClient(cfg)
	if err != nil {
		return err
	}

	files, err := gh.PullRequestFiles(ctx, cfg.GitHub.Repository, cfg.GitHub.PRNumber)
	if err != nil {
		return fmt.Errorf("fetch pull request changes: %w", err)
	}
	stats := review.DiffStats(files)
	ui.Success("Fetched %d changed files (+%d -%d)", stats.Files, stats.Additions, stats.Deletions)
	for _, f := range files {
		ui.VerboseLog("%s %s", f.Status, f.Filename)
	}

	completer, err := newCompleter(cfg)
	if err != nil {
		return err
	}
	reviewer := review.NewReviewer(completer, review.Config{
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
	})

	ui.Info("Requesting review from %s", cfg.LLM.Model)
	text, err := reviewer.Review(ctx, files)
	if err != nil {
		return err
	}
	ui.Success("Review generated")

	body := review.FormatComment(cfg.LLM.Model, text, stats, runID)
	return publish(ctx, gh, cfg, review.CommentMarker, body)
}
