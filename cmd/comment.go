package cmd

import (
	"context"
	"fmt"

	"github.com/joescharf/prbot/internal/config"
	"github.com/joescharf/prbot/internal/git"
)

// updateComment makes publish edit the previous bot comment instead of adding one.
var updateComment bool

// publish posts body on the configured pull request. With --update it edits
// the first existing comment containing marker.
func publish(ctx context.Context, gh git.GitHubClient, cfg *config.Config, marker, body string) error {
	repo, pr := cfg.GitHub.Repository, cfg.GitHub.PRNumber

	if dryRun {
		ui.DryRunMsg("Would post comment on %s#%d", repo, pr)
		ui.Block("Comment preview", body)
		return nil
	}

	if updateComment {
		existing, err := gh.FindComment(ctx, repo, pr, marker)
		switch {
		case err != nil:
			ui.Warning("Could not search for an existing comment: %v", err)
		case existing != nil:
			ui.VerboseLog("Updating comment %d", existing.ID)
			updated, err := gh.UpdateComment(ctx, repo, existing.ID, body)
			if err != nil {
				return err
			}
			ui.Success("Comment updated successfully: %s", updated.HTMLURL)
			return nil
		}
	}

	created, err := gh.CreateComment(ctx, repo, pr, body)
	if err != nil {
		return err
	}
	ui.Success("Comment posted successfully: %s", created.HTMLURL)
	return nil
}

func prLabel(cfg *config.Config) string {
	return fmt.Sprintf("%s#%d", cfg.GitHub.Repository, cfg.GitHub.PRNumber)
}
