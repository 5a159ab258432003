package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/joescharf/prbot/internal/llm"
	"github.com/joescharf/prbot/internal/models"
)

// CommentMarker identifies review comments posted by prbot.
const CommentMarker = "<!-- prbot:review -->"

// Config holds review generation settings.
type Config struct {
	Model     string
	MaxTokens int
}

// Reviewer turns pull request diffs into review text.
type Reviewer struct {
	llm llm.Completer
	cfg Config
}

// NewReviewer creates a reviewer backed by the given completer.
func NewReviewer(c llm.Completer, cfg Config) *Reviewer {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = llm.DefaultMaxTokens
	}
	return &Reviewer{llm: c, cfg: cfg}
}

// Review returns the model's review of files. When there is nothing to review
// it returns NothingToReview without calling the model.
func (r *Reviewer) Review(ctx context.Context, files []models.ChangedFile) (string, error) {
	changes := BuildChangesText(files)
	if strings.TrimSpace(changes) == "" {
		return NothingToReview, nil
	}

	text, err := r.llm.Complete(ctx, llm.Request{
		System:    SystemPrompt,
		User:      BuildPrompt(changes),
		Model:     r.cfg.Model,
		MaxTokens: r.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("request review: %w", err)
	}
	return text, nil
}

// FormatComment builds the pull request comment body for a review.
func FormatComment(model, review string, st Stats, runID string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**AI Code Review (%s):**\n\n", model)
	b.WriteString(review)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "<sub>%d %s changed, +%d -%d</sub>\n", st.Files, plural(st.Files, "file", "files"), st.Additions, st.Deletions)
	fmt.Fprintf(&b, "%s\n<!-- prbot:run %s -->\n", CommentMarker, runID)
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
