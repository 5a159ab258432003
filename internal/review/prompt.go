package review

import (
	"fmt"
	"strings"

	"github.com/joescharf/prbot/internal/models"
)

const (
	// SystemPrompt sets the reviewer persona for the completion.
	SystemPrompt = "You are an experienced code reviewer."

	// UnsupportedMarker replaces the patch of files the hosting API returned no diff for.
	UnsupportedMarker = "(unsupported file type for diff)"

	// NothingToReview is returned instead of calling the model when there is no diff.
	NothingToReview = "No valid code changes to review."
)

// BuildChangesText concatenates every changed file with its patch, or with
// UnsupportedMarker when the file has none.
func BuildChangesText(files []models.ChangedFile) string {
	var b strings.Builder
	for _, f := range files {
		if f.HasPatch() {
			fmt.Fprintf(&b, "File: %s\nChanges:\n%s\n\n", f.Filename, f.Patch)
		} else {
			fmt.Fprintf(&b, "File: %s\n%s\n\n", f.Filename, UnsupportedMarker)
		}
	}
	return b.String()
}

// BuildPrompt wraps the changes block in the review instructions.
func BuildPrompt(changes string) string {
	var b strings.Builder
	b.WriteString("Please review the following code changes and provide feedback:\n")
	b.WriteString("1. Identify possible bugs or quality problems.\n")
	b.WriteString("2. Suggest code improvements.\n")
	b.WriteString("3. Comment on the clarity and organization of the code.\n\n")
	b.WriteString(changes)
	return b.String()
}
