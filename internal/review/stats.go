package review

import (
	"github.com/sourcegraph/go-diff/diff"

	"github.com/joescharf/prbot/internal/models"
)

// Stats summarises the size of a pull request.
type Stats struct {
	Files     int
	Additions int
	Deletions int
}

// DiffStats counts added and deleted lines across files. Patches are parsed
// hunk by hunk; files without a parseable patch use the counters reported by
// the hosting API.
func DiffStats(files []models.ChangedFile) Stats {
	st := Stats{Files: len(files)}
	for _, f := range files {
		added, deleted, ok := patchStats(f.Patch)
		if !ok {
			added, deleted = f.Additions, f.Deletions
		}
		st.Additions += added
		st.Deletions += deleted
	}
	return st
}

func patchStats(patch string) (added, deleted int, ok bool) {
	if patch == "" {
		return 0, 0, false
	}
	hunks, err := diff.ParseHunks([]byte(patch + "\n"))
	if err != nil || len(hunks) == 0 {
		return 0, 0, false
	}
	for _, h := range hunks {
		s := h.Stat()
		// A deleted line directly followed by an added one counts as changed.
		added += int(s.Added + s.Changed)
		deleted += int(s.Deleted + s.Changed)
	}
	return added, deleted, true
}
