package git

import (
	"fmt"
	"strings"
)

// ParseRepo splits a repository reference into owner and name. It accepts
// "owner/repo" as well as SSH and HTTPS GitHub remote URLs.
func ParseRepo(ref string) (owner, repo string, err error) {
	ref = strings.TrimSpace(ref)

	// Handle SSH: git@github.com:owner/repo.git
	if strings.HasPrefix(ref, "git@") {
		parts := strings.SplitN(ref, ":", 2)
		if len(parts) != 2 {
			return "", "", fmt.Errorf("cannot parse SSH remote: %s", ref)
		}
		ref = parts[1]
	}

	trimmed := strings.TrimSuffix(ref, ".git")
	trimmed = strings.TrimPrefix(trimmed, "https://github.com/")
	trimmed = strings.TrimPrefix(trimmed, "http://github.com/")
	trimmed = strings.Trim(trimmed, "/")

	segments := strings.Split(trimmed, "/")
	if len(segments) != 2 || segments[0] == "" || segments[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q: expected owner/repo", ref)
	}
	return segments[0], segments[1], nil
}
