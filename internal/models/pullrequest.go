package models

// ChangedFile is one file touched by a pull request.
type ChangedFile struct {
	Filename  string
	Status    string
	Patch     string // empty for binary or oversized files
	Additions int
	Deletions int
}

// HasPatch reports whether the hosting API returned a textual diff for the file.
func (f ChangedFile) HasPatch() bool {
	return f.Patch != ""
}

// Comment is a pull request (issue) comment.
type Comment struct {
	ID      int64
	Body    string
	HTMLURL string
}
