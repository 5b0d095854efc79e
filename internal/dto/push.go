package dto

// PushEvent is the subset of a GitHub push webhook payload the relay reads
type PushEvent struct {
	Ref        string         `json:"ref" binding:"required"`
	Commits    []Commit       `json:"commits" binding:"required,min=1"`
	Repository PushRepository `json:"repository"`
}

// Commit represents one commit in a push payload
type Commit struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

// PushRepository represents the repository a push targeted
type PushRepository struct {
	FullName string `json:"full_name" binding:"required"`
}

// LastCommit returns the final element of Commits. GitHub orders commits
// oldest first, but force pushes can break that; the payload order is kept as-is.
func (e PushEvent) LastCommit() (Commit, bool) {
	if len(e.Commits) == 0 {
		return Commit{}, false
	}
	return e.Commits[len(e.Commits)-1], true
}
