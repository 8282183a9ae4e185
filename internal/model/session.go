package model

// Session is the persisted repository login.
type Session struct {
	Token             string `json:"token"`
	Owner             string `json:"owner"`
	RepoName          string `json:"repoName"`
	AuthenticatedUser string `json:"authenticatedUser"`
}

// Repo returns "owner/repo".
func (s *Session) Repo() string {
	return s.Owner + "/" + s.RepoName
}
