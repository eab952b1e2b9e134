package domain

import "time"

// Issue represents an issue fetched from a GitHub repository.
// Body is nil when the tracker returned no description.
type Issue struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Body      *string   `json:"body"`
	Author    string    `json:"author"`
	State     State     `json:"state"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	RepoOwner string    `json:"repo_owner"`
	RepoName  string    `json:"repo_name"`
	Labels    []Label   `json:"labels"`
}

// Label is a named, colored tag attached to an issue.
// Color is a 6-hex-digit string without the leading '#', empty when absent.
type Label struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// RepoKey returns the "owner/name" key of the issue's repository.
func (i Issue) RepoKey() string {
	return RepoKey(i.RepoOwner, i.RepoName)
}

// BodyText returns the body or an empty string when absent.
func (i Issue) BodyText() string {
	if i.Body == nil {
		return ""
	}
	return *i.Body
}

// IsOpen reports whether the issue is open.
func (i Issue) IsOpen() bool {
	return i.State == StateOpen
}
