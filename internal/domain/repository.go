package domain

import (
	"fmt"
	"strings"
)

// Repository identifies a source repository by owner and name.
type Repository struct {
	Owner string
	Name  string
}

// Key returns the "owner/name" repo key.
func (r Repository) Key() string {
	return RepoKey(r.Owner, r.Name)
}

func (r Repository) String() string {
	return r.Key()
}

// RepoKey joins owner and name into the "owner/name" grouping key.
func RepoKey(owner, name string) string {
	return owner + "/" + name
}

// ParseRepository parses "owner/name". Whitespace around either part is trimmed.
func ParseRepository(s string) (Repository, error) {
	owner, name, ok := strings.Cut(s, "/")
	owner = strings.TrimSpace(owner)
	name = strings.TrimSpace(name)
	if !ok || owner == "" || name == "" {
		return Repository{}, fmt.Errorf("invalid repo format: %s. Expected 'owner/name'", s)
	}
	return Repository{Owner: owner, Name: name}, nil
}
