package issues

import "github.com/vilaca/issue-archive/internal/domain"

// RepoGroup holds the issues of one repository.
type RepoGroup struct {
	Owner  string
	Name   string
	Issues []domain.Issue
}

// Key returns the "owner/name" repo key of the group.
func (g RepoGroup) Key() string {
	return domain.RepoKey(g.Owner, g.Name)
}

// Counts returns the number of open and closed issues in the group.
func (g RepoGroup) Counts() (open, closed int) {
	for _, issue := range g.Issues {
		switch issue.State {
		case domain.StateOpen:
			open++
		case domain.StateClosed:
			closed++
		}
	}
	return open, closed
}

// Group partitions issues by repository. Groups appear in the order their
// first issue appears; issues keep their input order within a group.
func Group(all []domain.Issue) []RepoGroup {
	var groups []RepoGroup
	index := make(map[string]int)
	for _, issue := range all {
		key := issue.RepoKey()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, RepoGroup{Owner: issue.RepoOwner, Name: issue.RepoName})
		}
		groups[i].Issues = append(groups[i].Issues, issue)
	}
	return groups
}

// FindGroup returns the group with the given owner and name, or an empty
// group for that repository when it has no issues.
func FindGroup(groups []RepoGroup, owner, name string) RepoGroup {
	for _, g := range groups {
		if g.Owner == owner && g.Name == name {
			return g
		}
	}
	return RepoGroup{Owner: owner, Name: name}
}

// Stats summarizes the whole issue store for page headers and footers.
type Stats struct {
	Repos  int
	Issues int
}

// ComputeStats counts distinct repositories and total issues.
func ComputeStats(all []domain.Issue) Stats {
	seen := make(map[string]struct{})
	for _, issue := range all {
		seen[issue.RepoKey()] = struct{}{}
	}
	return Stats{Repos: len(seen), Issues: len(all)}
}
