// Package issues derives filtered and grouped views of an issue sequence.
// Every function here is pure: inputs are never mutated and output order
// follows input order.
package issues

import (
	"strconv"
	"strings"

	"github.com/vilaca/issue-archive/internal/domain"
)

// Scope selects which fields the search term is matched against.
type Scope int

const (
	// ScopeIssue searches title, number, body and author.
	ScopeIssue Scope = iota
	// ScopeWithRepo additionally searches the repository owner and name.
	// The flat list uses it since it has no repo grouping to browse by.
	ScopeWithRepo
)

// Query is the input of Filter.
type Query struct {
	State domain.Filter
	Term  string
	Scope Scope
}

// NormalizeTerm lowercases a search term the way the view state stores it.
func NormalizeTerm(term string) string {
	return strings.ToLower(term)
}

// Filter returns the issues that pass both the state filter and the search
// term, in input order.
func Filter(all []domain.Issue, q Query) []domain.Issue {
	term := NormalizeTerm(q.Term)
	result := make([]domain.Issue, 0, len(all))
	for _, issue := range all {
		if !q.State.Matches(issue.State) {
			continue
		}
		if term != "" && !strings.Contains(SearchableText(issue, q.Scope), term) {
			continue
		}
		result = append(result, issue)
	}
	return result
}

// SearchableText joins the searchable fields with single spaces and lowercases them.
func SearchableText(issue domain.Issue, scope Scope) string {
	fields := []string{
		issue.Title,
		strconv.Itoa(issue.Number),
		issue.BodyText(),
		issue.Author,
	}
	if scope == ScopeWithRepo {
		fields = append(fields, issue.RepoOwner, issue.RepoName)
	}
	return strings.ToLower(strings.Join(fields, " "))
}
