// Package router maps URL fragments (or request paths) to browser views.
//
// Recognized shapes are "/", "/repo/<owner>/<name>" and
// "/issue/<owner>/<name>/<number>". Everything else is the home view;
// parsing never fails.
package router

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/vilaca/issue-archive/internal/domain"
)

// Kind enumerates the browser views.
type Kind int

const (
	KindHome Kind = iota
	KindRepo
	KindIssue
)

func (k Kind) String() string {
	switch k {
	case KindRepo:
		return "repo"
	case KindIssue:
		return "issue"
	default:
		return "home"
	}
}

// Route is the current view. Owner and Name are set for repo and issue
// routes, Number only for issue routes.
type Route struct {
	Kind   Kind
	Owner  string
	Name   string
	Number int
}

// Home returns the home route.
func Home() Route {
	return Route{Kind: KindHome}
}

// Repo returns the route of a repository view.
func Repo(owner, name string) Route {
	return Route{Kind: KindRepo, Owner: owner, Name: name}
}

// Issue returns the route of an issue detail view.
func Issue(owner, name string, number int) Route {
	return Route{Kind: KindIssue, Owner: owner, Name: name, Number: number}
}

// Parse maps a fragment to a route. A leading '#' is ignored and empty
// segments are dropped, so "", "#", "/" and "#//" are all home.
func Parse(fragment string) Route {
	fragment = strings.TrimPrefix(fragment, "#")

	var segments []string
	for _, s := range strings.Split(fragment, "/") {
		if s == "" {
			continue
		}
		if unescaped, err := url.PathUnescape(s); err == nil {
			s = unescaped
		}
		segments = append(segments, s)
	}

	switch {
	case len(segments) == 3 && segments[0] == "repo":
		return Repo(segments[1], segments[2])
	case len(segments) == 4 && segments[0] == "issue":
		// Only the canonical decimal form; Parse(r.Path()) is one-to-one.
		number, err := strconv.Atoi(segments[3])
		if err != nil || number <= 0 || strconv.Itoa(number) != segments[3] {
			return Home()
		}
		return Issue(segments[1], segments[2], number)
	default:
		return Home()
	}
}

// Path returns the canonical path of the route. Parse(r.Path()) == r.
func (r Route) Path() string {
	switch r.Kind {
	case KindRepo:
		return fmt.Sprintf("/repo/%s/%s", url.PathEscape(r.Owner), url.PathEscape(r.Name))
	case KindIssue:
		return fmt.Sprintf("/issue/%s/%s/%d", url.PathEscape(r.Owner), url.PathEscape(r.Name), r.Number)
	default:
		return "/"
	}
}

// RepoKey returns "owner/name" for repo and issue routes, "" for home.
func (r Route) RepoKey() string {
	if r.Kind == KindHome {
		return ""
	}
	return domain.RepoKey(r.Owner, r.Name)
}

// Resolve locates the issue an issue route points at. A route without a
// matching issue falls back to home. Repo and home routes pass through
// unchanged with a nil issue.
func Resolve(r Route, issues []domain.Issue) (Route, *domain.Issue) {
	if r.Kind != KindIssue {
		return r, nil
	}
	for i := range issues {
		issue := &issues[i]
		if issue.RepoOwner == r.Owner && issue.RepoName == r.Name && issue.Number == r.Number {
			return r, issue
		}
	}
	return Home(), nil
}
