package dashboard

import (
	"io"
	"strings"

	"github.com/vilaca/issue-archive/internal/domain"
	"github.com/vilaca/issue-archive/internal/issues"
)

// RenderList renders every matching issue as a flat list of cards.
// The search here also matches repository owner and name.
func (r *HTMLRenderer) RenderList(w io.Writer, page Page) error {
	var sb strings.Builder
	state := page.State
	filtered := issues.Filter(page.Issues, state.Query(issues.ScopeWithRepo))

	r.writePageStart(&sb, "All Issues", "All Issues", PathList, page.Issues, state)
	r.writeSearchBar(&sb, state, PathList)
	r.writeFilterBar(&sb, state, PathList)
	r.writeResults(&sb, len(filtered), func(sb *strings.Builder) {
		for _, issue := range filtered {
			r.writeIssueCard(sb, issue, cardOptions{showRepo: true, scope: issues.ScopeWithRepo})
		}
	})
	sb.WriteString(htmlFooter(len(page.Issues), r.static))

	return write(w, &sb)
}

// filteredForRoute returns the issues a browser or grouped view lists.
func filteredForRoute(all []domain.Issue, state issues.ViewState) []domain.Issue {
	return issues.Filter(all, state.Query(issues.ScopeIssue))
}
