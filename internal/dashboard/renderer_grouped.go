package dashboard

import (
	"fmt"
	"io"
	"strings"

	"github.com/vilaca/issue-archive/internal/issues"
)

// RenderGrouped renders matching issues grouped by repository. Collapsed
// groups keep their header and counts but omit their issue list.
func (r *HTMLRenderer) RenderGrouped(w io.Writer, page Page) error {
	var sb strings.Builder
	state := page.State
	groups := issues.Group(filteredForRoute(page.Issues, state))

	r.writePageStart(&sb, "Issues by Repository", "Issues by Repository", PathGrouped, page.Issues, state)
	r.writeSearchBar(&sb, state, PathGrouped)
	r.writeFilterBar(&sb, state, PathGrouped)
	r.writeResults(&sb, len(groups), func(sb *strings.Builder) {
		for _, group := range groups {
			r.writeRepoGroup(sb, group, state)
		}
	})
	sb.WriteString(htmlFooter(len(page.Issues), r.static))

	return write(w, &sb)
}

// writeRepoGroup writes one collapsible repository group.
func (r *HTMLRenderer) writeRepoGroup(sb *strings.Builder, group issues.RepoGroup, state issues.ViewState) {
	key := group.Key()
	collapsed := state.Collapsed.Contains(key)

	arrow, label := "▾", "Collapse"
	if collapsed {
		arrow, label = "▸", "Expand"
	}

	sb.WriteString(fmt.Sprintf(`			<div class="repo-group" data-repo-group="%s">
				<div class="repo-group-header">
					<a class="toggle" data-view data-toggle="%s" href="%s" title="%s %s" aria-expanded="%t">%s</a>
					<span class="repo-name">%s</span>
					`,
		escapeHTML(key),
		escapeHTML(key),
		escapeHTML(r.href(state.WithCollapsedToggled(key), PathGrouped, PathGrouped)),
		label, escapeHTML(key), !collapsed, arrow,
		escapeHTML(key)))
	writeCounts(sb, group)
	sb.WriteString("\n\t\t\t\t</div>\n")

	if !collapsed {
		sb.WriteString(`				<div class="repo-issues">
`)
		for _, issue := range group.Issues {
			r.writeIssueCard(sb, issue, cardOptions{scope: issues.ScopeIssue})
		}
		sb.WriteString("\t\t\t\t</div>\n")
	}
	sb.WriteString("\t\t\t</div>\n")
}
