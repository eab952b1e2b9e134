package dashboard

import (
	"fmt"
	"io"
	"strings"

	"github.com/vilaca/issue-archive/internal/domain"
	"github.com/vilaca/issue-archive/internal/issues"
	"github.com/vilaca/issue-archive/internal/router"
)

// RenderBrowser renders the view the state's route points at. An issue
// route without a matching issue renders home.
func (r *HTMLRenderer) RenderBrowser(w io.Writer, page Page) error {
	route, issue := router.Resolve(page.State.Route, page.Issues)
	state := page.State.WithRoute(route)

	var sb strings.Builder
	switch route.Kind {
	case router.KindIssue:
		r.buildIssueView(&sb, page.Issues, state, *issue)
	case router.KindRepo:
		r.buildRepoView(&sb, page.Issues, state)
	default:
		r.buildHomeView(&sb, page.Issues, state)
	}
	sb.WriteString(htmlFooter(len(page.Issues), r.static))

	return write(w, &sb)
}

// buildHomeView lists repositories that have matching issues. Static
// cards carry one hidden entry per issue so the browser can recount them.
func (r *HTMLRenderer) buildHomeView(sb *strings.Builder, all []domain.Issue, state issues.ViewState) {
	groups := issues.Group(filteredForRoute(all, state))

	r.writePageStart(sb, "Repositories", "Repositories", PathHome, all, state)
	r.writeBreadcrumb(sb, state)
	r.writeSearchBar(sb, state, PathHome)
	r.writeFilterBar(sb, state, PathHome)
	r.writeResults(sb, len(groups), func(sb *strings.Builder) {
		sb.WriteString(`			<div class="repo-grid">
`)
		for _, group := range groups {
			r.writeRepoCard(sb, group, state)
		}
		sb.WriteString("\t\t\t</div>\n")
	})
}

func (r *HTMLRenderer) writeRepoCard(sb *strings.Builder, group issues.RepoGroup, state issues.ViewState) {
	key := escapeHTML(group.Key())
	href := r.href(state, PathHome, router.Repo(group.Owner, group.Name).Path())

	sb.WriteString(fmt.Sprintf(`				<div class="repo-card" data-repo="%s" data-repo-group="%s">
					<a data-view href="%s">%s</a>
					<div class="counts">`, key, key, escapeHTML(href), key))
	writeCounts(sb, group)
	sb.WriteString(fmt.Sprintf(`<span class="count total">%d total</span></div>
`, len(group.Issues)))
	if r.static {
		for _, issue := range group.Issues {
			sb.WriteString(fmt.Sprintf(`					<span data-issue data-state="%s" data-search="%s" hidden></span>
`, escapeHTML(string(issue.State)), escapeHTML(issues.SearchableText(issue, issues.ScopeIssue))))
		}
	}
	sb.WriteString("\t\t\t\t</div>\n")
}

// buildRepoView lists the matching issues of one repository.
func (r *HTMLRenderer) buildRepoView(sb *strings.Builder, all []domain.Issue, state issues.ViewState) {
	route := state.Route
	group := issues.FindGroup(issues.Group(filteredForRoute(all, state)), route.Owner, route.Name)
	key := route.RepoKey()

	r.writePageStart(sb, key, key, route.Path(), all, state)
	r.writeBreadcrumb(sb, state)
	r.writeSearchBar(sb, state, route.Path())
	r.writeFilterBar(sb, state, route.Path())
	r.writeResults(sb, len(group.Issues), func(sb *strings.Builder) {
		for _, issue := range group.Issues {
			detail := r.href(state, route.Path(), router.Issue(issue.RepoOwner, issue.RepoName, issue.Number).Path())
			r.writeIssueCard(sb, issue, cardOptions{detailHref: detail, scope: issues.ScopeIssue})
		}
	})
}

// buildIssueView renders the detail of a single issue. Search and filter
// bars are not shown here.
func (r *HTMLRenderer) buildIssueView(sb *strings.Builder, all []domain.Issue, state issues.ViewState, issue domain.Issue) {
	title := fmt.Sprintf("#%d %s", issue.Number, issue.Title)
	status := escapeHTML(string(issue.State))

	r.writePageStart(sb, title, issue.RepoKey(), state.Route.Path(), all, state)
	r.writeBreadcrumb(sb, state)

	sb.WriteString(fmt.Sprintf(`		<div class="issue-detail" id="issueDetail">
			<div class="issue-header">
				%s
				<span class="state-badge state-%s">%s</span>
				<span class="issue-number">#%d</span>
			</div>
			<h2>%s</h2>
			<div class="issue-meta">Opened by %s on %s • Updated %s <span class="time-ago">(%s)</span> • %s</div>`,
		stateIcon(issue.State), status, status, issue.Number,
		escapeHTML(issue.Title),
		escapeHTML(issue.Author), formatDate(issue.CreatedAt), formatDate(issue.UpdatedAt),
		formatTimeAgo(issue.UpdatedAt, r.now()),
		externalLink(issue.URL, "Open on GitHub →")))
	writeLabels(sb, issue.Labels)
	sb.WriteString(fmt.Sprintf(`
			<div class="issue-body">%s</div>
		</div>
`, formatBody(issue.Body)))
}

// writeBreadcrumb writes Home › owner/name › #number for the current route.
func (r *HTMLRenderer) writeBreadcrumb(sb *strings.Builder, state issues.ViewState) {
	route := state.Route
	from := route.Path()
	sb.WriteString(`		<div class="breadcrumb" id="breadcrumb">`)
	if route.Kind == router.KindHome {
		sb.WriteString(`<span>Home</span>`)
	} else {
		sb.WriteString(fmt.Sprintf(`<a data-view href="%s">Home</a>`, escapeHTML(r.href(state, from, PathHome))))
	}

	switch route.Kind {
	case router.KindRepo:
		sb.WriteString(fmt.Sprintf(`<span class="sep">›</span><span>%s</span>`, escapeHTML(route.RepoKey())))
	case router.KindIssue:
		repoHref := r.href(state, from, router.Repo(route.Owner, route.Name).Path())
		sb.WriteString(fmt.Sprintf(`<span class="sep">›</span><a data-view href="%s">%s</a><span class="sep">›</span><span>#%d</span>`,
			escapeHTML(repoHref), escapeHTML(route.RepoKey()), route.Number))
	}
	sb.WriteString("</div>\n")
}
