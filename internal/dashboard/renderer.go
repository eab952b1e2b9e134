package dashboard

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/vilaca/issue-archive/internal/domain"
	"github.com/vilaca/issue-archive/internal/issues"
)

// Paths of the three presentations. Repo and issue views live under the
// router's paths.
const (
	PathHome    = "/"
	PathList    = "/list/"
	PathGrouped = "/grouped/"
)

// IndexFile is the page file of every static archive directory.
const IndexFile = "index.html"

// Renderer handles rendering responses to HTTP clients and archive files.
type Renderer interface {
	RenderList(w io.Writer, page Page) error
	RenderGrouped(w io.Writer, page Page) error
	RenderBrowser(w io.Writer, page Page) error
	RenderHealth(w io.Writer) error
	RenderIssuesJSON(w io.Writer, list []domain.Issue) error
}

// Page is everything a render needs: the whole issue store and the view state.
type Page struct {
	Issues []domain.Issue
	State  issues.ViewState
}

// HTMLRenderer implements Renderer for HTML responses.
// Rendering is a pure function of the Page; no state is kept between calls.
type HTMLRenderer struct {
	// static pages are rendered once with the default state and filtered
	// in the browser by viewStateScript.
	static bool
	now    func() time.Time
}

// NewHTMLRenderer creates a renderer for server-side filtered pages.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{now: time.Now}
}

// NewStaticRenderer creates a renderer for the static archive.
func NewStaticRenderer() *HTMLRenderer {
	return &HTMLRenderer{static: true, now: time.Now}
}

func (r *HTMLRenderer) RenderHealth(w io.Writer) error {
	_, err := w.Write([]byte(`{"status":"ok"}`))
	return err
}

func (r *HTMLRenderer) RenderIssuesJSON(w io.Writer, list []domain.Issue) error {
	if list == nil {
		list = []domain.Issue{}
	}
	return json.NewEncoder(w).Encode(map[string]interface{}{
		"issues": list,
		"count":  len(list),
	})
}

// cardOptions controls the variations of an issue card between views.
type cardOptions struct {
	showRepo bool
	// detailHref links the title to the in-app detail view instead of GitHub.
	detailHref string
	scope      issues.Scope
}

// target returns the link from the page at path from to the view at path to.
// Static pages link relatively to the index.html of the target directory,
// so the archive works from disk and under any base path.
func (r *HTMLRenderer) target(from, to string) string {
	if !r.static {
		return to
	}
	depth := 0
	for _, segment := range strings.Split(from, "/") {
		if segment != "" {
			depth++
		}
	}
	dir := strings.Trim(to, "/")
	if dir != "" {
		dir += "/"
	}
	return strings.Repeat("../", depth) + dir + IndexFile
}

// href returns the link from the page at from to the view at to, carrying state.
func (r *HTMLRenderer) href(state issues.ViewState, from, to string) string {
	return state.Href(r.target(from, to))
}

// writePageStart writes the head, title, navigation and store statistics.
// from is the path of the page being written.
func (r *HTMLRenderer) writePageStart(sb *strings.Builder, title, heading, from string, all []domain.Issue, state issues.ViewState) {
	stats := issues.ComputeStats(all)

	sb.WriteString(htmlHead(title, ""))
	sb.WriteString(`
<body>
	<div class="container">
		<h1>`)
	sb.WriteString(escapeHTML(heading))
	sb.WriteString("</h1>\n\t\t")
	sb.WriteString(buildNavigation(r.href(state, from, PathHome), r.href(state, from, PathList), r.href(state, from, PathGrouped)))
	sb.WriteString(fmt.Sprintf(`
		<div class="stats"><span id="repoCount">%d</span> repositories · <span id="issueCount">%d</span> issues</div>
`, stats.Repos, stats.Issues))
}

// writeSearchBar writes a GET form submitting the search term to path while
// keeping the rest of the view state.
func (r *HTMLRenderer) writeSearchBar(sb *strings.Builder, state issues.ViewState, path string) {
	sb.WriteString(fmt.Sprintf(`		<form class="search-bar" id="searchBar" method="get" action="%s">
			<input type="search" id="searchInput" name="%s" value="%s" placeholder="Search issues..." aria-label="Search issues">
`, escapeHTML(r.target(path, path)), issues.ParamSearch, escapeHTML(state.Search)))
	if f := domain.ParseFilter(string(state.Filter)); f != domain.FilterAll {
		sb.WriteString(fmt.Sprintf(`			<input type="hidden" name="%s" value="%s">
`, issues.ParamState, escapeHTML(string(f))))
	}
	if state.Collapsed.Len() > 0 {
		sb.WriteString(fmt.Sprintf(`			<input type="hidden" name="%s" value="%s">
`, issues.ParamCollapsed, escapeHTML(state.Collapsed.String())))
	}
	sb.WriteString("\t\t</form>\n")
}

// writeFilterBar writes one button per state filter. Each button links to
// the state that selecting it produces.
func (r *HTMLRenderer) writeFilterBar(sb *strings.Builder, state issues.ViewState, path string) {
	current := domain.ParseFilter(string(state.Filter))
	sb.WriteString(`		<div class="filter-bar" id="filterBar">
`)
	for _, f := range domain.Filters {
		class := "filter-btn"
		if f == current {
			class += " active"
		}
		sb.WriteString(fmt.Sprintf(`			<a class="%s" data-view data-filter="%s" href="%s">%s</a>
`, class, f, escapeHTML(r.href(state.WithFilter(f), path, path)), f.Label()))
	}
	sb.WriteString("\t\t</div>\n")
}

// writeNoResults writes the placeholder shown when nothing matches.
func (r *HTMLRenderer) writeNoResults(sb *strings.Builder, hidden bool) {
	style := ""
	if hidden {
		style = ` style="display: none;"`
	}
	sb.WriteString(fmt.Sprintf(`		<div class="no-results" id="noResults"%s>No issues match your search.</div>
`, style))
}

// writeResults writes either the results container or the placeholder.
// Static pages also carry the hidden placeholder for the browser-side filter.
func (r *HTMLRenderer) writeResults(sb *strings.Builder, count int, body func(sb *strings.Builder)) {
	if count == 0 {
		r.writeNoResults(sb, false)
		return
	}
	sb.WriteString(`		<div id="issuesContainer">
`)
	body(sb)
	sb.WriteString("\t\t</div>\n")
	if r.static {
		r.writeNoResults(sb, true)
	}
}

// writeIssueCard writes a single issue card.
func (r *HTMLRenderer) writeIssueCard(sb *strings.Builder, issue domain.Issue, opts cardOptions) {
	state := escapeHTML(string(issue.State))

	sb.WriteString(fmt.Sprintf(`			<div class="issue-card" data-issue data-state="%s" data-search="%s">
`, state, escapeHTML(issues.SearchableText(issue, opts.scope))))
	if opts.showRepo {
		sb.WriteString(fmt.Sprintf(`				<div class="repo-badge">%s</div>
`, escapeHTML(issue.RepoKey())))
	}

	title := externalLink(issue.URL, issue.Title)
	if opts.detailHref != "" {
		title = fmt.Sprintf(`<a data-view href="%s">%s</a>`, escapeHTML(opts.detailHref), escapeHTML(issue.Title))
	}

	sb.WriteString(fmt.Sprintf(`				<div class="issue-header">
					%s
					<span class="issue-number">#%d</span>
					<div class="issue-title">%s</div>
					<span class="state-badge state-%s">%s</span>
				</div>
				<div class="issue-meta">Opened by %s • Updated %s</div>`,
		stateIcon(issue.State), issue.Number, title, state, state,
		escapeHTML(issue.Author), formatDate(issue.UpdatedAt)))
	writeLabels(sb, issue.Labels)
	sb.WriteString("\n\t\t\t</div>\n")
}

// writeCounts writes the open and closed counters of a repository.
func writeCounts(sb *strings.Builder, group issues.RepoGroup) {
	open, closed := group.Counts()
	sb.WriteString(fmt.Sprintf(`<span class="count open">%d open</span><span class="count closed">%d closed</span>`, open, closed))
}

func write(w io.Writer, sb *strings.Builder) error {
	_, err := io.WriteString(w, sb.String())
	return err
}
