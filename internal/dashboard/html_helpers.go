package dashboard

import (
	"fmt"
	"strings"
)

// htmlHead returns the common HTML head section with proper meta tags.
func htmlHead(title, description string) string {
	if description == "" {
		description = "Browse archived GitHub issues across repositories"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0, viewport-fit=cover">
	<meta name="description" content="%s">
	<meta name="author" content="Issue Archive">

	<!-- Open Graph / Social Media -->
	<meta property="og:type" content="website">
	<meta property="og:title" content="%s">
	<meta property="og:description" content="%s">

	<!-- Favicon -->
	<link rel="icon" type="image/svg+xml" href="data:image/svg+xml,<svg xmlns='http://www.w3.org/2000/svg' viewBox='0 0 100 100'><text y='0.9em' font-size='90'>🗂️</text></svg>">

	<title>%s - Issue Archive</title>
	%s
</head>`, escapeHTML(description), escapeHTML(title), escapeHTML(description), escapeHTML(title), commonCSS())
}

// commonCSS returns the shared CSS styles used across all pages.
func commonCSS() string {
	return `<style>
		/* CSS Variables for theming */
		:root {
			--bg-primary: #f5f5f5;
			--bg-secondary: white;
			--text-primary: #333;
			--text-secondary: #666;
			--link-color: #0066cc;
			--button-bg: #0066cc;
			--button-hover: #0052a3;
			--border-color: #e0e0e0;
			--shadow: rgba(0,0,0,0.1);
			--open-color: #1a7f37;
			--open-bg: #dafbe1;
			--closed-color: #8250df;
			--closed-bg: #fbefff;
			--code-bg: #eff1f3;
		}

		[data-theme="dark"] {
			--bg-primary: #1a1a1a;
			--bg-secondary: #2d2d2d;
			--text-primary: #e0e0e0;
			--text-secondary: #b0b0b0;
			--link-color: #4d9fff;
			--button-bg: #4d9fff;
			--button-hover: #3d89ef;
			--border-color: #404040;
			--shadow: rgba(0,0,0,0.3);
			--open-color: #3fb950;
			--open-bg: #1e3a24;
			--closed-color: #a371f7;
			--closed-bg: #2f2145;
			--code-bg: #3a3a3a;
		}

		* { box-sizing: border-box; margin: 0; padding: 0; }

		body {
			font-family: system-ui, -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
			padding: 20px;
			background: var(--bg-primary);
			color: var(--text-primary);
			transition: background-color 0.3s, color 0.3s;
			line-height: 1.6;
		}

		.container { max-width: 1200px; margin: 0 auto; }
		h1 { margin-bottom: 10px; font-size: 2rem; font-weight: 600; }
		h2 { font-size: 1.5rem; font-weight: 600; }

		/* Navigation */
		.nav { margin-bottom: 20px; display: flex; align-items: center; gap: 15px; flex-wrap: wrap; }
		.nav a { color: var(--link-color); text-decoration: none; }
		.nav a:hover { text-decoration: underline; }
		.stats { color: var(--text-secondary); font-size: 14px; margin-bottom: 20px; }

		.theme-toggle {
			padding: 8px 16px;
			background: var(--button-bg);
			color: white;
			border: none;
			border-radius: 4px;
			cursor: pointer;
			font-size: 14px;
		}
		.theme-toggle:hover { background: var(--button-hover); }

		/* Search and filters */
		.search-bar { margin-bottom: 12px; }
		.search-bar input[type="search"] {
			width: 100%;
			padding: 10px 14px;
			border: 1px solid var(--border-color);
			border-radius: 6px;
			font-size: 15px;
			background: var(--bg-secondary);
			color: var(--text-primary);
		}
		.filter-bar { display: flex; gap: 8px; margin-bottom: 20px; }
		.filter-btn {
			padding: 6px 14px;
			border: 1px solid var(--border-color);
			border-radius: 20px;
			color: var(--text-primary);
			background: var(--bg-secondary);
			text-decoration: none;
			font-size: 14px;
		}
		.filter-btn.active { background: var(--button-bg); border-color: var(--button-bg); color: white; }

		/* Breadcrumb */
		.breadcrumb { margin-bottom: 20px; font-size: 14px; color: var(--text-secondary); }
		.breadcrumb a { color: var(--link-color); text-decoration: none; }
		.breadcrumb .sep { margin: 0 6px; }

		/* Issue cards */
		.issue-card {
			background: var(--bg-secondary);
			padding: 16px 20px;
			border-radius: 8px;
			box-shadow: 0 2px 4px var(--shadow);
			margin-bottom: 12px;
		}
		.repo-badge { font-size: 12px; color: var(--text-secondary); margin-bottom: 6px; }
		.issue-header { display: flex; align-items: center; gap: 10px; }
		.issue-number { color: var(--text-secondary); font-weight: 500; }
		.issue-title { flex: 1; font-weight: 600; }
		.issue-title a { color: var(--text-primary); text-decoration: none; }
		.issue-title a:hover { color: var(--link-color); text-decoration: underline; }
		.issue-meta { color: var(--text-secondary); font-size: 13px; margin-top: 6px; }
		.state-icon svg { fill: currentColor; vertical-align: text-bottom; }
		.state-icon.state-open { color: var(--open-color); }
		.state-icon.state-closed { color: var(--closed-color); }
		.state-badge { padding: 2px 10px; border-radius: 12px; font-size: 12px; font-weight: 500; text-transform: capitalize; }
		.state-badge.state-open { background: var(--open-bg); color: var(--open-color); }
		.state-badge.state-closed { background: var(--closed-bg); color: var(--closed-color); }
		.labels { display: flex; flex-wrap: wrap; gap: 6px; margin-top: 8px; }
		.label { padding: 1px 10px; border-radius: 12px; font-size: 12px; font-weight: 500; }

		/* Repository groups */
		.repo-group { margin-bottom: 24px; }
		.repo-group-header {
			display: flex;
			align-items: center;
			gap: 12px;
			padding-bottom: 8px;
			margin-bottom: 12px;
			border-bottom: 2px solid var(--border-color);
		}
		.repo-group-header .toggle { text-decoration: none; color: var(--text-secondary); font-family: monospace; }
		.repo-group-header .repo-name { font-size: 18px; font-weight: 600; flex: 1; }
		.count { font-size: 13px; color: var(--text-secondary); }
		.count.open { color: var(--open-color); }
		.count.closed { color: var(--closed-color); }

		/* Repository grid */
		.repo-grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(300px, 1fr)); gap: 16px; }
		.repo-card { background: var(--bg-secondary); padding: 20px; border-radius: 8px; box-shadow: 0 2px 4px var(--shadow); }
		.repo-card a { color: var(--text-primary); text-decoration: none; font-size: 18px; font-weight: 600; }
		.repo-card a:hover { color: var(--link-color); }
		.repo-card .counts { display: flex; gap: 12px; margin-top: 8px; }

		/* Issue detail */
		.issue-detail { background: var(--bg-secondary); padding: 24px; border-radius: 8px; box-shadow: 0 2px 4px var(--shadow); }
		.issue-detail h2 { margin: 8px 0; }
		.issue-body { margin-top: 20px; padding-top: 16px; border-top: 1px solid var(--border-color); word-wrap: break-word; }
		.issue-body code { background: var(--code-bg); padding: 1px 5px; border-radius: 4px; font-size: 90%; }
		.no-body { color: var(--text-secondary); font-style: italic; }

		/* Empty State */
		.no-results { text-align: center; padding: 40px; color: var(--text-secondary); font-size: 16px; }
		.footer { margin-top: 30px; text-align: center; font-size: 13px; color: var(--text-secondary); }
	</style>`
}

// themeToggleScript returns the common theme toggle JavaScript.
func themeToggleScript() string {
	return `<script>
		function toggleTheme() {
			const html = document.documentElement;
			const currentTheme = html.getAttribute('data-theme');
			const newTheme = currentTheme === 'dark' ? 'light' : 'dark';
			html.setAttribute('data-theme', newTheme);
			localStorage.setItem('theme', newTheme);
			updateToggleButton(newTheme);
		}

		function updateToggleButton(theme) {
			const button = document.querySelector('.theme-toggle');
			if (button) {
				button.textContent = theme === 'dark' ? '☀️ Light Mode' : '🌙 Dark Mode';
				button.setAttribute('aria-label', theme === 'dark' ? 'Switch to light mode' : 'Switch to dark mode');
			}
		}

		(function() {
			const savedTheme = localStorage.getItem('theme') || 'light';
			document.documentElement.setAttribute('data-theme', savedTheme);
			updateToggleButton(savedTheme);
		})();
	</script>`
}

// viewStateScript applies the query-string view state on static archive
// pages, where no server is around to filter. Cards and hidden repo-card
// entries carry data-state and data-search; groups carry data-repo-group.
// Links marked data-view are rebuilt from the current state. data-filter and
// data-toggle apply the WithFilter and WithCollapsedToggled transitions.
func viewStateScript() string {
	return `<script>
		(function() {
			const params = new URLSearchParams(window.location.search);
			let state = (params.get('state') || '').trim().toLowerCase();
			if (state !== 'open' && state !== 'closed') state = 'all';
			const term = (params.get('q') || '').toLowerCase();
			const collapsed = [];
			(params.get('collapsed') || '').split(',').forEach(function(key) {
				key = key.trim();
				if (key && !collapsed.includes(key)) collapsed.push(key);
			});

			function query(filter, keys) {
				const out = new URLSearchParams();
				if (filter !== 'all') out.set('state', filter);
				if (term) out.set('q', term);
				if (keys.length) out.set('collapsed', keys.slice().sort().join(','));
				const encoded = out.toString();
				return encoded ? '?' + encoded : '';
			}

			function toggled(key) {
				return collapsed.includes(key) ?
					collapsed.filter(function(k) { return k !== key; }) :
					collapsed.concat([key]);
			}

			let visible = 0;
			document.querySelectorAll('[data-issue]').forEach(function(item) {
				const match = (state === 'all' || item.dataset.state === state) &&
					(!term || item.dataset.search.includes(term));
				item.dataset.match = match ? 'true' : 'false';
				item.style.display = match ? '' : 'none';
				if (match) visible++;
			});

			document.querySelectorAll('[data-repo-group]').forEach(function(group) {
				const key = group.dataset.repoGroup;
				const open = group.querySelectorAll('[data-match="true"][data-state="open"]').length;
				const closed = group.querySelectorAll('[data-match="true"][data-state="closed"]').length;
				group.style.display = open + closed > 0 ? '' : 'none';
				group.querySelectorAll('.count.open').forEach(function(el) { el.textContent = open + ' open'; });
				group.querySelectorAll('.count.closed').forEach(function(el) { el.textContent = closed + ' closed'; });
				group.querySelectorAll('.count.total').forEach(function(el) { el.textContent = (open + closed) + ' total'; });

				const isCollapsed = collapsed.includes(key);
				const list = group.querySelector('.repo-issues');
				if (list) list.style.display = isCollapsed ? 'none' : '';
				const toggle = group.querySelector('.toggle');
				if (toggle) {
					toggle.textContent = isCollapsed ? '▸' : '▾';
					toggle.title = (isCollapsed ? 'Expand ' : 'Collapse ') + key;
					toggle.setAttribute('aria-expanded', String(!isCollapsed));
				}
			});

			const results = document.getElementById('issuesContainer');
			const noResults = document.getElementById('noResults');
			if (results && noResults) {
				results.style.display = visible > 0 ? '' : 'none';
				noResults.style.display = visible > 0 ? 'none' : 'block';
			}

			document.querySelectorAll('a[data-view]').forEach(function(link) {
				const base = link.getAttribute('href').split('?')[0];
				const filter = link.dataset.filter || state;
				const keys = link.dataset.toggle ? toggled(link.dataset.toggle) : collapsed;
				link.setAttribute('href', base + query(filter, keys));
			});
			document.querySelectorAll('.filter-btn').forEach(function(btn) {
				btn.classList.toggle('active', btn.dataset.filter === state);
			});

			const form = document.getElementById('searchBar');
			if (form) {
				form.querySelectorAll('input[type="hidden"]').forEach(function(el) { el.remove(); });
				const hidden = { state: state === 'all' ? '' : state, collapsed: collapsed.slice().sort().join(',') };
				Object.keys(hidden).forEach(function(name) {
					if (!hidden[name]) return;
					const input = document.createElement('input');
					input.type = 'hidden';
					input.name = name;
					input.value = hidden[name];
					form.appendChild(input);
				});
			}
			const input = document.getElementById('searchInput');
			if (input) input.value = params.get('q') || '';
		})();
	</script>`
}

// htmlFooter returns the common HTML footer with the issue count and scripts.
func htmlFooter(issueCount int, static bool) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`
		<div class="footer">Archive of <span id="footerCount">%d</span> issues</div>
	</div>
`, issueCount))
	sb.WriteString(themeToggleScript())
	if static {
		sb.WriteString(viewStateScript())
	}
	sb.WriteString(`
</body>
</html>`)
	return sb.String()
}

// buildNavigation returns the common navigation bar HTML. Links carry the
// current view state so switching presentation keeps filter and search.
func buildNavigation(home, list, grouped string) string {
	return fmt.Sprintf(`<div class="nav">
			<a data-view href="%s">Repositories</a>
			<a data-view href="%s">All Issues</a>
			<a data-view href="%s">Grouped</a>
			<button class="theme-toggle" onclick="toggleTheme()" aria-label="Toggle theme">🌙 Dark Mode</button>
		</div>`, escapeHTML(home), escapeHTML(list), escapeHTML(grouped))
}

// escapeHTML escapes special HTML characters to prevent XSS.
func escapeHTML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(s)
}

// externalLink creates a safe external link opened in a new browsing context.
func externalLink(url, text string) string {
	return fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener noreferrer">%s</a>`,
		escapeHTML(safeURL(url)), escapeHTML(text))
}

// safeURL passes http(s) URLs through and replaces anything else with "#".
func safeURL(url string) string {
	lower := strings.ToLower(strings.TrimSpace(url))
	if strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://") {
		return url
	}
	return "#"
}
