package dashboard

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/vilaca/issue-archive/internal/domain"
)

// DefaultLabelColor is used when a label has no color or a malformed one.
const DefaultLabelColor = "666666"

const (
	iconOpen   = `<svg viewBox="0 0 16 16" width="16" height="16" aria-hidden="true"><path d="M8 9.5a1.5 1.5 0 1 0 0-3 1.5 1.5 0 0 0 0 3Z"></path><path d="M8 0a8 8 0 1 1 0 16A8 8 0 0 1 8 0ZM1.5 8a6.5 6.5 0 1 0 13 0 6.5 6.5 0 0 0-13 0Z"></path></svg>`
	iconClosed = `<svg viewBox="0 0 16 16" width="16" height="16" aria-hidden="true"><path d="M11.28 6.78a.75.75 0 0 0-1.06-1.06L7.25 8.69 5.78 7.22a.75.75 0 0 0-1.06 1.06l2 2a.75.75 0 0 0 1.06 0l3.5-3.5Z"></path><path d="M16 8A8 8 0 1 1 0 8a8 8 0 0 1 16 0Zm-1.5 0a6.5 6.5 0 1 0-13 0 6.5 6.5 0 0 0 13 0Z"></path></svg>`

	noDescription = "No description provided."
)

var (
	hexColor   = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)
	inlineCode = regexp.MustCompile("`([^`]+)`")
)

// stateIcon returns the glyph for an issue state. Anything but closed
// shows the open glyph.
func stateIcon(state domain.State) string {
	if state == domain.StateClosed {
		return fmt.Sprintf(`<span class="state-icon state-closed" title="closed">%s</span>`, iconClosed)
	}
	return fmt.Sprintf(`<span class="state-icon state-open" title="open">%s</span>`, iconOpen)
}

// labelColor normalizes a label color to six hex digits.
func labelColor(color string) string {
	color = strings.TrimPrefix(strings.TrimSpace(color), "#")
	if !hexColor.MatchString(color) {
		return DefaultLabelColor
	}
	return color
}

// luma returns the BT.601 perceived brightness (0-255) of a hex color.
func luma(color string) float64 {
	color = labelColor(color)
	r, _ := strconv.ParseUint(color[0:2], 16, 8)
	g, _ := strconv.ParseUint(color[2:4], 16, 8)
	b, _ := strconv.ParseUint(color[4:6], 16, 8)
	return float64(r*299+g*587+b*114) / 1000
}

// labelTextColor picks black text on bright chips and white on dark ones.
func labelTextColor(color string) string {
	if luma(color) > 128 {
		return "#000"
	}
	return "#fff"
}

// writeLabel writes a single label chip.
func writeLabel(sb *strings.Builder, label domain.Label) {
	color := labelColor(label.Color)
	sb.WriteString(fmt.Sprintf(`<span class="label" style="background-color: #%s; color: %s;">%s</span>`,
		color, labelTextColor(color), escapeHTML(label.Name)))
}

// writeLabels writes the label row, or nothing for unlabeled issues.
func writeLabels(sb *strings.Builder, labels []domain.Label) {
	if len(labels) == 0 {
		return
	}
	sb.WriteString(`
				<div class="labels">`)
	for _, label := range labels {
		writeLabel(sb, label)
	}
	sb.WriteString(`</div>`)
}

// formatDate renders a timestamp as "Jan 2, 2006".
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "unknown date"
	}
	return t.Format("Jan 2, 2006")
}

// formatTimeAgo renders a timestamp relative to now ("3 days ago").
func formatTimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// formatBody renders an issue body for the detail view: the text is
// escaped, `code` spans become <code> and line breaks become <br>.
// Nothing else is interpreted.
func formatBody(body *string) string {
	if body == nil || strings.TrimSpace(*body) == "" {
		return `<p class="no-body">` + noDescription + `</p>`
	}
	text := escapeHTML(*body)
	text = inlineCode.ReplaceAllString(text, "<code>$1</code>")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\n", "<br>")
}
