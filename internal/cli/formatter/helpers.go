package formatter

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/snowoball/statusrota/internal/domain"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// Truncate shortens s to at most width terminal cells, ending in "…" when
// anything was cut. A width below 1 leaves s untouched.
func Truncate(s string, width int) string {
	if width < 1 || lipgloss.Width(s) <= width {
		return s
	}
	return truncate.StringWithTail(s, uint(width), "…")
}

// StatusLabel is the one-line "glyph text" form of a status, truncated to
// width.
func StatusLabel(s domain.Status, width int) string {
	return Truncate(s.Label(), width)
}

// FormatLocation renders the first configured location, or "—".
func FormatLocation(locs []domain.Location) string {
	if len(locs) == 0 {
		return "—"
	}
	return strconv.FormatFloat(locs[0].Latitude, 'f', 4, 64) + ", " +
		strconv.FormatFloat(locs[0].Longitude, 'f', 4, 64)
}

// FormatTags joins tags for display, or "—" when there are none.
func FormatTags(tags []string) string {
	if len(tags) == 0 {
		return "—"
	}
	return strings.Join(tags, ", ")
}
