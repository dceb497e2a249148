package formatter

import (
	"github.com/charmbracelet/glamour"
)

// HelpMarkdown is the key reference shown on the help screen.
const HelpMarkdown = `# statusrota

Edit the presets, statuses and settings the rotator publishes.

## Presets

| Key | Action |
| --- | --- |
| ↑/↓ | move |
| enter, e | edit preset |
| n | new preset |
| d | delete preset |
| y | copy preset JSON |
| c | status catalog |
| s | settings |
| r | reload |

## Preset editor

| Key | Action |
| --- | --- |
| ↑/↓ | move between rules |
| tab, shift+tab | move between fields |
| ←/→ | change the focused field |
| enter | add the chosen status to a random rule, or remove the focused chip |
| a | add rule |
| x | remove rule |
| m | pick up the rule; ↑/↓ choose a target, enter drops, esc aborts |
| ctrl+s | save |
| esc | discard changes |

Rules can also be dragged with the mouse.

## Rule types

- **none** clears the status.
- **static** always shows one status.
- **random** picks one status from its list each time.

A tag filter narrows the statuses offered for a rule.

## Variables

Status text and emoji may contain ` + "`{{time_emoji}}`, `{{time_text}}`, `{{timestamp_text}}`, `{{weather_emoji}}` and `{{weather_text}}`" + `.
`

// RenderMarkdown renders markdown for a terminal of the given width. On
// renderer failure the markdown is returned as is.
func RenderMarkdown(markdown string, width int) string {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return markdown
	}
	out, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}
