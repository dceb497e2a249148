package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/snowoball/statusrota/internal/domain"
)

// FormatRule renders one rule as "type [tag] → status, status".
func FormatRule(r domain.Rule, catalog []domain.Status) string {
	var b strings.Builder
	b.WriteString(RuleTypeStyle(r.Type()).Render(string(r.Type())))
	if r.TagFilter != "" {
		b.WriteString(" " + StyleYellow.Render("#"+r.TagFilter))
	}

	ids := r.Candidates()
	if r.Type() == domain.RuleNone {
		return b.String()
	}
	if len(ids) == 0 {
		b.WriteString(" " + Dim("→ nothing selected"))
		return b.String()
	}
	labels := make([]string, len(ids))
	for i, id := range ids {
		if s, ok := domain.FindStatus(catalog, id); ok {
			labels[i] = StatusLabel(s, 24)
		} else {
			labels[i] = StyleRed.Render("#" + string(id) + " (missing)")
		}
	}
	b.WriteString(" → " + strings.Join(labels, ", "))
	return b.String()
}

// FormatPresetList renders the preset collection as a table. The preset
// selected by the settings record is marked.
func FormatPresetList(presets []domain.Preset, activeID int) string {
	if len(presets) == 0 {
		return Dim("No presets.") + "\n"
	}
	rows := make([][]string, len(presets))
	for i, p := range presets {
		marker := " "
		if p.ID == activeID {
			marker = StyleGreen.Render("●")
		}
		name := p.Name
		if name == "" {
			name = Dim("(unnamed)")
		}
		rows[i] = []string{marker, strconv.Itoa(p.ID), name, strconv.Itoa(len(p.Statuses))}
	}
	return RenderTable([]string{" ", "ID", "NAME", "RULES"}, rows)
}

// FormatPreset renders one preset with its rules in sequence order.
func FormatPreset(p domain.Preset, catalog []domain.Status) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("Preset %d: %s", p.ID, p.Name)) + "\n")
	if len(p.Statuses) == 0 {
		b.WriteString(Dim("No rules.") + "\n")
		return b.String()
	}
	for i, r := range p.Statuses {
		fmt.Fprintf(&b, "%s %s\n", Dim(fmt.Sprintf("%2d.", i+1)), FormatRule(r, catalog))
	}
	return b.String()
}

// FormatStatusList renders the status catalog as a table.
func FormatStatusList(statuses []domain.Status) string {
	if len(statuses) == 0 {
		return Dim("No statuses.") + "\n"
	}
	rows := make([][]string, len(statuses))
	for i, s := range statuses {
		rows[i] = []string{string(s.ID), s.Emoji, s.Text, FormatTags(s.Tags)}
	}
	return RenderTable([]string{"ID", "EMOJI", "TEXT", "TAGS"}, rows)
}

// FormatSettings renders the settings card. ok is false when no settings
// record is stored.
func FormatSettings(s domain.Settings, ok bool, presets []domain.Preset) string {
	if !ok {
		return RenderBox("Settings", Dim("No settings stored yet."))
	}

	var preset string
	switch i := domain.FindPreset(presets, s.PresetID); {
	case i >= 0:
		preset = fmt.Sprintf("%d %s", s.PresetID, Bold(presets[i].Name))
	case s.PresetID == 0:
		preset = Dim("none")
	default:
		preset = StyleRed.Render(fmt.Sprintf("%d (missing)", s.PresetID))
	}

	lines := []string{
		"State     " + ActiveIndicator(s.Active),
		"Preset    " + preset,
		"Interval  " + fmt.Sprintf("%ds", s.IntervalSeconds),
		"Location  " + FormatLocation(s.Location),
	}
	return RenderBox("Settings", strings.Join(lines, "\n"))
}
