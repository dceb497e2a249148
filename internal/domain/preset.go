package domain

import "strconv"

// Preset is a named, ordered sequence of rules.
type Preset struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Statuses []Rule `json:"statuses"`
}

// Clone returns a deep copy of the preset.
func (p Preset) Clone() Preset {
	out := p
	out.Statuses = CloneRules(p.Statuses)
	return out
}

// CloneRules deep-copies a rule list.
func CloneRules(rules []Rule) []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		out[i] = r.Clone()
	}
	return out
}

// PresetKey is the identifier key used when allocating preset ids.
func PresetKey(p Preset) string { return strconv.Itoa(p.ID) }

// StatusKey is the identifier key used when allocating status ids.
func StatusKey(s Status) string { return string(s.ID) }

// FindPreset returns the index of the preset with id, or -1.
func FindPreset(presets []Preset, id int) int {
	for i, p := range presets {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// FindStatus returns the catalog entry with id.
func FindStatus(catalog []Status, id StatusID) (Status, bool) {
	for _, s := range catalog {
		if s.ID == id {
			return s, true
		}
	}
	return Status{}, false
}
