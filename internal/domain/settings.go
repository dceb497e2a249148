package domain

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Settings is the single global rotation record. It is persisted as a
// one-element list.
type Settings struct {
	Active          bool       `json:"active"`
	PresetID        int        `json:"preset_id"`
	IntervalSeconds int        `json:"interval_seconds"`
	Location        []Location `json:"location"`
}

// Coordinates returns the first configured location, or fallback when none
// is set.
func (s Settings) Coordinates(fallback Location) Location {
	if len(s.Location) > 0 {
		return s.Location[0]
	}
	return fallback
}

// CurrentSettings returns the first settings record of a settings collection.
func CurrentSettings(list []Settings) (Settings, bool) {
	if len(list) == 0 {
		return Settings{}, false
	}
	return list[0], true
}
