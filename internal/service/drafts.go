package service

import (
	"strconv"
	"strings"

	"github.com/snowoball/statusrota/internal/domain"
)

// StatusDraft is the raw form input for a status.
type StatusDraft struct {
	Emoji string
	Text  string
	Tags  string // comma separated
}

// DraftFromStatus fills a draft from an existing status.
func DraftFromStatus(s domain.Status) StatusDraft {
	return StatusDraft{
		Emoji: s.Emoji,
		Text:  s.Text,
		Tags:  strings.Join(s.Tags, ", "),
	}
}

// SettingsDraft is the raw form input for the settings record. Numeric
// fields that do not parse become 0.
type SettingsDraft struct {
	Active    bool
	PresetID  string
	Interval  string
	Latitude  string
	Longitude string
}

// DraftFromSettings fills a draft from stored settings.
func DraftFromSettings(s domain.Settings) SettingsDraft {
	d := SettingsDraft{
		Active:   s.Active,
		PresetID: strconv.Itoa(s.PresetID),
		Interval: strconv.Itoa(s.IntervalSeconds),
	}
	if len(s.Location) > 0 {
		d.Latitude = strconv.FormatFloat(s.Location[0].Latitude, 'f', -1, 64)
		d.Longitude = strconv.FormatFloat(s.Location[0].Longitude, 'f', -1, 64)
	}
	return d
}

// Settings converts the draft. The location is always a one-element list.
func (d SettingsDraft) Settings() domain.Settings {
	return domain.Settings{
		Active:          d.Active,
		PresetID:        intOrZero(d.PresetID),
		IntervalSeconds: intOrZero(d.Interval),
		Location: []domain.Location{{
			Latitude:  floatOrZero(d.Latitude),
			Longitude: floatOrZero(d.Longitude),
		}},
	}
}

func intOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func floatOrZero(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
