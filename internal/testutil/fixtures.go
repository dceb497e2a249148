package testutil

import (
	"github.com/snowoball/statusrota/internal/domain"
)

// Status options
type StatusOption func(*domain.Status)

func WithEmoji(e string) StatusOption {
	return func(s *domain.Status) {
		s.Emoji = e
	}
}

func WithTags(tags ...string) StatusOption {
	return func(s *domain.Status) {
		s.Tags = append([]string{}, tags...)
	}
}

func NewTestStatus(id domain.StatusID, text string, opts ...StatusOption) domain.Status {
	s := domain.Status{
		ID:   id,
		Text: text,
		Tags: []string{},
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// ScenarioCatalog is the three-status catalog used across editor tests:
// A tagged morning, B tagged morning and fun, C untagged.
func ScenarioCatalog() []domain.Status {
	return []domain.Status{
		NewTestStatus("1", "A", WithEmoji("🌅"), WithTags("morning")),
		NewTestStatus("2", "B", WithEmoji("🎉"), WithTags("morning", "fun")),
		NewTestStatus("3", "C", WithEmoji("📚")),
	}
}

// Preset options
type PresetOption func(*domain.Preset)

func WithRules(rules ...domain.Rule) PresetOption {
	return func(p *domain.Preset) {
		p.Statuses = make([]domain.Rule, len(rules))
		for i, r := range rules {
			r = r.Clone()
			r.Sequence = i
			p.Statuses[i] = r
		}
	}
}

func NewTestPreset(id int, name string, opts ...PresetOption) domain.Preset {
	p := domain.Preset{
		ID:       id,
		Name:     name,
		Statuses: []domain.Rule{},
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func StaticRule(id domain.StatusID) domain.Rule {
	return domain.Rule{Selection: domain.Static{ID: id}}
}

func RandomRule(tag string, ids ...domain.StatusID) domain.Rule {
	return domain.Rule{TagFilter: tag, Selection: domain.Random{IDs: append([]domain.StatusID{}, ids...)}}
}

func NoneRule() domain.Rule {
	return domain.NewRule(domain.RuleNone)
}

// Settings options
type SettingsOption func(*domain.Settings)

func WithActive(active bool) SettingsOption {
	return func(s *domain.Settings) {
		s.Active = active
	}
}

func WithLocation(lat, lon float64) SettingsOption {
	return func(s *domain.Settings) {
		s.Location = []domain.Location{{Latitude: lat, Longitude: lon}}
	}
}

func NewTestSettings(presetID, intervalSeconds int, opts ...SettingsOption) domain.Settings {
	s := domain.Settings{
		Active:          true,
		PresetID:        presetID,
		IntervalSeconds: intervalSeconds,
		Location:        []domain.Location{},
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
