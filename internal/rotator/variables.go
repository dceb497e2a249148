package rotator

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/snowoball/statusrota/internal/domain"
)

// Variables fills the {{...}} placeholders of a status.
type Variables struct {
	now      func() time.Time
	weather  WeatherSource
	fallback domain.Location
	logger   *slog.Logger
}

func NewVariables(weather WeatherSource, fallback domain.Location, logger *slog.Logger) *Variables {
	if logger == nil {
		logger = slog.Default()
	}
	return &Variables{
		now:      time.Now,
		weather:  weather,
		fallback: fallback,
		logger:   logger,
	}
}

// Values computes every placeholder for settings' location at the current
// time. Weather failures degrade to WeatherUnavailable.
func (v *Variables) Values(ctx context.Context, settings domain.Settings) map[string]string {
	loc := settings.Coordinates(v.fallback)
	now := v.now()
	phase := PhaseFor(now, loc)

	weather := WeatherUnavailable
	if v.weather != nil {
		w, err := v.weather.Current(ctx, loc)
		if err != nil {
			v.logger.Warn("weather_unavailable", "error", err)
		} else {
			weather = w
		}
	}

	return map[string]string{
		"{{time_emoji}}":     phase.Emoji,
		"{{time_text}}":      phase.Text,
		"{{timestamp_text}}": now.Format("03:04 PM"),
		"{{weather_emoji}}":  weather.Emoji,
		"{{weather_text}}":   weather.Text,
	}
}

// Expand substitutes values into both fields of u.
func Expand(u Update, values map[string]string) Update {
	if !needsValues(u) {
		return u
	}
	for key, val := range values {
		u.Emoji = strings.ReplaceAll(u.Emoji, key, val)
		u.Text = strings.ReplaceAll(u.Text, key, val)
	}
	return u
}

// needsValues reports whether u contains any placeholder.
func needsValues(u Update) bool {
	return strings.Contains(u.Emoji, "{{") || strings.Contains(u.Text, "{{")
}
