package rotator

import (
	"time"

	"github.com/nathan-osman/go-sunrise"
	"github.com/snowoball/statusrota/internal/domain"
)

// DayPhase names the part of the day shown by {{time_emoji}} and
// {{time_text}}.
type DayPhase struct {
	Emoji string
	Text  string
}

var (
	PhaseNight   = DayPhase{Emoji: "🌙", Text: "Night"}
	PhaseMorning = DayPhase{Emoji: "🌅", Text: "Morning"}
	PhaseDay     = DayPhase{Emoji: "☀️", Text: "Day"}
	PhaseEvening = DayPhase{Emoji: "🌇", Text: "Evening"}
)

// PhaseAt classifies now against the day's sunrise and sunset. Morning runs
// from sunrise to 09:00, day until 18:00, evening until sunset; everything
// else is night.
func PhaseAt(now, rise, set time.Time) DayPhase {
	morningEnd := time.Date(now.Year(), now.Month(), now.Day(), 9, 0, 0, 0, now.Location())
	eveningStart := time.Date(now.Year(), now.Month(), now.Day(), 18, 0, 0, 0, now.Location())

	switch {
	case now.Before(rise):
		return PhaseNight
	case now.Before(morningEnd):
		return PhaseMorning
	case now.Before(eveningStart):
		return PhaseDay
	case now.Before(set):
		return PhaseEvening
	default:
		return PhaseNight
	}
}

// PhaseFor computes sunrise and sunset at loc for now's date.
func PhaseFor(now time.Time, loc domain.Location) DayPhase {
	rise, set := sunrise.SunriseSunset(loc.Latitude, loc.Longitude, now.Year(), now.Month(), now.Day())
	return PhaseAt(now, rise, set)
}
