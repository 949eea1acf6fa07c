package domain

import (
	"math"
	"time"
)

// TimePhase names one of the six segments of a solar day.
type TimePhase string

const (
	PhaseDawn      TimePhase = "dawn"
	PhaseMorning   TimePhase = "morning"
	PhaseDay       TimePhase = "day"
	PhaseAfternoon TimePhase = "afternoon"
	PhaseDusk      TimePhase = "dusk"
	PhaseNight     TimePhase = "night"
)

// Location is a WGS-84 latitude/longitude coordinate pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// SolarCalendar reports sunrise and sunset for the calendar day containing
// date, at the given location. Implementations are pure calendar math and
// never fail; polar dates may return zero times, which the calculator treats
// like any other degenerate band geometry.
type SolarCalendar interface {
	SunTimes(date time.Time, loc Location) (sunrise, sunset time.Time)
}

const (
	// transitionPad is the half-width of the dawn and dusk windows.
	transitionPad = time.Hour
	// shoulderWidth bounds the morning and afternoon bands on either side of
	// the day band.
	shoulderWidth = 3 * time.Hour
)

// Arc geometry: the glow's vertical position is base − sin(p·π)·amplitude.
// The night arc sits lower and dips deeper to suggest a different body.
const (
	dayArcBase        = 60.0
	dayArcAmplitude   = 45.0
	nightArcBase      = 70.0
	nightArcAmplitude = 50.0
)

// CelestialState describes the sky for a single instant. It is immutable and
// recomputed wholesale on every tick.
type CelestialState struct {
	Phase       TimePhase `json:"phase"`
	ArcProgress float64   `json:"arc_progress"` // [0,1] along the active arc
	SkyX        float64   `json:"sky_x"`        // 0–100, viewport-relative
	SkyY        float64   `json:"sky_y"`
	StarOpacity float64   `json:"star_opacity"` // [0,1]
}

// ComputeCelestial classifies instant into exactly one phase and positions the
// glow disc along the active arc. It consults the calendar for yesterday,
// today, and tomorrow so the night arc can span midnight without resetting.
func ComputeCelestial(instant time.Time, loc Location, cal SolarCalendar) CelestialState {
	sunrise, sunset := cal.SunTimes(instant, loc)
	_, prevSunset := cal.SunTimes(instant.AddDate(0, 0, -1), loc)
	nextSunrise, _ := cal.SunTimes(instant.AddDate(0, 0, 1), loc)

	dawnStart := sunrise.Add(-transitionPad)
	dawnEnd := sunrise.Add(transitionPad)
	duskStart := sunset.Add(-transitionPad)
	duskEnd := sunset.Add(transitionPad)

	// Band order matters: the first match wins. With less than 6h of daylight
	// the three middle bands degenerate; documented limitation, not corrected.
	phase := PhaseNight
	stars := 1.0
	switch {
	case !instant.Before(dawnStart) && instant.Before(dawnEnd):
		phase = PhaseDawn
		stars = 1 - fraction(instant, dawnStart, dawnEnd)
	case !instant.Before(dawnEnd) && instant.Before(sunrise.Add(shoulderWidth)):
		phase = PhaseMorning
		stars = 0
	case !instant.Before(sunrise.Add(shoulderWidth)) && instant.Before(sunset.Add(-shoulderWidth)):
		phase = PhaseDay
		stars = 0
	case !instant.Before(sunset.Add(-shoulderWidth)) && instant.Before(duskStart):
		phase = PhaseAfternoon
		stars = 0
	case !instant.Before(duskStart) && instant.Before(duskEnd):
		phase = PhaseDusk
		stars = fraction(instant, duskStart, duskEnd)
	}

	var arcStart, arcEnd time.Time
	if phase == PhaseNight {
		// Pick the branch on the correct side of tonight's duskEnd so the arc
		// is continuous across midnight.
		if !instant.Before(duskEnd) {
			arcStart = duskEnd
			arcEnd = nextSunrise.Add(-transitionPad)
		} else {
			arcStart = prevSunset.Add(transitionPad)
			arcEnd = dawnStart
		}
	} else {
		arcStart = sunrise
		arcEnd = sunset
	}

	p := clamp01(fraction(instant, arcStart, arcEnd))

	base, amp := dayArcBase, dayArcAmplitude
	if phase == PhaseNight {
		base, amp = nightArcBase, nightArcAmplitude
	}

	return CelestialState{
		Phase:       phase,
		ArcProgress: p,
		SkyX:        p * 100,
		SkyY:        base - math.Sin(p*math.Pi)*amp,
		StarOpacity: clamp01(stars),
	}
}

// IsDaytime is the single canonical day/night policy: everything before the
// dusk window counts as day. Presentation layers must not invent their own
// hour-of-day threshold.
func IsDaytime(p TimePhase) bool {
	return p != PhaseDusk && p != PhaseNight
}

// fraction returns t's position in [start, end) as a ratio, 0 when the
// interval is degenerate.
func fraction(t, start, end time.Time) float64 {
	total := end.Sub(start)
	if total <= 0 {
		return 0
	}
	return float64(t.Sub(start)) / float64(total)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
