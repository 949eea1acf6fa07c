package domain

import (
	"fmt"
	"math"
)

// WeatherPick is the resolved decorative weather consumed by the presentation
// layers. "fall" is not a meteorological state: it forces the falling-leaves
// overlay during autumn.
type WeatherPick string

const (
	PickRain   WeatherPick = "rain"
	PickSnow   WeatherPick = "snow"
	PickClouds WeatherPick = "clouds"
	PickFall   WeatherPick = "fall"
	PickClear  WeatherPick = "clear"
)

// TimeOfDay is the coarse binary collapse of TimePhase used by layers that
// only care about light vs dark.
type TimeOfDay string

const (
	TimeDay   TimeOfDay = "day"
	TimeNight TimeOfDay = "night"
)

// Overrides are the debug-panel knobs. Nil fields mean "auto".
type Overrides struct {
	Hour    *float64     `json:"hour,omitempty"` // 0.00–23.99, quarter-hour steps
	Weather *WeatherPick `json:"weather,omitempty"`
}

const (
	// precipitationChance escalates a plain "clouds" reading to rain or snow.
	precipitationChance = 0.6
	// leafChance shows falling leaves on an otherwise clear scene.
	leafChance = 0.4
)

// EffectiveScene is the single resolved snapshot all decorative layers agree
// on. The boolean flags are pure functions of WeatherPick (plus the session
// seed for leaves) so layers never re-derive them inconsistently.
type EffectiveScene struct {
	TimeOfDay   TimeOfDay   `json:"time_of_day"`
	WeatherPick WeatherPick `json:"weather_pick"`
	ShowClouds  bool        `json:"show_clouds"`
	ShowRain    bool        `json:"show_rain"`
	ShowSnow    bool        `json:"show_snow"`
	ShowLeaves  bool        `json:"show_leaves"`
}

// ResolveScene combines celestial state, the possibly-nil weather snapshot,
// the independently derived season, manual overrides, and the session seed
// into the scene every layer renders. The same seed must be passed for the
// whole session; re-rolling would make the weather flicker between renders.
func ResolveScene(celestial CelestialState, weather *WeatherSnapshot, season Season, ov Overrides, seed float64) EffectiveScene {
	pick := resolvePick(weather, season, ov, seed)

	tod := TimeNight
	if IsDaytime(celestial.Phase) {
		tod = TimeDay
	}

	return EffectiveScene{
		TimeOfDay:   tod,
		WeatherPick: pick,
		ShowClouds:  pick == PickClouds || pick == PickRain || pick == PickSnow,
		ShowRain:    pick == PickRain,
		ShowSnow:    pick == PickSnow,
		ShowLeaves:  pick == PickFall || (pick == PickClear && seed < leafChance),
	}
}

// resolvePick applies the precedence chain: manual override, then autumn,
// then live weather with the clouds→precipitation escalation, then clear.
func resolvePick(weather *WeatherSnapshot, season Season, ov Overrides, seed float64) WeatherPick {
	if ov.Weather != nil {
		return *ov.Weather
	}
	if season == SeasonAutumn {
		return PickFall
	}

	kind := KindClear
	if weather != nil {
		kind = weather.Kind
	}

	switch kind {
	case KindClouds:
		if seed < precipitationChance {
			if season == SeasonWinter {
				return PickSnow
			}
			return PickRain
		}
		return PickClouds
	case KindRain:
		return PickRain
	case KindSnow:
		return PickSnow
	default:
		return PickClear
	}
}

// ParsePick validates a manual weather pick coming from the control panel.
func ParsePick(s string) (WeatherPick, error) {
	switch p := WeatherPick(s); p {
	case PickRain, PickSnow, PickClouds, PickFall, PickClear:
		return p, nil
	default:
		return "", fmt.Errorf("unknown weather pick %q", s)
	}
}

// QuantizeHour snaps a manual hour to the panel's quarter-hour steps.
// Returns false when the value is outside [0, 24).
func QuantizeHour(h float64) (float64, bool) {
	if h < 0 || h >= 24 || math.IsNaN(h) {
		return 0, false
	}
	q := math.Round(h*4) / 4
	if q >= 24 {
		q = 23.75
	}
	return q, true
}
