package domain

import (
	"strings"
	"time"
)

// WeatherKind is the simplified four-way weather grouping.
type WeatherKind string

const (
	KindClear  WeatherKind = "clear"
	KindClouds WeatherKind = "clouds"
	KindRain   WeatherKind = "rain"
	KindSnow   WeatherKind = "snow"
)

// Season names a quarter of the year. Boundaries follow the Northern
// hemisphere regardless of the observer's latitude.
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

// WeatherSnapshot is the session's view of live weather. It is fetched at most
// once per session and cached in memory; a nil snapshot means the fetch never
// succeeded and the scene degrades to clear skies.
type WeatherSnapshot struct {
	Kind   WeatherKind `json:"kind"`
	TempC  float64     `json:"temp_c"`
	Season Season      `json:"season"`
}

// ClassifyCondition maps a provider's free-text condition into a WeatherKind.
// Substring priority: snow beats rain/drizzle beats clouds beats clear, so a
// string like "light rain and clouds" resolves to rain.
func ClassifyCondition(condition string) WeatherKind {
	c := strings.ToLower(condition)
	switch {
	case strings.Contains(c, "snow"):
		return KindSnow
	case strings.Contains(c, "rain"), strings.Contains(c, "drizzle"):
		return KindRain
	case strings.Contains(c, "cloud"):
		return KindClouds
	default:
		return KindClear
	}
}

// SeasonOf buckets a calendar month into a season: Dec–Feb winter, Mar–May
// spring, Jun–Aug summer, Sep–Nov autumn.
func SeasonOf(m time.Month) Season {
	switch {
	case m == time.December || m <= time.February:
		return SeasonWinter
	case m <= time.May:
		return SeasonSpring
	case m <= time.August:
		return SeasonSummer
	default:
		return SeasonAutumn
	}
}

// CurrentSeason derives the season from the package clock. Season is
// intentionally decoupled from the weather payload so the autumn path works
// even when no snapshot was ever fetched.
func CurrentSeason() Season {
	return SeasonOf(clock.Now().Month())
}
