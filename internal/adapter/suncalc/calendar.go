// Package suncalc implements domain.SolarCalendar on top of the go-sunrise
// astronomical library. It is the only place solar-position math enters the
// service; everything downstream works with plain sunrise/sunset instants.
package suncalc

import (
	"time"

	"github.com/nathan-osman/go-sunrise"

	"github.com/skyfolio/ambience/internal/domain"
)

// Calendar computes sunrise and sunset from solar position math. It is
// stateless and safe for concurrent use.
type Calendar struct{}

// New creates a Calendar.
func New() Calendar { return Calendar{} }

// SunTimes returns UTC sunrise and sunset for the calendar day containing
// date at loc. Polar day/night dates yield zero times; the celestial arc math
// treats those like any other degenerate interval.
func (Calendar) SunTimes(date time.Time, loc domain.Location) (time.Time, time.Time) {
	y, m, d := date.UTC().Date()
	return sunrise.SunriseSunset(loc.Lat, loc.Lon, y, m, d)
}
