package suncalc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyfolio/ambience/internal/domain"
)

func TestSunTimes(t *testing.T) {
	cal := New()
	mumbai := domain.Location{Lat: 19.0760, Lon: 72.8777}
	date := time.Date(2024, 4, 26, 10, 0, 0, 0, time.UTC)

	rise, set := cal.SunTimes(date, mumbai)

	require.False(t, rise.IsZero())
	require.False(t, set.IsZero())
	assert.True(t, rise.Before(set))
	assert.Equal(t, date.Day(), rise.UTC().Day())

	// Roughly twelve hours of daylight near the equator in late April.
	daylight := set.Sub(rise)
	assert.Greater(t, daylight, 11*time.Hour)
	assert.Less(t, daylight, 14*time.Hour)
}

func TestSunTimes_TimeOfDayIgnored(t *testing.T) {
	cal := New()
	loc := domain.Location{Lat: 51.5074, Lon: -0.1278}

	morning, _ := cal.SunTimes(time.Date(2024, 4, 26, 1, 0, 0, 0, time.UTC), loc)
	evening, _ := cal.SunTimes(time.Date(2024, 4, 26, 23, 0, 0, 0, time.UTC), loc)

	assert.Equal(t, morning, evening)
}
