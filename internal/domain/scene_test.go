package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pick(p WeatherPick) *WeatherPick { return &p }

var dayCelestial = CelestialState{Phase: PhaseDay, ArcProgress: 0.5, SkyX: 50, SkyY: 15}

func TestResolveScene_Precedence(t *testing.T) {
	cloudyAutumn := &WeatherSnapshot{Kind: KindClouds, TempC: 14, Season: SeasonAutumn}

	t.Run("autumn forces fall", func(t *testing.T) {
		scene := ResolveScene(dayCelestial, cloudyAutumn, SeasonAutumn, Overrides{}, 0.9)
		assert.Equal(t, PickFall, scene.WeatherPick)
		assert.True(t, scene.ShowLeaves)
	})

	t.Run("manual override beats season and live weather", func(t *testing.T) {
		scene := ResolveScene(dayCelestial, cloudyAutumn, SeasonAutumn, Overrides{Weather: pick(PickRain)}, 0.9)
		assert.Equal(t, PickRain, scene.WeatherPick)

		scene = ResolveScene(dayCelestial, cloudyAutumn, SeasonAutumn, Overrides{Weather: pick(PickClear)}, 0.9)
		assert.Equal(t, PickClear, scene.WeatherPick)
	})
}

func TestResolveScene_CloudEscalation(t *testing.T) {
	clouds := &WeatherSnapshot{Kind: KindClouds, TempC: 5}

	t.Run("low seed escalates to rain", func(t *testing.T) {
		scene := ResolveScene(dayCelestial, clouds, SeasonSummer, Overrides{}, 0.3)
		assert.Equal(t, PickRain, scene.WeatherPick)
		assert.True(t, scene.ShowClouds)
		assert.True(t, scene.ShowRain)
	})

	t.Run("low seed in winter escalates to snow", func(t *testing.T) {
		scene := ResolveScene(dayCelestial, clouds, SeasonWinter, Overrides{}, 0.3)
		assert.Equal(t, PickSnow, scene.WeatherPick)
		assert.True(t, scene.ShowSnow)
		assert.False(t, scene.ShowRain)
	})

	t.Run("high seed stays cloudy", func(t *testing.T) {
		scene := ResolveScene(dayCelestial, clouds, SeasonSummer, Overrides{}, 0.7)
		assert.Equal(t, PickClouds, scene.WeatherPick)
		assert.True(t, scene.ShowClouds)
		assert.False(t, scene.ShowRain)
	})
}

func TestResolveScene_NilWeatherFallsBackToClear(t *testing.T) {
	scene := ResolveScene(dayCelestial, nil, SeasonSummer, Overrides{}, 0.9)

	assert.Equal(t, PickClear, scene.WeatherPick)
	assert.False(t, scene.ShowClouds)
	assert.False(t, scene.ShowRain)
	assert.False(t, scene.ShowSnow)
	assert.False(t, scene.ShowLeaves)

	// Season is sourced from the calendar, not the payload, so autumn still
	// forces fall with no snapshot at all.
	scene = ResolveScene(dayCelestial, nil, SeasonAutumn, Overrides{}, 0.9)
	assert.Equal(t, PickFall, scene.WeatherPick)
	assert.True(t, scene.ShowLeaves)
}

func TestResolveScene_LeafChance(t *testing.T) {
	t.Run("low seed shows leaves on clear", func(t *testing.T) {
		scene := ResolveScene(dayCelestial, nil, SeasonSummer, Overrides{}, 0.2)
		assert.Equal(t, PickClear, scene.WeatherPick)
		assert.True(t, scene.ShowLeaves)
	})

	t.Run("no leaves while precipitating", func(t *testing.T) {
		rain := &WeatherSnapshot{Kind: KindRain}
		scene := ResolveScene(dayCelestial, rain, SeasonSummer, Overrides{}, 0.2)
		assert.Equal(t, PickRain, scene.WeatherPick)
		assert.False(t, scene.ShowLeaves)
	})
}

func TestResolveScene_StableForSameSeed(t *testing.T) {
	clouds := &WeatherSnapshot{Kind: KindClouds, TempC: 9}

	first := ResolveScene(dayCelestial, clouds, SeasonSpring, Overrides{}, 0.59)
	second := ResolveScene(dayCelestial, clouds, SeasonSpring, Overrides{}, 0.59)

	require.Empty(t, cmp.Diff(first, second))
}

func TestResolveScene_TimeOfDay(t *testing.T) {
	tests := []struct {
		phase TimePhase
		want  TimeOfDay
	}{
		{PhaseDawn, TimeDay},
		{PhaseMorning, TimeDay},
		{PhaseDay, TimeDay},
		{PhaseAfternoon, TimeDay},
		{PhaseDusk, TimeNight},
		{PhaseNight, TimeNight},
	}

	for _, tc := range tests {
		t.Run(string(tc.phase), func(t *testing.T) {
			scene := ResolveScene(CelestialState{Phase: tc.phase}, nil, SeasonSummer, Overrides{}, 0.9)
			assert.Equal(t, tc.want, scene.TimeOfDay)
		})
	}
}

func TestParsePick(t *testing.T) {
	for _, s := range []string{"rain", "snow", "clouds", "fall", "clear"} {
		p, err := ParsePick(s)
		require.NoError(t, err)
		assert.Equal(t, WeatherPick(s), p)
	}

	_, err := ParsePick("hurricane")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown weather pick")
}

func TestQuantizeHour(t *testing.T) {
	tests := []struct {
		in   float64
		out  float64
		ok   bool
		name string
	}{
		{12.13, 12.25, true, "snaps up to quarter"},
		{12.1, 12.0, true, "snaps down to hour"},
		{0, 0, true, "lower bound"},
		{23.99, 23.75, true, "upper bound clamps to last step"},
		{-0.5, 0, false, "negative rejected"},
		{24, 0, false, "24 rejected"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := QuantizeHour(tc.in)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.out, got)
			}
		})
	}
}
