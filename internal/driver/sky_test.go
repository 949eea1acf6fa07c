package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyfolio/ambience/internal/domain"
)

func TestSky_EveryPhaseHasATheme(t *testing.T) {
	phases := []domain.TimePhase{
		domain.PhaseDawn, domain.PhaseMorning, domain.PhaseDay,
		domain.PhaseAfternoon, domain.PhaseDusk, domain.PhaseNight,
	}

	for _, phase := range phases {
		t.Run(string(phase), func(t *testing.T) {
			theme, ok := skyThemes[phase]
			require.True(t, ok)
			assert.GreaterOrEqual(t, len(theme.gradient), 4)
			assert.NotEmpty(t, theme.glow)
			assert.NotEmpty(t, theme.text)
		})
	}
}

func TestSky_ApplyProducesPhaseFrame(t *testing.T) {
	sky := NewSky()

	changed := sky.Apply(Update{Celestial: domain.CelestialState{
		Phase:       domain.PhaseNight,
		SkyX:        70,
		SkyY:        25,
		StarOpacity: 1,
	}})
	require.True(t, changed)

	frame := sky.Frame()
	assert.Equal(t, domain.PhaseNight, frame.Phase)
	assert.Equal(t, skyThemes[domain.PhaseNight].gradient, frame.Gradient)
	assert.Equal(t, "#F9F5B1", frame.GlowColor)
	assert.Equal(t, 70.0, frame.GlowX)
	assert.Equal(t, 25.0, frame.GlowY)
	assert.Equal(t, 1.0, frame.StarOpacity)
}

func TestSky_RepeatedApplyConverges(t *testing.T) {
	sky := NewSky()
	u := Update{Celestial: domain.CelestialState{Phase: domain.PhaseDay, SkyX: 50, SkyY: 15}}

	assert.True(t, sky.Apply(u))
	assert.False(t, sky.Apply(u))

	u.Celestial.SkyX = 51
	assert.True(t, sky.Apply(u))
}
