package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skyfolio/ambience/internal/domain"
)

func TestParticles_LayerFlags(t *testing.T) {
	tests := []struct {
		name  string
		scene domain.EffectiveScene
		want  ParticleFrame
	}{
		{
			name:  "clear sky renders nothing",
			scene: domain.EffectiveScene{WeatherPick: domain.PickClear},
			want:  ParticleFrame{},
		},
		{
			name:  "clouds fill the sky",
			scene: domain.EffectiveScene{WeatherPick: domain.PickClouds, ShowClouds: true},
			want:  ParticleFrame{CloudCount: 100},
		},
		{
			name:  "rain keeps its clouds",
			scene: domain.EffectiveScene{WeatherPick: domain.PickRain, ShowClouds: true, ShowRain: true},
			want:  ParticleFrame{CloudCount: 100, RainActive: true},
		},
		{
			name:  "snow layers on clouds",
			scene: domain.EffectiveScene{WeatherPick: domain.PickSnow, ShowClouds: true, ShowSnow: true},
			want:  ParticleFrame{CloudCount: 100, SnowDensity: 160},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParticles()
			p.Apply(Update{Scene: tt.scene})
			assert.Equal(t, tt.want, p.Frame())
		})
	}
}

func TestParticles_LeavesUseSeasonalPalette(t *testing.T) {
	p := NewParticles()

	p.Apply(Update{
		Scene:  domain.EffectiveScene{WeatherPick: domain.PickFall, ShowLeaves: true},
		Season: domain.SeasonAutumn,
	})

	frame := p.Frame()
	assert.Equal(t, 5, frame.LeafCount)
	assert.Equal(t, leafPalettes[domain.SeasonAutumn], frame.LeafPalette)

	p.Apply(Update{
		Scene:  domain.EffectiveScene{WeatherPick: domain.PickClear, ShowLeaves: true},
		Season: domain.SeasonSummer,
	})
	assert.Equal(t, leafPalettes[domain.SeasonSummer], p.Frame().LeafPalette)
}

func TestParticles_RepeatedApplyConverges(t *testing.T) {
	p := NewParticles()
	u := Update{Scene: domain.EffectiveScene{WeatherPick: domain.PickClouds, ShowClouds: true}}

	assert.True(t, p.Apply(u))
	assert.False(t, p.Apply(u))
}
