package driver

import (
	"slices"
	"sync"

	"github.com/skyfolio/ambience/internal/domain"
)

// Layer densities. Tuned for a full-viewport scene; clients scale down on
// small screens themselves.
const (
	cloudCount  = 100
	snowDensity = 160
	leafCount   = 5
)

// leafPalettes holds the leaf colours per season. Warm colours in autumn and
// winter, greens the rest of the year.
var leafPalettes = map[domain.Season][]string{
	domain.SeasonSpring: {"#1E8449", "#145A32", "#7DCEA0", "#28B463"},
	domain.SeasonSummer: {"#1E8449", "#196F3D", "#0A5E2E", "#27AE60"},
	domain.SeasonAutumn: {"#D35400", "#C0392B", "#F1C40F", "#E67E22", "#D4AC0D"},
	domain.SeasonWinter: {"#E74C3C", "#F39C12", "#D35400"},
}

// ParticleFrame tells the particle layers what to render.
type ParticleFrame struct {
	CloudCount  int      `json:"cloud_count"`
	RainActive  bool     `json:"rain_active"`
	SnowDensity int      `json:"snow_density"`
	LeafCount   int      `json:"leaf_count"`
	LeafPalette []string `json:"leaf_palette,omitempty"`
}

// Particles maps the effective scene onto the cloud, rain, snow, and leaf
// layers.
type Particles struct {
	mu    sync.Mutex
	frame ParticleFrame
	set   bool
}

// NewParticles creates a particle driver.
func NewParticles() *Particles {
	return &Particles{}
}

// Apply reconciles the particle layers with the update.
func (p *Particles) Apply(u Update) bool {
	next := ParticleFrame{
		RainActive: u.Scene.ShowRain,
	}
	if u.Scene.ShowClouds {
		next.CloudCount = cloudCount
	}
	if u.Scene.ShowSnow {
		next.SnowDensity = snowDensity
	}
	if u.Scene.ShowLeaves {
		next.LeafCount = leafCount
		next.LeafPalette = leafPalettes[u.Season]
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.set && particleFramesEqual(p.frame, next) {
		return false
	}
	p.frame = next
	p.set = true
	return true
}

// Frame returns the current particle frame.
func (p *Particles) Frame() ParticleFrame {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frame
}

// Close is a no-op; the particle layers hold no resources.
func (p *Particles) Close() {}

func particleFramesEqual(a, b ParticleFrame) bool {
	return a.CloudCount == b.CloudCount &&
		a.RainActive == b.RainActive &&
		a.SnowDensity == b.SnowDensity &&
		a.LeafCount == b.LeafCount &&
		slices.Equal(a.LeafPalette, b.LeafPalette)
}
