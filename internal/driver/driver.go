// Package driver holds the presentation drivers: small state machines that
// turn the resolved scene into concrete frames for the sky, the particle
// layers, and the ambient audio. Drivers converge on repeated input; applying
// the same update twice is a no-op.
package driver

import (
	"github.com/skyfolio/ambience/internal/domain"
)

// Update is the engine's per-tick input to every driver.
type Update struct {
	Celestial domain.CelestialState
	Scene     domain.EffectiveScene
	Weather   *domain.WeatherSnapshot
	Season    domain.Season
}

// Driver consumes scene updates and releases its resources on Close.
type Driver interface {
	// Apply reconciles the driver with the update and reports whether its
	// output frame changed.
	Apply(u Update) bool
	Close()
}
