package engine

import (
	"time"

	"github.com/skyfolio/ambience/internal/broker"
	"github.com/skyfolio/ambience/internal/domain"
	"github.com/skyfolio/ambience/internal/driver"
)

// session is one visitor's scene state. The seed is drawn once at creation
// and never re-rolled; the weather pointer stays nil until the one-shot fetch
// lands, and stays nil forever if it fails.
type session struct {
	id        string
	loc       domain.Location
	seed      float64
	overrides domain.Overrides
	weather   *domain.WeatherSnapshot

	sky       *driver.Sky
	particles *driver.Particles
	audio     *driver.Audio

	lastSeen  time.Time
	lastFrame broker.Frame
}

func (s *session) close() {
	s.audio.Close()
	s.particles.Close()
	s.sky.Close()
}
