// Package engine owns viewing sessions and the recompute loop that keeps
// their scenes current. Each session carries its own drivers and seed; the
// engine ticks once a minute, re-resolving every auto-time session and
// publishing the resulting frames to the broker.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/skyfolio/ambience/internal/broker"
	"github.com/skyfolio/ambience/internal/domain"
	"github.com/skyfolio/ambience/internal/driver"
	"github.com/skyfolio/ambience/internal/observability"
)

// ErrSessionNotFound is returned for operations on unknown or expired
// sessions.
var ErrSessionNotFound = errors.New("session not found")

// weatherFetchTimeout bounds the one-shot weather lookup a session makes at
// creation.
const weatherFetchTimeout = 10 * time.Second

// WeatherSource provides the current weather snapshot for a location.
type WeatherSource interface {
	Current(ctx context.Context, loc domain.Location) (domain.WeatherSnapshot, error)
}

// Config tunes the engine loop.
type Config struct {
	TickInterval time.Duration
	SessionTTL   time.Duration
	Fallback     domain.Location
	AudioLevel   float64
}

// SessionInfo is what a freshly created session looks like to the caller.
type SessionInfo struct {
	ID       string          `json:"id"`
	Location domain.Location `json:"location"`
	Frame    broker.Frame    `json:"frame"`
}

// Engine resolves scenes for all live sessions.
type Engine struct {
	calendar domain.SolarCalendar
	weather  WeatherSource // nil disables weather entirely
	broker   *broker.Broker
	clock    clockwork.Clock
	cfg      Config
	metrics  *observability.Metrics
	logger   *slog.Logger
	seed     func() float64

	mu       sync.Mutex
	sessions map[string]*session
	ready    atomic.Bool
}

// New creates an Engine. A nil weather source means every session keeps a
// clear sky unless overridden.
func New(calendar domain.SolarCalendar, weather WeatherSource, b *broker.Broker, clock clockwork.Clock, cfg Config, metrics *observability.Metrics, logger *slog.Logger) *Engine {
	return &Engine{
		calendar: calendar,
		weather:  weather,
		broker:   b,
		clock:    clock,
		cfg:      cfg,
		metrics:  metrics,
		logger:   logger,
		seed:     rand.Float64,
		sessions: make(map[string]*session),
	}
}

// Run drives the recompute loop until ctx is cancelled. It ticks immediately
// so readiness does not wait out a full interval.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("scene engine started",
		"tick", e.cfg.TickInterval,
		"session_ttl", e.cfg.SessionTTL,
		"weather_enabled", e.weather != nil)
	e.metrics.EngineRunning.Set(1)
	defer e.metrics.EngineRunning.Set(0)

	ticker := e.clock.NewTicker(e.cfg.TickInterval)
	defer ticker.Stop()

	e.tick()
	e.ready.Store(true)
	defer e.ready.Store(false)

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("scene engine stopping")
			e.shutdown()
			return nil
		case <-ticker.Chan():
			e.tick()
		}
	}
}

// CheckReadiness reports whether the engine loop has completed its first
// tick.
func (e *Engine) CheckReadiness(_ context.Context) error {
	if !e.ready.Load() {
		return errors.New("scene engine not started")
	}
	return nil
}

// CreateSession registers a new viewing session. With a nil location the
// configured fallback is used. The session's weather arrives asynchronously;
// until then (and forever, if the fetch fails) the scene resolves as if the
// sky were clear.
func (e *Engine) CreateSession(loc *domain.Location) SessionInfo {
	id := uuid.NewString()
	location := e.cfg.Fallback
	if loc != nil {
		location = *loc
	}

	s := &session{
		id:        id,
		loc:       location,
		seed:      e.seed(),
		sky:       driver.NewSky(),
		particles: driver.NewParticles(),
		audio:     driver.NewAudio(e.cfg.AudioLevel, e.clock, e.logger.With("session", id)),
		lastSeen:  e.clock.Now(),
	}

	e.mu.Lock()
	e.sessions[id] = s
	e.recomputeLocked(s, e.clock.Now())
	info := SessionInfo{ID: id, Location: location, Frame: s.lastFrame}
	e.metrics.SessionsActive.Set(float64(len(e.sessions)))
	e.mu.Unlock()

	e.metrics.SessionsCreated.Inc()
	e.logger.Info("session created", "session", id, "fallback_location", loc == nil)

	if e.weather != nil {
		go e.fetchWeather(id, location)
	}
	return info
}

// CloseSession removes a session and releases its drivers.
func (e *Engine) CloseSession(id string) error {
	e.mu.Lock()
	s, ok := e.sessions[id]
	if !ok {
		e.mu.Unlock()
		return ErrSessionNotFound
	}
	s.close()
	delete(e.sessions, id)
	e.metrics.SessionsActive.Set(float64(len(e.sessions)))
	e.mu.Unlock()

	e.broker.Drop(id)
	e.logger.Info("session closed", "session", id)
	return nil
}

// Snapshot returns the session's most recent frame.
func (e *Engine) Snapshot(id string) (broker.Frame, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[id]
	if !ok {
		return broker.Frame{}, ErrSessionNotFound
	}
	s.lastSeen = e.clock.Now()
	return s.lastFrame, nil
}

// SetOverrides replaces the session's manual knobs and recomputes at once,
// so the caller sees the effect without waiting for the next tick. Sessions
// with a manual hour are skipped by the periodic loop; this is their only
// recompute path.
func (e *Engine) SetOverrides(id string, ov domain.Overrides) (broker.Frame, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[id]
	if !ok {
		return broker.Frame{}, ErrSessionNotFound
	}
	s.overrides = ov
	s.lastSeen = e.clock.Now()
	e.recomputeLocked(s, e.clock.Now())
	return s.lastFrame, nil
}

// Gesture opens the session's audio gate. The first gesture starts whatever
// soundscape the scene has been waiting to play.
func (e *Engine) Gesture(id string) (broker.Frame, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[id]
	if !ok {
		return broker.Frame{}, ErrSessionNotFound
	}
	s.audio.Gesture()
	s.lastSeen = e.clock.Now()
	e.recomputeLocked(s, e.clock.Now())
	return s.lastFrame, nil
}

// Subscribe attaches a stream consumer to the session and replays the latest
// frame so the consumer can paint without waiting for the next tick.
func (e *Engine) Subscribe(id string) (<-chan broker.Frame, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.lastSeen = e.clock.Now()
	ch := e.broker.Subscribe(id)
	e.broker.Publish(s.lastFrame)
	return ch, nil
}

// Unsubscribe detaches one stream consumer, identified by the channel it got
// from Subscribe, so a disconnecting handler cannot tear down the consumer
// that replaced it. The idle countdown restarts from now.
func (e *Engine) Unsubscribe(id string, ch <-chan broker.Frame) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.broker.Unsubscribe(id, ch)
	if s, ok := e.sessions[id]; ok {
		s.lastSeen = e.clock.Now()
	}
}

func (e *Engine) tick() {
	start := e.clock.Now()

	e.mu.Lock()
	e.reapIdleLocked(start)
	for _, s := range e.sessions {
		// Manual-hour sessions have a frozen clock; they recompute only
		// when their overrides change.
		if s.overrides.Hour != nil {
			continue
		}
		e.recomputeLocked(s, start)
	}
	e.mu.Unlock()

	e.metrics.RecomputeDuration.Observe(e.clock.Since(start).Seconds())
}

// recomputeLocked re-resolves one session and publishes the frame. Callers
// hold e.mu.
func (e *Engine) recomputeLocked(s *session, now time.Time) {
	instant := now.UTC()
	if s.overrides.Hour != nil {
		instant = atHour(instant, *s.overrides.Hour)
	}

	celestial := domain.ComputeCelestial(instant, s.loc, e.calendar)
	season := domain.SeasonOf(instant.Month())
	scene := domain.ResolveScene(celestial, s.weather, season, s.overrides, s.seed)

	u := driver.Update{Celestial: celestial, Scene: scene, Weather: s.weather, Season: season}
	s.sky.Apply(u)
	s.particles.Apply(u)
	s.audio.Apply(u)

	s.lastFrame = broker.Frame{
		SessionID: s.id,
		At:        instant,
		Celestial: celestial,
		Scene:     scene,
		Sky:       s.sky.Frame(),
		Particles: s.particles.Frame(),
		Audio:     s.audio.Frame(),
	}
	e.metrics.SceneRecomputes.Inc()
	e.broker.Publish(s.lastFrame)
}

// reapIdleLocked expires sessions nobody has touched within the TTL. A live
// stream subscription counts as activity.
func (e *Engine) reapIdleLocked(now time.Time) {
	for id, s := range e.sessions {
		if e.broker.HasSubscriber(id) {
			s.lastSeen = now
			continue
		}
		if now.Sub(s.lastSeen) <= e.cfg.SessionTTL {
			continue
		}
		s.close()
		delete(e.sessions, id)
		e.metrics.SessionsExpired.Inc()
		e.logger.Info("session expired", "session", id, "idle", now.Sub(s.lastSeen))
	}
	e.metrics.SessionsActive.Set(float64(len(e.sessions)))
}

func (e *Engine) fetchWeather(sessionID string, loc domain.Location) {
	ctx, cancel := context.WithTimeout(context.Background(), weatherFetchTimeout)
	defer cancel()

	snap, err := e.weather.Current(ctx, loc)
	if err != nil {
		// One shot only: a failed fetch leaves the session on a clear sky.
		e.logger.Warn("weather fetch failed", "session", sessionID, "error", err)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[sessionID]
	if !ok {
		return
	}
	s.weather = &snap
	e.recomputeLocked(s, e.clock.Now())
	e.logger.Debug("weather applied", "session", sessionID, "kind", snap.Kind, "temp_c", snap.TempC)
}

func (e *Engine) shutdown() {
	e.mu.Lock()
	for id, s := range e.sessions {
		s.close()
		delete(e.sessions, id)
	}
	e.metrics.SessionsActive.Set(0)
	e.mu.Unlock()

	e.broker.Close()
}

// atHour pins the instant's clock to a fractional hour, keeping its date.
// The hour is interpreted in UTC: the service has only coordinates, never
// the visitor's zone, so a manual hour moves the scene through the same UTC
// wall clock the automatic path uses rather than guessing an offset from
// longitude.
func atHour(now time.Time, hour float64) time.Time {
	h := int(hour)
	m := int(math.Round((hour - float64(h)) * 60))
	y, mo, d := now.Date()
	return time.Date(y, mo, d, h, m, 0, 0, now.Location())
}
