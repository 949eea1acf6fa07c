// Package broker fans resolved scene frames out to per-session stream
// subscribers. Delivery is best-effort: a slow consumer drops frames rather
// than stalling the engine tick.
package broker

import (
	"log/slog"
	"sync"
	"time"

	"github.com/skyfolio/ambience/internal/domain"
	"github.com/skyfolio/ambience/internal/driver"
	"github.com/skyfolio/ambience/internal/observability"
)

// subscriberBuffer absorbs short consumer stalls; one frame per minute makes
// even a small buffer generous.
const subscriberBuffer = 16

// Frame is one complete scene update for a session: the raw celestial and
// scene state plus every presentation driver's converged output.
type Frame struct {
	SessionID string                `json:"session_id"`
	At        time.Time             `json:"at"`
	Celestial domain.CelestialState `json:"celestial"`
	Scene     domain.EffectiveScene `json:"scene"`
	Sky       driver.SkyFrame       `json:"sky"`
	Particles driver.ParticleFrame  `json:"particles"`
	Audio     driver.AudioFrame     `json:"audio"`
}

// Broker delivers frames to at most one subscriber per session. Subscribing
// again for the same session (a page reconnect) replaces the old channel.
type Broker struct {
	mu      sync.RWMutex
	subs    map[string]chan Frame
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Broker.
func New(logger *slog.Logger, metrics *observability.Metrics) *Broker {
	return &Broker{
		subs:    make(map[string]chan Frame),
		logger:  logger,
		metrics: metrics,
	}
}

// Subscribe registers a stream consumer for the session and returns its frame
// channel. An existing subscription for the same session is closed first.
func (b *Broker) Subscribe(sessionID string) <-chan Frame {
	b.mu.Lock()
	defer b.mu.Unlock()

	if old, ok := b.subs[sessionID]; ok {
		close(old)
	}

	ch := make(chan Frame, subscriberBuffer)
	b.subs[sessionID] = ch
	b.metrics.StreamClients.Set(float64(len(b.subs)))
	b.logger.Debug("stream subscribed", "session", sessionID, "total", len(b.subs))

	return ch
}

// Unsubscribe removes the session's stream consumer, closing its channel.
// The caller passes back the channel it got from Subscribe; if a reconnect
// has already replaced that subscription, the stale teardown is a no-op and
// the replacement stays live.
func (b *Broker) Unsubscribe(sessionID string, ch <-chan Frame) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cur, ok := b.subs[sessionID]
	if !ok || (<-chan Frame)(cur) != ch {
		return
	}
	close(cur)
	delete(b.subs, sessionID)
	b.metrics.StreamClients.Set(float64(len(b.subs)))
	b.logger.Debug("stream unsubscribed", "session", sessionID, "remaining", len(b.subs))
}

// Drop removes the session's stream consumer regardless of who holds it.
// Used when the session itself goes away.
func (b *Broker) Drop(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.subs[sessionID]
	if !ok {
		return
	}
	close(ch)
	delete(b.subs, sessionID)
	b.metrics.StreamClients.Set(float64(len(b.subs)))
	b.logger.Debug("stream dropped", "session", sessionID, "remaining", len(b.subs))
}

// HasSubscriber reports whether the session currently has a stream consumer.
func (b *Broker) HasSubscriber(sessionID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, ok := b.subs[sessionID]
	return ok
}

// SubscriberCount returns the number of connected stream consumers.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs)
}

// Publish delivers a frame to the session's subscriber, if any. The send
// never blocks; a full channel means the consumer is slow or gone and the
// frame is dropped.
func (b *Broker) Publish(frame Frame) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ch, ok := b.subs[frame.SessionID]
	if !ok {
		return
	}

	select {
	case ch <- frame:
		b.metrics.FramesPublished.Inc()
	default:
		b.metrics.FramesDropped.Inc()
		b.logger.Warn("subscriber channel full, dropping frame", "session", frame.SessionID)
	}
}

// Close closes every subscriber channel. Used on shutdown.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
	b.metrics.StreamClients.Set(0)
}
