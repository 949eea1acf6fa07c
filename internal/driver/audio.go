package driver

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/skyfolio/ambience/internal/domain"
)

// fadeDuration is the length of every volume ramp, in either direction.
const fadeDuration = 350 * time.Millisecond

// ChannelState is the lifecycle of one looping audio channel.
type ChannelState string

const (
	ChannelIdle      ChannelState = "idle"
	ChannelPriming   ChannelState = "priming"
	ChannelPlaying   ChannelState = "playing"
	ChannelFadingOut ChannelState = "fading_out"
	ChannelStopped   ChannelState = "stopped"
)

// GateState tracks the autoplay gate. Playback stays pending until the
// visitor's first gesture opens the gate.
type GateState string

const (
	GateLocked    GateState = "locked"
	GateUnlocking GateState = "unlocking"
	GateUnlocked  GateState = "unlocked"
)

// soundscape names what the session should be hearing.
type soundscape string

const (
	soundDay   soundscape = "day"   // birds
	soundNight soundscape = "night" // crickets
	soundMuted soundscape = "muted" // snow hushes everything
)

// Channel is one looping audio source with eased volume ramps. Volume is
// computed from the clock on read, so a fade needs no per-frame ticking; a
// single timer finalizes the terminal state when the ramp completes.
type Channel struct {
	name   string
	clock  clockwork.Clock
	logger *slog.Logger

	mu        sync.Mutex
	state     ChannelState
	fadeFrom  float64
	target    float64
	fadeStart time.Time
	fading    bool
	timer     clockwork.Timer
}

func newChannel(name string, clock clockwork.Clock, logger *slog.Logger) *Channel {
	return &Channel{
		name:   name,
		clock:  clock,
		logger: logger,
		state:  ChannelIdle,
	}
}

// Prime marks the channel as wanted but gated. No sound until FadeIn.
func (c *Channel) Prime() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != ChannelIdle && c.state != ChannelStopped {
		return false
	}
	c.setStateLocked(ChannelPriming)
	return true
}

// FadeIn starts playback, ramping volume from wherever it currently is up to
// target over the fade duration.
func (c *Channel) FadeIn(target float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == ChannelPlaying && !c.fading && c.target == target {
		return
	}
	c.beginFadeLocked(target)
	c.setStateLocked(ChannelPlaying)
}

// FadeOut ramps volume to zero and stops the channel when the ramp lands.
func (c *Channel) FadeOut() {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case ChannelIdle, ChannelStopped, ChannelFadingOut:
		return
	case ChannelPriming:
		// Never audible, nothing to ramp.
		c.setStateLocked(ChannelStopped)
		return
	}
	c.beginFadeLocked(0)
	c.setStateLocked(ChannelFadingOut)
}

// Volume returns the channel's current volume, easing through any in-flight
// fade.
func (c *Channel) Volume() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volumeLocked()
}

// State returns the channel's lifecycle state.
func (c *Channel) State() ChannelState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close cancels any pending fade and silences the channel.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.fading = false
	c.fadeFrom = 0
	c.target = 0
	if c.state != ChannelStopped {
		c.setStateLocked(ChannelStopped)
	}
}

func (c *Channel) beginFadeLocked(target float64) {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.fadeFrom = c.volumeLocked()
	c.target = target
	c.fadeStart = c.clock.Now()
	c.fading = true
	c.timer = c.clock.AfterFunc(fadeDuration, c.finishFade)
}

func (c *Channel) finishFade() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.fading {
		return
	}
	c.fading = false
	c.fadeFrom = c.target
	c.timer = nil
	if c.state == ChannelFadingOut {
		c.setStateLocked(ChannelStopped)
	}
}

func (c *Channel) volumeLocked() float64 {
	if !c.fading {
		return c.fadeFrom
	}
	p := float64(c.clock.Since(c.fadeStart)) / float64(fadeDuration)
	if p >= 1 {
		return c.target
	}
	if p < 0 {
		p = 0
	}
	return c.fadeFrom + (c.target-c.fadeFrom)*easeInOutQuad(p)
}

func (c *Channel) setStateLocked(next ChannelState) {
	if c.state == next {
		return
	}
	c.logger.Debug("audio channel transition", "channel", c.name, "from", c.state, "to", next)
	c.state = next
}

func easeInOutQuad(p float64) float64 {
	if p < 0.5 {
		return 2 * p * p
	}
	q := -2*p + 1
	return 1 - q*q/2
}

// ChannelFrame is one channel's externally visible state.
type ChannelFrame struct {
	State  ChannelState `json:"state"`
	Volume float64      `json:"volume"`
}

// AudioFrame is the ambient audio render state for a session.
type AudioFrame struct {
	Gate     GateState    `json:"gate"`
	Track    string       `json:"track,omitempty"`
	Birds    ChannelFrame `json:"birds"`
	Crickets ChannelFrame `json:"crickets"`
}

// Audio drives the two ambient channels from the effective scene: birds by
// day, crickets by night, silence under snow. The gate starts locked and
// playback stays pending until the first visitor gesture.
type Audio struct {
	clock  clockwork.Clock
	logger *slog.Logger
	level  float64

	mu       sync.Mutex
	gate     GateState
	current  soundscape
	applied  bool
	birds    *Channel
	crickets *Channel
}

// NewAudio creates an audio driver that ramps channels to level when playing.
func NewAudio(level float64, clock clockwork.Clock, logger *slog.Logger) *Audio {
	return &Audio{
		clock:    clock,
		logger:   logger,
		level:    level,
		gate:     GateLocked,
		birds:    newChannel("birds", clock, logger),
		crickets: newChannel("crickets", clock, logger),
	}
}

// Apply reconciles the channels with the scene. While the gate is locked the
// wanted channel only primes; it starts for real on the first gesture.
func (a *Audio) Apply(u Update) bool {
	want := desiredSoundscape(u.Scene)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.applied && want == a.current {
		return false
	}
	a.current = want
	a.applied = true

	if a.gate == GateLocked {
		switch want {
		case soundDay:
			a.birds.Prime()
		case soundNight:
			a.crickets.Prime()
		}
		return true
	}

	a.playLocked(want)
	return true
}

// Gesture opens the autoplay gate and starts whatever soundscape is pending.
// Gestures after the first are no-ops.
func (a *Audio) Gesture() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.gate != GateLocked {
		return
	}
	a.gate = GateUnlocking
	a.logger.Debug("audio gate unlocking")
	a.playLocked(a.current)
	a.gate = GateUnlocked
	a.logger.Info("audio gate unlocked", "soundscape", a.current)
}

// Frame returns the audio render state.
func (a *Audio) Frame() AudioFrame {
	a.mu.Lock()
	defer a.mu.Unlock()

	frame := AudioFrame{
		Gate:     a.gate,
		Birds:    ChannelFrame{State: a.birds.State(), Volume: a.birds.Volume()},
		Crickets: ChannelFrame{State: a.crickets.State(), Volume: a.crickets.Volume()},
	}
	switch a.current {
	case soundDay:
		frame.Track = "birds"
	case soundNight:
		frame.Track = "crickets"
	}
	return frame
}

// Close silences both channels and cancels their fade timers.
func (a *Audio) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.birds.Close()
	a.crickets.Close()
}

func (a *Audio) playLocked(want soundscape) {
	switch want {
	case soundDay:
		a.birds.FadeIn(a.level)
		a.crickets.FadeOut()
	case soundNight:
		a.crickets.FadeIn(a.level)
		a.birds.FadeOut()
	case soundMuted:
		a.birds.FadeOut()
		a.crickets.FadeOut()
	}
}

func desiredSoundscape(scene domain.EffectiveScene) soundscape {
	if scene.TimeOfDay == domain.TimeNight {
		return soundNight
	}
	if scene.ShowSnow {
		return soundMuted
	}
	return soundDay
}
