package driver

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyfolio/ambience/internal/domain"
)

const testLevel = 0.6

func testAudio() (*Audio, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClock()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAudio(testLevel, clock, logger), clock
}

func dayScene() Update {
	return Update{Scene: domain.EffectiveScene{TimeOfDay: domain.TimeDay, WeatherPick: domain.PickClear}}
}

func nightScene() Update {
	return Update{Scene: domain.EffectiveScene{TimeOfDay: domain.TimeNight, WeatherPick: domain.PickClear}}
}

func snowScene() Update {
	return Update{Scene: domain.EffectiveScene{TimeOfDay: domain.TimeDay, WeatherPick: domain.PickSnow, ShowSnow: true}}
}

func TestAudio_LockedGateOnlyPrimes(t *testing.T) {
	audio, _ := testAudio()

	changed := audio.Apply(dayScene())
	require.True(t, changed)

	frame := audio.Frame()
	assert.Equal(t, GateLocked, frame.Gate)
	assert.Equal(t, ChannelPriming, frame.Birds.State)
	assert.Equal(t, ChannelIdle, frame.Crickets.State)
	assert.Zero(t, frame.Birds.Volume)
}

func TestAudio_GestureStartsPendingSoundscape(t *testing.T) {
	audio, clock := testAudio()
	audio.Apply(dayScene())

	audio.Gesture()

	frame := audio.Frame()
	assert.Equal(t, GateUnlocked, frame.Gate)
	assert.Equal(t, ChannelPlaying, frame.Birds.State)
	assert.Equal(t, "birds", frame.Track)

	// Halfway through the ramp the eased volume sits at half the level.
	clock.Advance(fadeDuration / 2)
	assert.InDelta(t, testLevel/2, audio.Frame().Birds.Volume, 1e-9)

	clock.Advance(fadeDuration)
	assert.Equal(t, testLevel, audio.Frame().Birds.Volume)
}

func TestAudio_SecondGestureIsNoop(t *testing.T) {
	audio, clock := testAudio()
	audio.Apply(dayScene())
	audio.Gesture()
	clock.Advance(fadeDuration)

	audio.Gesture()

	frame := audio.Frame()
	assert.Equal(t, GateUnlocked, frame.Gate)
	assert.Equal(t, testLevel, frame.Birds.Volume)
}

func TestAudio_DayToNightCrossfades(t *testing.T) {
	audio, clock := testAudio()
	audio.Apply(dayScene())
	audio.Gesture()
	clock.Advance(fadeDuration)

	changed := audio.Apply(nightScene())
	require.True(t, changed)

	frame := audio.Frame()
	assert.Equal(t, ChannelFadingOut, frame.Birds.State)
	assert.Equal(t, ChannelPlaying, frame.Crickets.State)
	assert.Equal(t, "crickets", frame.Track)

	clock.Advance(fadeDuration)

	frame = audio.Frame()
	assert.Equal(t, ChannelStopped, frame.Birds.State)
	assert.Zero(t, frame.Birds.Volume)
	assert.Equal(t, testLevel, frame.Crickets.Volume)
}

func TestAudio_SnowMutesEverything(t *testing.T) {
	audio, clock := testAudio()
	audio.Apply(dayScene())
	audio.Gesture()
	clock.Advance(fadeDuration)

	require.True(t, audio.Apply(snowScene()))
	clock.Advance(fadeDuration)

	frame := audio.Frame()
	assert.Equal(t, ChannelStopped, frame.Birds.State)
	assert.Equal(t, ChannelStopped, frame.Crickets.State)
	assert.Empty(t, frame.Track)
}

func TestAudio_RepeatedApplyConverges(t *testing.T) {
	audio, _ := testAudio()
	audio.Gesture()

	assert.True(t, audio.Apply(dayScene()))
	assert.False(t, audio.Apply(dayScene()))
	assert.True(t, audio.Apply(nightScene()))
}

func TestAudio_CloseMidFadeSilencesChannels(t *testing.T) {
	audio, clock := testAudio()
	audio.Apply(dayScene())
	audio.Gesture()
	clock.Advance(fadeDuration / 2)

	audio.Close()
	clock.Advance(time.Hour)

	frame := audio.Frame()
	assert.Equal(t, ChannelStopped, frame.Birds.State)
	assert.Equal(t, ChannelStopped, frame.Crickets.State)
	assert.Zero(t, frame.Birds.Volume)
	assert.Zero(t, frame.Crickets.Volume)
}

func TestEaseInOutQuad(t *testing.T) {
	assert.Equal(t, 0.0, easeInOutQuad(0))
	assert.Equal(t, 0.5, easeInOutQuad(0.5))
	assert.Equal(t, 1.0, easeInOutQuad(1))
	assert.Less(t, easeInOutQuad(0.25), 0.25)
	assert.Greater(t, easeInOutQuad(0.75), 0.75)
}
