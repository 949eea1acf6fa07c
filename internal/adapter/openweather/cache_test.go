package openweather

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyfolio/ambience/internal/domain"
)

type stubSource struct {
	snap  domain.WeatherSnapshot
	err   error
	calls int
}

func (s *stubSource) Current(_ context.Context, _ domain.Location) (domain.WeatherSnapshot, error) {
	s.calls++
	return s.snap, s.err
}

func TestCachedSource_HitSkipsUpstream(t *testing.T) {
	stub := &stubSource{snap: domain.WeatherSnapshot{Kind: domain.KindClouds, TempC: 8}}
	clock := clockwork.NewFakeClock()
	cached := NewCachedSource(stub, 10, 15*time.Minute, clock, testMetrics())

	first, err := cached.Current(context.Background(), testLoc)
	require.NoError(t, err)

	second, err := cached.Current(context.Background(), testLoc)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, stub.calls)
}

func TestCachedSource_NearbyCoordinatesShareEntry(t *testing.T) {
	stub := &stubSource{snap: domain.WeatherSnapshot{Kind: domain.KindClear}}
	cached := NewCachedSource(stub, 10, 15*time.Minute, clockwork.NewFakeClock(), testMetrics())

	_, err := cached.Current(context.Background(), domain.Location{Lat: 19.0761, Lon: 72.8779})
	require.NoError(t, err)
	_, err = cached.Current(context.Background(), domain.Location{Lat: 19.0758, Lon: 72.8782})
	require.NoError(t, err)

	assert.Equal(t, 1, stub.calls)
}

func TestCachedSource_EntryExpires(t *testing.T) {
	stub := &stubSource{snap: domain.WeatherSnapshot{Kind: domain.KindSnow}}
	clock := clockwork.NewFakeClock()
	cached := NewCachedSource(stub, 10, 15*time.Minute, clock, testMetrics())

	_, err := cached.Current(context.Background(), testLoc)
	require.NoError(t, err)

	clock.Advance(16 * time.Minute)

	_, err = cached.Current(context.Background(), testLoc)
	require.NoError(t, err)
	assert.Equal(t, 2, stub.calls)
}

func TestCachedSource_ErrorsNotCached(t *testing.T) {
	stub := &stubSource{err: errors.New("boom")}
	cached := NewCachedSource(stub, 10, 15*time.Minute, clockwork.NewFakeClock(), testMetrics())

	_, err := cached.Current(context.Background(), testLoc)
	require.Error(t, err)
	_, err = cached.Current(context.Background(), testLoc)
	require.Error(t, err)

	assert.Equal(t, 2, stub.calls)
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	cache := newLRUCache(2)
	now := time.Now()
	expires := now.Add(time.Hour)

	cache.put("a", domain.WeatherSnapshot{Kind: domain.KindClear}, expires)
	cache.put("b", domain.WeatherSnapshot{Kind: domain.KindClouds}, expires)

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := cache.get("a", now)
	require.True(t, ok)

	cache.put("c", domain.WeatherSnapshot{Kind: domain.KindRain}, expires)

	_, ok = cache.get("a", now)
	assert.True(t, ok)
	_, ok = cache.get("b", now)
	assert.False(t, ok)
	_, ok = cache.get("c", now)
	assert.True(t, ok)
}
