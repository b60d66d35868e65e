package routeapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"smartqueue/internal/domain/service"
	"smartqueue/internal/errors"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	leg   *service.RouteLeg
	err   error
	calls atomic.Int32
}

func (p *countingProvider) Duration(context.Context, float64, float64, float64, float64, time.Time) (*service.RouteLeg, error) {
	p.calls.Add(1)
	if p.err != nil {
		return nil, p.err
	}

	leg := *p.leg
	return &leg, nil
}

func testCacheClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)

	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestCachedProvider_ReadThrough(t *testing.T) {
	mr, client := testCacheClient(t)
	inner := &countingProvider{leg: &service.RouteLeg{Minutes: 25, DistanceKm: 12.4, Source: mapsSource}}
	provider := NewCachedProvider(inner, client, mapsSource, 10*time.Minute, testLogger())

	leg, err := provider.Duration(context.Background(), 14.7167, -17.4677, 14.7544, -17.3942, time.Now())
	require.NoError(t, err)
	assert.InDelta(t, 25.0, leg.Minutes, 0.01)
	assert.Equal(t, int32(1), inner.calls.Load())

	// Second lookup is served from the cache.
	leg, err = provider.Duration(context.Background(), 14.7167, -17.4677, 14.7544, -17.3942, time.Now())
	require.NoError(t, err)
	assert.InDelta(t, 25.0, leg.Minutes, 0.01)
	assert.Equal(t, int32(1), inner.calls.Load())

	// The entry carries the provider name and the configured TTL.
	key := cacheKey(mapsSource, 14.7167, -17.4677, 14.7544, -17.3942)
	require.True(t, mr.Exists(key))
	assert.Equal(t, 10*time.Minute, mr.TTL(key))
}

func TestCachedProvider_KeysBySource(t *testing.T) {
	mr, client := testCacheClient(t)
	mapsInner := &countingProvider{leg: &service.RouteLeg{Minutes: 25, Source: mapsSource}}
	osrmInner := &countingProvider{leg: &service.RouteLeg{Minutes: 30, Source: osrmSource}}

	maps := NewCachedProvider(mapsInner, client, mapsSource, 10*time.Minute, testLogger())
	osrm := NewCachedProvider(osrmInner, client, osrmSource, 30*time.Minute, testLogger())

	_, err := osrm.Duration(context.Background(), 1, 1, 2, 2, time.Now())
	require.NoError(t, err)

	// The cached fallback leg must not answer for the other provider.
	leg, err := maps.Duration(context.Background(), 1, 1, 2, 2, time.Now())
	require.NoError(t, err)
	assert.Equal(t, mapsSource, leg.Source)
	assert.Equal(t, int32(1), mapsInner.calls.Load())

	assert.True(t, mr.Exists(cacheKey(mapsSource, 1, 1, 2, 2)))
	assert.True(t, mr.Exists(cacheKey(osrmSource, 1, 1, 2, 2)))
}

func TestCachedProvider_CorruptEntryDropped(t *testing.T) {
	mr, client := testCacheClient(t)
	inner := &countingProvider{leg: &service.RouteLeg{Minutes: 25, Source: mapsSource}}
	provider := NewCachedProvider(inner, client, mapsSource, 10*time.Minute, testLogger())

	key := cacheKey(mapsSource, 1, 1, 2, 2)
	require.NoError(t, mr.Set(key, "not json"))

	leg, err := provider.Duration(context.Background(), 1, 1, 2, 2, time.Now())
	require.NoError(t, err)
	assert.InDelta(t, 25.0, leg.Minutes, 0.01)
	assert.Equal(t, int32(1), inner.calls.Load())
}

func TestCachedProvider_ErrorsAreNotCached(t *testing.T) {
	mr, client := testCacheClient(t)
	inner := &countingProvider{err: errors.Wrap(service.ErrProviderTransient, "down")}
	provider := NewCachedProvider(inner, client, osrmSource, time.Minute, testLogger())

	_, err := provider.Duration(context.Background(), 1, 1, 2, 2, time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrProviderTransient))
	assert.False(t, mr.Exists(cacheKey(osrmSource, 1, 1, 2, 2)))
}

func TestChain_CachedFallbackDoesNotMaskRecovery(t *testing.T) {
	var healthy atomic.Bool
	mapsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if !healthy.Load() {
			w.WriteHeader(http.StatusForbidden)

			return
		}
		w.Write([]byte(`{
			"status": "OK",
			"routes": [{"legs": [{
				"duration": {"value": 1200},
				"duration_in_traffic": {"value": 1500},
				"distance": {"value": 10000}
			}]}]
		}`))
	}))
	defer mapsSrv.Close()

	osrmSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"code": "Ok", "routes": [{"duration": 600, "distance": 5000}]}`))
	}))
	defer osrmSrv.Close()

	_, client := testCacheClient(t)
	clock := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	chained := NewChain(testLogger(),
		NewCachedProvider(NewMapsProvider(mapsSrv.URL, "k", time.Second, testLogger()), client, mapsSource, 10*time.Minute, testLogger()),
		NewCachedProvider(NewOSRMProvider(osrmSrv.URL, time.Second, testLogger()), client, osrmSource, 30*time.Minute, testLogger()),
	).(*chain)
	chained.now = func() time.Time { return clock }

	// Maps fails permanently, the fallback serves and gets cached.
	leg, err := chained.Duration(context.Background(), 1, 1, 2, 2, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "osrm", leg.Source)

	// After the cooldown a recovered maps answers again; the cached
	// fallback leg stays under its own key and does not shadow it.
	healthy.Store(true)
	clock = clock.Add(providerDisableCooldown + time.Second)

	leg, err = chained.Duration(context.Background(), 1, 1, 2, 2, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "maps", leg.Source)
}
