package routeapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"smartqueue/internal/domain/service"
	"smartqueue/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMapsProvider_Duration(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/directions/json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.NotEmpty(t, r.URL.Query().Get("departure_time"))

		w.Write([]byte(`{
			"status": "OK",
			"routes": [{"legs": [{
				"duration": {"value": 1500},
				"duration_in_traffic": {"value": 1980},
				"distance": {"value": 12400}
			}]}]
		}`))
	}))
	defer srv.Close()

	provider := NewMapsProvider(srv.URL, "test-key", time.Second, testLogger())

	leg, err := provider.Duration(context.Background(), 14.7167, -17.4677, 14.7544, -17.3942, time.Now())
	require.NoError(t, err)

	assert.InDelta(t, 25.0, leg.Minutes, 0.01)
	assert.InDelta(t, 33.0, leg.TrafficMinutes, 0.01)
	assert.InDelta(t, 12.4, leg.DistanceKm, 0.01)
	assert.Equal(t, "maps", leg.Source)
}

func TestMapsProvider_ErrorKinds(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		sentinel error
	}{
		{
			name: "server error is transient",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			sentinel: service.ErrProviderTransient,
		},
		{
			name: "auth failure is permanent",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			},
			sentinel: service.ErrProviderPermanent,
		},
		{
			name: "request denied status is permanent",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(`{"status": "REQUEST_DENIED"}`))
			},
			sentinel: service.ErrProviderPermanent,
		},
		{
			name: "query limit is transient",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(`{"status": "OVER_QUERY_LIMIT"}`))
			},
			sentinel: service.ErrProviderTransient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			provider := NewMapsProvider(srv.URL, "k", time.Second, testLogger())

			_, err := provider.Duration(context.Background(), 1, 1, 2, 2, time.Now())
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel))
		})
	}
}

func TestMapsProvider_ZeroResultsDoesNotDisable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status": "ZERO_RESULTS"}`))
	}))
	defer srv.Close()

	provider := NewMapsProvider(srv.URL, "k", time.Second, testLogger())

	_, err := provider.Duration(context.Background(), 1, 1, 2, 2, time.Now())
	require.Error(t, err)
	assert.False(t, errors.Is(err, service.ErrProviderTransient))
	assert.False(t, errors.Is(err, service.ErrProviderPermanent))
}

func TestOSRMProvider_Duration(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// OSRM coordinates are lon,lat ordered.
		assert.Contains(t, r.URL.Path, "/route/v1/driving/-17.467700,14.716700;-17.394200,14.754400")

		w.Write([]byte(`{"code": "Ok", "routes": [{"duration": 1800, "distance": 15000}]}`))
	}))
	defer srv.Close()

	provider := NewOSRMProvider(srv.URL, time.Second, testLogger())

	leg, err := provider.Duration(context.Background(), 14.7167, -17.4677, 14.7544, -17.3942, time.Now())
	require.NoError(t, err)

	assert.InDelta(t, 30.0, leg.Minutes, 0.01)
	assert.InDelta(t, 15.0, leg.DistanceKm, 0.01)
	assert.Zero(t, leg.TrafficMinutes)
	assert.Equal(t, "osrm", leg.Source)
}

func TestChain_FallsBackOnTransientFailure(t *testing.T) {
	var mapsCalls atomic.Int32
	mapsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mapsCalls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer mapsSrv.Close()

	osrmSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"code": "Ok", "routes": [{"duration": 600, "distance": 5000}]}`))
	}))
	defer osrmSrv.Close()

	chain := NewChain(testLogger(),
		NewMapsProvider(mapsSrv.URL, "k", time.Second, testLogger()),
		NewOSRMProvider(osrmSrv.URL, time.Second, testLogger()),
	)

	leg, err := chain.Duration(context.Background(), 1, 1, 2, 2, time.Now())
	require.NoError(t, err)

	// One retry before falling back.
	assert.Equal(t, int32(2), mapsCalls.Load())
	assert.Equal(t, "osrm", leg.Source)
}

func TestChain_DisablesProviderOnPermanentFailure(t *testing.T) {
	var mapsCalls atomic.Int32
	mapsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mapsCalls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer mapsSrv.Close()

	osrmSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"code": "Ok", "routes": [{"duration": 600, "distance": 5000}]}`))
	}))
	defer osrmSrv.Close()

	clock := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	chained := NewChain(testLogger(),
		NewMapsProvider(mapsSrv.URL, "k", time.Second, testLogger()),
		NewOSRMProvider(osrmSrv.URL, time.Second, testLogger()),
	).(*chain)
	chained.now = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		leg, err := chained.Duration(context.Background(), 1, 1, 2, 2, time.Now())
		require.NoError(t, err)
		assert.Equal(t, "osrm", leg.Source)
	}

	// Permanent failures are not retried; the provider sits out the cooldown.
	assert.Equal(t, int32(1), mapsCalls.Load())

	// Once the cooldown lapses the chain probes the provider again.
	clock = clock.Add(providerDisableCooldown + time.Second)
	leg, err := chained.Duration(context.Background(), 1, 1, 2, 2, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "osrm", leg.Source)
	assert.Equal(t, int32(2), mapsCalls.Load())
}

func TestChain_BenchedProviderRecovers(t *testing.T) {
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

	clock := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	chained := NewChain(testLogger(),
		NewMapsProvider(mapsSrv.URL, "k", time.Second, testLogger()),
		NewOSRMProvider(osrmSrv.URL, time.Second, testLogger()),
	).(*chain)
	chained.now = func() time.Time { return clock }

	leg, err := chained.Duration(context.Background(), 1, 1, 2, 2, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "osrm", leg.Source)

	// The key gets fixed while the provider is benched.
	healthy.Store(true)

	// Still benched: the fallback keeps serving.
	leg, err = chained.Duration(context.Background(), 1, 1, 2, 2, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "osrm", leg.Source)

	clock = clock.Add(providerDisableCooldown + time.Second)
	leg, err = chained.Duration(context.Background(), 1, 1, 2, 2, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "maps", leg.Source)
}

func TestChain_AllProvidersFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	chain := NewChain(testLogger(),
		NewOSRMProvider(srv.URL, time.Second, testLogger()),
	)

	_, err := chain.Duration(context.Background(), 1, 1, 2, 2, time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrRouteUnavailable))
}
