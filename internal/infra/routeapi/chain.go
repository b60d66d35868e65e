package routeapi

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"smartqueue/internal/domain/service"
	"smartqueue/internal/errors"
)

// providerDisableCooldown is how long a provider sits out after a permanent
// failure before the chain probes it again. Misconfiguration needs operator
// action anyway, and a recovered quota or fixed key should not require a
// process restart to be picked up.
const providerDisableCooldown = 5 * time.Minute

// chainEntry tracks one provider and the cooldown a permanent failure put it on.
type chainEntry struct {
	name     string
	provider service.RouteTimeProvider

	mu            sync.Mutex
	disabledUntil time.Time
}

// chain attempts providers in order. A transient failure is retried once
// before moving on; a permanent failure benches the provider for a cooldown.
type chain struct {
	entries []*chainEntry
	logger  *slog.Logger
	now     func() time.Time
}

// NewChain builds a provider chain in the given priority order.
func NewChain(logger *slog.Logger, providers ...service.RouteTimeProvider) service.RouteTimeProvider {
	entries := make([]*chainEntry, 0, len(providers))
	for _, p := range providers {
		entries = append(entries, &chainEntry{name: sourceName(p), provider: p})
	}

	return &chain{entries: entries, logger: logger, now: time.Now}
}

func sourceName(p service.RouteTimeProvider) string {
	switch p := p.(type) {
	case *mapsProvider:
		return mapsSource
	case *osrmProvider:
		return osrmSource
	case *cachedProvider:
		return p.source
	default:
		return "provider"
	}
}

func (c *chain) Duration(ctx context.Context, originLat, originLon, destLat, destLon float64, departure time.Time) (*service.RouteLeg, error) {
	var lastErr error

	for _, entry := range c.entries {
		entry.mu.Lock()
		coolingDown := c.now().Before(entry.disabledUntil)
		entry.mu.Unlock()
		if coolingDown {
			continue
		}

		leg, err := entry.provider.Duration(ctx, originLat, originLon, destLat, destLon, departure)
		if err == nil {
			return leg, nil
		}

		if errors.Is(err, service.ErrProviderTransient) {
			c.logger.Warn("route provider transient failure, retrying once",
				slog.String("provider", entry.name),
				slog.Any("error", err),
			)

			leg, err = entry.provider.Duration(ctx, originLat, originLon, destLat, destLon, departure)
			if err == nil {
				return leg, nil
			}
		}

		if errors.Is(err, service.ErrProviderPermanent) {
			until := c.now().Add(providerDisableCooldown)
			entry.mu.Lock()
			entry.disabledUntil = until
			entry.mu.Unlock()

			c.logger.Error("route provider benched after permanent failure",
				slog.String("provider", entry.name),
				slog.Time("until", until),
				slog.Any("error", err),
			)
		}

		lastErr = err
	}

	if lastErr == nil {
		return nil, errors.WithStack(service.ErrRouteUnavailable)
	}

	return nil, errors.Wrap(service.ErrRouteUnavailable, lastErr.Error())
}
