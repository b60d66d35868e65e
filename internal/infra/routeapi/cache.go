package routeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"smartqueue/internal/domain/service"

	"github.com/redis/go-redis/v9"
)

// cachedProvider is a read-through cache over a single RouteTimeProvider.
// Each provider in the chain carries its own cache, keyed by its source name,
// so a cached fallback leg never shadows a recovered higher-priority
// provider. Coordinates are rounded to four decimals (roughly 11 m) so
// nearby lookups share entries.
type cachedProvider struct {
	inner  service.RouteTimeProvider
	client *redis.Client
	source string
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedProvider wraps one provider with a Redis cache. Traffic-aware
// providers get a shorter TTL than static ones, chosen at wiring time.
// Cache failures are logged and ignored so a Redis outage never takes the
// estimate path down.
func NewCachedProvider(inner service.RouteTimeProvider, client *redis.Client, source string, ttl time.Duration, logger *slog.Logger) service.RouteTimeProvider {
	return &cachedProvider{
		inner:  inner,
		client: client,
		source: source,
		ttl:    ttl,
		logger: logger,
	}
}

func cacheKey(source string, originLat, originLon, destLat, destLon float64) string {
	return fmt.Sprintf("routetime:%s:%.4f,%.4f:%.4f,%.4f", source, originLat, originLon, destLat, destLon)
}

func (c *cachedProvider) Duration(ctx context.Context, originLat, originLon, destLat, destLon float64, departure time.Time) (*service.RouteLeg, error) {
	key := cacheKey(c.source, originLat, originLon, destLat, destLon)

	if raw, err := c.client.Get(ctx, key).Result(); err == nil {
		var leg service.RouteLeg
		if err := json.Unmarshal([]byte(raw), &leg); err == nil {
			return &leg, nil
		}
		c.logger.Warn("dropping corrupt route cache entry", slog.String("key", key))
		c.client.Del(ctx, key)
	} else if err != redis.Nil {
		c.logger.Warn("route cache read failed", slog.Any("error", err))
	}

	leg, err := c.inner.Duration(ctx, originLat, originLon, destLat, destLon, departure)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(leg); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("route cache write failed", slog.Any("error", err))
		}
	}

	return leg, nil
}
