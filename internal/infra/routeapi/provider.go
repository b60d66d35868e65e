package routeapi

import (
	"context"
	"log/slog"
	"time"

	"smartqueue/config"
	"smartqueue/internal/domain/service"
	"smartqueue/internal/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

const defaultRequestTimeout = 10 * time.Second

// ProviderParams holds dependencies for the route-time provider, injected by Fx
type ProviderParams struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// NewRouteTimeProvider assembles the configured provider chain and, when
// Redis is configured, puts the read-through cache in front of it.
func NewRouteTimeProvider(params ProviderParams) (service.RouteTimeProvider, error) {
	cfg := params.Config.Providers
	logger := params.Logger

	if cfg == nil {
		return nil, errors.New("providers configuration is required")
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	client, err := routeCacheClient(params, logger)
	if err != nil {
		return nil, err
	}

	// Each provider is cached on its own, keyed by source, so a cached
	// fallback leg cannot shadow a recovered higher-priority provider.
	cached := func(p service.RouteTimeProvider, ttl time.Duration) service.RouteTimeProvider {
		if client == nil {
			return p
		}

		return NewCachedProvider(p, client, sourceName(p), ttl, logger)
	}

	var providers []service.RouteTimeProvider

	if cfg.Maps.BaseURL != "" && cfg.Maps.APIKey != "" {
		logger.Info("Using traffic-aware maps provider",
			slog.String("base_url", cfg.Maps.BaseURL),
		)
		providers = append(providers, cached(
			NewMapsProvider(cfg.Maps.BaseURL, cfg.Maps.APIKey, timeout, logger),
			cfg.TrafficAwareTTL,
		))
	}

	if cfg.OSRM.BaseURL != "" {
		logger.Info("Using OSRM fallback provider",
			slog.String("base_url", cfg.OSRM.BaseURL),
		)
		providers = append(providers, cached(
			NewOSRMProvider(cfg.OSRM.BaseURL, timeout, logger),
			cfg.StaticTTL,
		))
	}

	if len(providers) == 0 {
		return nil, errors.New("at least one routing provider must be configured")
	}

	return NewChain(logger, providers...), nil
}

// routeCacheClient builds the Redis client for the route-time cache, or nil
// when Redis is not configured.
func routeCacheClient(params ProviderParams, logger *slog.Logger) (*redis.Client, error) {
	if params.Config.Redis == nil || params.Config.Redis.URL == "" {
		logger.Info("Redis not configured, route-time cache disabled")

		return nil, nil
	}

	opts, err := redis.ParseURL(params.Config.Redis.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse redis url")
	}

	client := redis.NewClient(opts)
	params.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
		OnStop: func(context.Context) error {
			logger.Info("Closing route cache redis client")

			return client.Close()
		},
	})

	return client, nil
}

// Module provides the route-time provider FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewRouteTimeProvider),
)
