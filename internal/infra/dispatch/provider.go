// Package dispatch wires the outbound notification channel: noop when
// unconfigured, local HTTP push for development, Google Pub/Sub in production.
package dispatch

import (
	"context"
	"log/slog"

	"smartqueue/config"
	"smartqueue/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	providerLocal  = "local"
	providerGoogle = "google"
)

// noopDispatcher is a no-op implementation when dispatch is disabled
type noopDispatcher struct {
	logger *slog.Logger
}

func (d *noopDispatcher) DispatchDepartureNotice(ctx context.Context, notice *service.DepartureNotice) error {
	d.logger.Debug("[NoopDispatch] Notice dispatch disabled, skipping",
		slog.String("appointment_id", notice.AppointmentID),
	)

	return nil
}

func (d *noopDispatcher) Close() error {
	return nil
}

// DispatcherParams holds dependencies for NotificationDispatcher, injected by Fx
type DispatcherParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewNotificationDispatcher creates a NotificationDispatcher based on configuration
func NewNotificationDispatcher(params DispatcherParams) (service.NotificationDispatcher, error) {
	cfg := params.Config.Dispatch
	logger := params.Logger

	// If dispatch is not configured, return a no-op dispatcher
	if cfg == nil || cfg.Provider == "" {
		logger.Info("Dispatch not configured, using no-op dispatcher")

		return &noopDispatcher{logger: logger}, nil
	}

	var dispatcher service.NotificationDispatcher
	var err error

	switch cfg.Provider {
	case providerLocal:
		if cfg.LocalEndpoint == "" {
			return nil, errors.New("local endpoint is required for local provider")
		}
		logger.Info("Using local HTTP dispatcher",
			slog.String("endpoint", cfg.LocalEndpoint),
		)

		dispatcher = NewLocalHTTPDispatcher(cfg.LocalEndpoint, logger)

	case providerGoogle:
		if cfg.ProjectID == "" {
			return nil, errors.New("project ID is required for google provider")
		}
		if cfg.TopicID == "" {
			return nil, errors.New("topic ID is required for google provider")
		}
		logger.Info("Using Google Pub/Sub dispatcher",
			slog.String("project_id", cfg.ProjectID),
			slog.String("topic_id", cfg.TopicID),
		)

		dispatcher, err = NewGoogleDispatcher(params.Ctx, cfg.ProjectID, cfg.TopicID, logger)
		if err != nil {
			return nil, err
		}

	default:
		return nil, errors.Errorf("unknown dispatch provider: %s", cfg.Provider)
	}

	// Register lifecycle hook to close dispatcher on shutdown
	params.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("Closing NotificationDispatcher")

			return dispatcher.Close()
		},
	})

	return dispatcher, nil
}

// Module provides the dispatch FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewNotificationDispatcher),
)
