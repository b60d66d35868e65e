package main

import (
	"context"
	"log/slog"
	"os"

	"smartqueue/config"
	"smartqueue/internal/delivery"
	"smartqueue/internal/delivery/http"
	"smartqueue/internal/delivery/http/router/handler"
	"smartqueue/internal/infra/geo"
	logs "smartqueue/internal/infra/log"
	"smartqueue/internal/infra/persistence/postgres"
	"smartqueue/internal/infra/routeapi"
	"smartqueue/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectUsecase(),
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
			postgres.New,
			geo.NewIndex,
			routeapi.NewRouteTimeProvider,
		),
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewLocalityRepository,
			postgres.NewPositionRepository,
			postgres.NewRouteConditionRepository,
			postgres.NewWeatherRepository,
			postgres.NewEstimateRepository,
			postgres.NewQueueRepository,
			postgres.NewAppointmentRepository,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewTrafficModel,
			impl.NewTravelEstimator,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewPositionHandler,
			handler.NewEstimateHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))

				// Trigger graceful shutdown to execute all OnStop hooks
				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}
