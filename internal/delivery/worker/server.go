package worker

import (
	"context"
	"log/slog"
	"net"
	"strconv"
	"time"

	"smartqueue/config"
	"smartqueue/internal/delivery"
	"smartqueue/internal/delivery/middleware"
	"smartqueue/internal/delivery/worker/handler"
	"smartqueue/internal/domain/lifecycle"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type workerServer struct {
	cfg       *config.Config
	logger    *slog.Logger
	server    *echo.Echo
	scheduler *Scheduler
	cancel    context.CancelFunc
}

// ServerParams holds dependencies for the worker server
type ServerParams struct {
	fx.In

	Lc         fx.Lifecycle
	Cfg        *config.Config
	Logger     *slog.Logger
	JobHandler *handler.JobHandler
}

// NewServer creates the scheduler worker: periodic jobs plus a small HTTP
// surface for health checks and manual job triggers.
func NewServer(params ServerParams) (delivery.Delivery, error) {
	e := echo.New()
	e.HideBanner = true

	// Set up middleware in correct order
	// 1. Recover middleware first (to catch panics early)
	e.Use(echomiddleware.Recover())

	// 2. Request ID middleware (must be before logger to include in logs)
	requestIDMiddleware := middleware.NewRequestIDMiddleware(params.Logger)
	e.Use(requestIDMiddleware.Process)

	// 3. Logger middleware
	loggerMiddleware := middleware.NewLoggerMiddleware(params.Logger, params.Cfg)
	e.Use(loggerMiddleware.Handle)

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// Manual trigger endpoint
	e.POST("/jobs/:name", params.JobHandler.HandleTrigger)

	scheduler, err := newSchedulerFromConfig(params.Cfg.Scheduler, params.JobHandler, params.Logger)
	if err != nil {
		return nil, err
	}

	srv := &workerServer{
		cfg:       params.Cfg,
		logger:    params.Logger,
		server:    e,
		scheduler: scheduler,
	}

	params.Lc.Append(fx.Hook{
		OnStop: srv.stop,
	})

	return srv, nil
}

// newSchedulerFromConfig binds configured intervals to the registered jobs.
func newSchedulerFromConfig(cfg *config.SchedulerConfig, jobs *handler.JobHandler, logger *slog.Logger) (*Scheduler, error) {
	if cfg == nil {
		return nil, errors.New("scheduler configuration is required")
	}

	schedule := []struct {
		name     string
		interval time.Duration
	}{
		{handler.JobRefreshPositions, cfg.RefreshPositionsInterval},
		{handler.JobComputeEstimates, cfg.ComputeEstimatesInterval},
		{handler.JobEvaluateReorders, cfg.EvaluateReordersInterval},
		{handler.JobDepartureNotices, cfg.DepartureNoticesInterval},
		{handler.JobRefreshConditions, cfg.RefreshConditionsInterval},
		{handler.JobCleanup, cfg.CleanupInterval},
	}

	entries := make([]Job, 0, len(schedule))
	for _, s := range schedule {
		runner, ok := jobs.Runner(s.name)
		if !ok {
			return nil, errors.Errorf("no runner registered for job %s", s.name)
		}
		if s.interval <= 0 {
			return nil, errors.Errorf("job %s has no interval configured", s.name)
		}
		entries = append(entries, Job{
			Name:     s.name,
			Interval: s.interval,
			Run:      runner,
		})
	}

	return NewScheduler(entries, cfg.MaxAttempts, cfg.BackoffBase, logger), nil
}

// Serve starts the scheduler and the worker HTTP server.
func (s *workerServer) Serve(ctx context.Context) error {
	schedulerCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	go s.scheduler.Run(schedulerCtx)

	hostPort := net.JoinHostPort("0.0.0.0", strconv.Itoa(s.cfg.HTTP.Port))
	s.logger.Info("Starting Worker HTTP server", slog.String("hostPort", hostPort))
	if err := s.server.Start(hostPort); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// stop gracefully shuts down the scheduler and the worker server
func (s *workerServer) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("Shutting down Worker HTTP server")

	if s.cancel != nil {
		s.cancel()
	}

	return errors.WithStack(s.server.Shutdown(shutdownCtx))
}
