// Package handler exposes the periodic jobs to the scheduler and to the
// manual trigger endpoint.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	deliverycontext "smartqueue/internal/delivery/context"
	"smartqueue/internal/errors"
	"smartqueue/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ErrJobAlreadyRunning is returned when a job is triggered while another
// instance of it is still in flight.
var ErrJobAlreadyRunning = errors.New("job is already running")

// Job names, also used as trigger endpoint path parameters.
const (
	JobRefreshPositions  = "refresh-positions"
	JobComputeEstimates  = "compute-estimates"
	JobEvaluateReorders  = "evaluate-reorders"
	JobDepartureNotices  = "departure-notices"
	JobRefreshConditions = "refresh-conditions"
	JobCleanup           = "cleanup"
)

// JobRunner executes one named job.
type JobRunner func(ctx context.Context) (usecase.JobReport, error)

// JobHandlerParams holds dependencies for JobHandler, injected by Fx.
type JobHandlerParams struct {
	fx.In

	PositionSync       usecase.PositionSync
	EstimateSync       usecase.EstimateSync
	ReorderEvaluator   usecase.ReorderEvaluator
	DepartureNotifier  usecase.DepartureNotifier
	RouteConditionSync usecase.RouteConditionSync
	Cleaner            usecase.Cleaner
	Logger             *slog.Logger
}

// JobHandler owns the job registry.
type JobHandler struct {
	runners map[string]JobRunner
	logger  *slog.Logger
}

// NewJobHandler is the constructor for JobHandler. Every runner is wrapped
// with a per-job guard, so the scheduler and the manual trigger endpoint
// share the same at-most-one-instance guarantee.
func NewJobHandler(params JobHandlerParams) *JobHandler {
	runners := map[string]JobRunner{
		JobRefreshPositions:  params.PositionSync.RefreshNearestLocalities,
		JobComputeEstimates:  params.EstimateSync.ComputeEstimates,
		JobEvaluateReorders:  params.ReorderEvaluator.EvaluateReorders,
		JobDepartureNotices:  params.DepartureNotifier.DispatchDepartureNotices,
		JobRefreshConditions: params.RouteConditionSync.RefreshRouteConditions,
		JobCleanup:           params.Cleaner.Cleanup,
	}
	for name, runner := range runners {
		runners[name] = nonOverlapping(runner)
	}

	return &JobHandler{
		runners: runners,
		logger:  params.Logger,
	}
}

// nonOverlapping rejects a run while a previous one is still in flight
// instead of queueing behind it. The scheduler retries with backoff, so a
// rejected tick gets picked up shortly after the running instance finishes.
func nonOverlapping(runner JobRunner) JobRunner {
	var mu sync.Mutex

	return func(ctx context.Context) (usecase.JobReport, error) {
		if !mu.TryLock() {
			return usecase.JobReport{}, errors.WithStack(ErrJobAlreadyRunning)
		}
		defer mu.Unlock()

		return runner(ctx)
	}
}

// Runner returns the runner for a job name.
func (h *JobHandler) Runner(name string) (JobRunner, bool) {
	runner, ok := h.runners[name]

	return runner, ok
}

// HandleTrigger runs one job on demand, outside its schedule.
func (h *JobHandler) HandleTrigger(c echo.Context) error {
	name := c.Param("name")
	runner, ok := h.runners[name]
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "unknown job: " + name})
	}

	ctx := c.Request().Context()
	logger := deliverycontext.GetLoggerOrDefault(ctx, h.logger)

	start := time.Now()
	report, err := runner(ctx)
	if err != nil {
		if errors.Is(err, ErrJobAlreadyRunning) {
			return c.JSON(http.StatusConflict, map[string]string{
				"job":   name,
				"error": "job is already running",
			})
		}

		logger.Error("manual job run failed",
			slog.String("job", name),
			slog.Any("error", err),
		)

		return c.JSON(http.StatusInternalServerError, map[string]any{
			"job":       name,
			"error":     err.Error(),
			"processed": report.Processed,
			"skipped":   report.Skipped,
			"failed":    report.Failed,
		})
	}

	logger.Info("manual job run finished",
		slog.String("job", name),
		slog.Duration("took", time.Since(start)),
	)

	return c.JSON(http.StatusOK, map[string]any{
		"job":       name,
		"took_ms":   time.Since(start).Milliseconds(),
		"processed": report.Processed,
		"skipped":   report.Skipped,
		"failed":    report.Failed,
	})
}
