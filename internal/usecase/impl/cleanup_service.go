package impl

import (
	"context"
	"log/slog"
	"time"

	"smartqueue/internal/domain/repository"
	"smartqueue/internal/errors"
	"smartqueue/internal/usecase"
)

// Retention windows. Estimates are analytics-adjacent and short-lived; route
// conditions decay even faster; sharing is revoked for abandoned positions.
const (
	estimateRetention       = 24 * time.Hour
	routeConditionRetention = 2 * time.Hour
	sharingRetention        = 24 * time.Hour
)

type cleanupService struct {
	estimateRepo  repository.EstimateRepository
	conditionRepo repository.RouteConditionRepository
	positionRepo  repository.PositionRepository
	logger        *slog.Logger
	now           func() time.Time
}

// NewCleaner builds the daily retention job.
func NewCleaner(
	estimateRepo repository.EstimateRepository,
	conditionRepo repository.RouteConditionRepository,
	positionRepo repository.PositionRepository,
	logger *slog.Logger,
) usecase.Cleaner {
	return &cleanupService{
		estimateRepo:  estimateRepo,
		conditionRepo: conditionRepo,
		positionRepo:  positionRepo,
		logger:        logger,
		now:           time.Now,
	}
}

// Cleanup applies the retention windows. Each deletion is independent; a
// failure in one does not stop the others.
func (s *cleanupService) Cleanup(ctx context.Context) (usecase.JobReport, error) {
	var report usecase.JobReport
	var errs []error

	now := s.now()

	estimates, err := s.estimateRepo.DeleteOlderThan(ctx, now.Add(-estimateRetention))
	if err != nil {
		errs = append(errs, errors.Wrap(err, "failed to delete old estimates"))
		report.Failed++
	} else {
		report.Processed += int(estimates)
	}

	conditions, err := s.conditionRepo.DeleteOlderThan(ctx, now.Add(-routeConditionRetention))
	if err != nil {
		errs = append(errs, errors.Wrap(err, "failed to delete old route conditions"))
		report.Failed++
	} else {
		report.Processed += int(conditions)
	}

	disabled, err := s.positionRepo.DisableSharingUntouchedSince(ctx, now.Add(-sharingRetention))
	if err != nil {
		errs = append(errs, errors.Wrap(err, "failed to disable stale sharing"))
		report.Failed++
	} else {
		report.Processed += int(disabled)
	}

	s.logger.Info("location data cleanup finished",
		slog.Int64("estimates_deleted", estimates),
		slog.Int64("conditions_deleted", conditions),
		slog.Int64("sharing_disabled", disabled),
	)

	return report, errors.Join(errs...)
}
