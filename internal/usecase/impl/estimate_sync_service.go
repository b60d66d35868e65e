package impl

import (
	"context"
	"log/slog"
	"time"

	"smartqueue/config"
	"smartqueue/internal/domain/entity"
	"smartqueue/internal/domain/repository"
	"smartqueue/internal/domain/service"
	"smartqueue/internal/errors"
	"smartqueue/internal/usecase"
)

// positionMaxAgeForEstimate: a position older than this is too stale to base
// an estimate on.
const positionMaxAgeForEstimate = 30 * time.Minute

type estimateSyncService struct {
	cfg          *config.EstimatorConfig
	estimator    usecase.TravelEstimator
	queueRepo    repository.QueueRepository
	positionRepo repository.PositionRepository
	estimateRepo repository.EstimateRepository
	logger       *slog.Logger
	now          func() time.Time
}

// NewEstimateSync builds the periodic estimate computation job.
func NewEstimateSync(
	cfg *config.Config,
	estimator usecase.TravelEstimator,
	queueRepo repository.QueueRepository,
	positionRepo repository.PositionRepository,
	estimateRepo repository.EstimateRepository,
	logger *slog.Logger,
) usecase.EstimateSync {
	return &estimateSyncService{
		cfg:          cfg.Estimator,
		estimator:    estimator,
		queueRepo:    queueRepo,
		positionRepo: positionRepo,
		estimateRepo: estimateRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// ComputeEstimates walks active queues and estimates travel for each eligible
// ticket. Re-running immediately is a no-op: owners with an estimate younger
// than the freshness window are skipped.
func (s *estimateSyncService) ComputeEstimates(ctx context.Context) (usecase.JobReport, error) {
	var report usecase.JobReport

	queues, err := s.queueRepo.ListActiveQueues(ctx)
	if err != nil {
		return report, errors.Wrap(err, "failed to list active queues")
	}

	now := s.now()
	for _, queue := range queues {
		for _, ticket := range queue.Tickets {
			if ctx.Err() != nil {
				return report, errors.Wrap(ctx.Err(), "estimate computation canceled")
			}

			if !ticket.Status.IsActive() {
				report.Skipped++

				continue
			}

			if !s.eligible(ctx, ticket, queue, now) {
				report.Skipped++

				continue
			}

			_, err := s.estimator.EstimateForUser(ctx, ticket.UserID, queue.DestinationID, queue.DestLatitude, queue.DestLongitude, now)
			switch {
			case err == nil:
				report.Processed++
			case errors.Is(err, service.ErrPositionUnavailable), errors.Is(err, service.ErrLocalityUnresolved):
				// Precondition failures skip the ticket for this cycle.
				report.Skipped++
			default:
				s.logger.Error("estimate computation failed",
					slog.String("ticket_id", ticket.ID.String()),
					slog.Any("error", err),
				)
				report.Failed++
			}
		}
	}

	return report, nil
}

func (s *estimateSyncService) eligible(ctx context.Context, ticket entity.Ticket, queue *entity.QueueSnapshot, now time.Time) bool {
	position, err := s.positionRepo.FindByUser(ctx, ticket.UserID)
	if err != nil || !position.SharingEnabled || !position.IsFresh(now, positionMaxAgeForEstimate) {
		return false
	}

	latest, err := s.estimateRepo.FindLatest(ctx, ticket.UserID, queue.DestinationID)
	if err != nil {
		s.logger.Warn("latest estimate lookup failed",
			slog.String("user_id", ticket.UserID.String()),
			slog.Any("error", err),
		)

		return false
	}
	if latest != nil && latest.IsFresh(now, s.cfg.EstimateMaxAge) {
		return false
	}

	return true
}
