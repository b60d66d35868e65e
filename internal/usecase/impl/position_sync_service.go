package impl

import (
	"context"
	"log/slog"
	"time"

	"smartqueue/internal/domain/repository"
	"smartqueue/internal/errors"
	"smartqueue/internal/infra/geo"
	"smartqueue/internal/usecase"
)

// positionRecencyWindow bounds which positions the refresh job touches:
// anything older has nothing new to derive.
const positionRecencyWindow = time.Hour

type positionSyncService struct {
	index        *geo.Index
	positionRepo repository.PositionRepository
	logger       *slog.Logger
	now          func() time.Time
}

// NewPositionSync builds the nearest-locality refresh job.
func NewPositionSync(index *geo.Index, positionRepo repository.PositionRepository, logger *slog.Logger) usecase.PositionSync {
	return &positionSyncService{
		index:        index,
		positionRepo: positionRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// RefreshNearestLocalities recomputes the derived nearest locality for every
// sharing-enabled position updated in the last hour.
func (s *positionSyncService) RefreshNearestLocalities(ctx context.Context) (usecase.JobReport, error) {
	var report usecase.JobReport

	positions, err := s.positionRepo.ListSharingUpdatedSince(ctx, s.now().Add(-positionRecencyWindow))
	if err != nil {
		return report, errors.Wrap(err, "failed to list recent positions")
	}

	for _, position := range positions {
		if ctx.Err() != nil {
			return report, errors.Wrap(ctx.Err(), "position refresh canceled")
		}

		nearest, err := s.index.NearestLocality(position.Latitude, position.Longitude)
		if err != nil {
			report.Skipped++

			continue
		}

		if nearest.ID == position.NearestLocalityID {
			report.Skipped++

			continue
		}

		if err := s.positionRepo.UpdateNearestLocality(ctx, position.UserID, nearest.ID); err != nil {
			s.logger.Error("failed to update nearest locality",
				slog.String("user_id", position.UserID.String()),
				slog.Any("error", err),
			)
			report.Failed++

			continue
		}

		s.logger.Info("user moved to a new locality",
			slog.String("user_id", position.UserID.String()),
			slog.String("locality", nearest.Name),
		)
		report.Processed++
	}

	return report, nil
}
