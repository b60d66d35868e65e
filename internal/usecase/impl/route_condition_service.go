package impl

import (
	"context"
	"log/slog"
	"time"

	"smartqueue/internal/domain/entity"
	"smartqueue/internal/domain/repository"
	"smartqueue/internal/domain/service"
	"smartqueue/internal/errors"
	"smartqueue/internal/usecase"
)

// majorRoutes are the corridors the refresh job keeps warm, by locality name.
// The list mirrors the busiest commuter routes around the capital.
var majorRoutes = [][2]string{
	{"Dakar", "Pikine"},
	{"Dakar", "Guediawaye"},
	{"Dakar", "Thiaroye"},
	{"Pikine", "Diamniadio"},
	{"Dakar", "Rufisque"},
	{"Dakar", "Keur Massar"},
}

type routeConditionService struct {
	localityRepo  repository.LocalityRepository
	conditionRepo repository.RouteConditionRepository
	routeTime     service.RouteTimeProvider
	logger        *slog.Logger
	now           func() time.Time
}

// NewRouteConditionSync builds the traffic-condition refresh job.
func NewRouteConditionSync(
	localityRepo repository.LocalityRepository,
	conditionRepo repository.RouteConditionRepository,
	routeTime service.RouteTimeProvider,
	logger *slog.Logger,
) usecase.RouteConditionSync {
	return &routeConditionService{
		localityRepo:  localityRepo,
		conditionRepo: conditionRepo,
		routeTime:     routeTime,
		logger:        logger,
		now:           time.Now,
	}
}

// RefreshRouteConditions re-queries the provider chain for each major route
// and upserts the observed condition.
func (s *routeConditionService) RefreshRouteConditions(ctx context.Context) (usecase.JobReport, error) {
	var report usecase.JobReport

	localities, err := s.localityRepo.ListLocalities(ctx)
	if err != nil {
		return report, errors.Wrap(err, "failed to list localities")
	}

	byName := make(map[string]entity.Locality, len(localities))
	for _, l := range localities {
		byName[l.Name] = l
	}

	now := s.now()
	for _, route := range majorRoutes {
		if ctx.Err() != nil {
			return report, errors.Wrap(ctx.Err(), "condition refresh canceled")
		}

		origin, okO := byName[route[0]]
		dest, okD := byName[route[1]]
		if !okO || !okD {
			report.Skipped++

			continue
		}

		leg, err := s.routeTime.Duration(ctx, origin.Latitude, origin.Longitude, dest.Latitude, dest.Longitude, now)
		if err != nil {
			s.logger.Warn("route condition query failed",
				slog.String("origin", origin.Name),
				slog.String("dest", dest.Name),
				slog.Any("error", err),
			)
			report.Failed++

			continue
		}

		condition := buildRouteCondition(&origin, &dest, leg, now)
		if err := s.conditionRepo.Upsert(ctx, condition); err != nil {
			s.logger.Error("route condition upsert failed",
				slog.String("origin", origin.Name),
				slog.String("dest", dest.Name),
				slog.Any("error", err),
			)
			report.Failed++

			continue
		}

		s.logger.Info("route condition refreshed",
			slog.String("origin", origin.Name),
			slog.String("dest", dest.Name),
			slog.String("state", string(condition.State)),
			slog.Float64("delay_factor", condition.DelayFactor),
		)
		report.Processed++
	}

	return report, nil
}

// buildRouteCondition derives the delay factor from the traffic-aware vs
// free-flow durations when the provider reports both.
func buildRouteCondition(origin, dest *entity.Locality, leg *service.RouteLeg, now time.Time) *entity.RouteCondition {
	delayFactor := 1.0
	minutes := leg.Minutes
	if leg.TrafficMinutes > 0 && leg.Minutes > 0 {
		delayFactor = leg.TrafficMinutes / leg.Minutes
		minutes = leg.TrafficMinutes
	}

	return &entity.RouteCondition{
		SourceLocalityID:      origin.ID,
		DestinationLocalityID: dest.ID,
		State:                 entity.RouteStateForDelay(delayFactor),
		TravelMinutes:         int(minutes),
		DistanceKm:            leg.DistanceKm,
		DelayFactor:           delayFactor,
		Source:                leg.Source,
		ReliabilityScore:      85,
		UpdatedAt:             now,
	}
}
