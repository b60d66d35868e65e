package impl

import (
	"context"
	"log/slog"
	"math"
	"time"

	"smartqueue/config"
	"smartqueue/internal/domain/entity"
	"smartqueue/internal/domain/repository"
	"smartqueue/internal/domain/service"
	"smartqueue/internal/errors"
	"smartqueue/internal/infra/geo"
	"smartqueue/internal/usecase"

	"github.com/google/uuid"
)

const (
	defaultBaseSpeedKmh     = 40.0
	defaultMarginMultiplier = 1.5
	internalSource          = "internal"
)

type travelEstimator struct {
	cfg          *config.EstimatorConfig
	index        *geo.Index
	traffic      usecase.TrafficModel
	routeTime    service.RouteTimeProvider
	positionRepo repository.PositionRepository
	estimateRepo repository.EstimateRepository
	weatherRepo  repository.WeatherRepository
	logger       *slog.Logger
	now          func() time.Time
}

// NewTravelEstimator wires the estimation pipeline.
func NewTravelEstimator(
	cfg *config.Config,
	index *geo.Index,
	traffic usecase.TrafficModel,
	routeTime service.RouteTimeProvider,
	positionRepo repository.PositionRepository,
	estimateRepo repository.EstimateRepository,
	weatherRepo repository.WeatherRepository,
	logger *slog.Logger,
) usecase.TravelEstimator {
	return &travelEstimator{
		cfg:          cfg.Estimator,
		index:        index,
		traffic:      traffic,
		routeTime:    routeTime,
		positionRepo: positionRepo,
		estimateRepo: estimateRepo,
		weatherRepo:  weatherRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// EstimateForUser resolves the caller's shared position before estimating.
func (s *travelEstimator) EstimateForUser(ctx context.Context, userID, destinationID uuid.UUID, destLat, destLon float64, departure time.Time) (*entity.TravelEstimate, error) {
	position, err := s.positionRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrPositionNotFound) {
			return nil, service.ErrPositionUnavailable
		}

		return nil, errors.Wrap(err, "failed to load user position")
	}

	if !position.SharingEnabled {
		return nil, service.ErrPositionUnavailable
	}

	return s.Estimate(ctx, usecase.EstimateInput{
		UserID:        userID,
		OriginLat:     position.Latitude,
		OriginLon:     position.Longitude,
		DestLat:       destLat,
		DestLon:       destLon,
		TransportMode: position.TransportMode,
		DestinationID: destinationID,
		Departure:     departure,
	})
}

// Estimate runs the full pipeline: locality resolution, baseline, provider
// attempt with local fallback, factor application, safety margin, persistence.
func (s *travelEstimator) Estimate(ctx context.Context, input usecase.EstimateInput) (*entity.TravelEstimate, error) {
	departure := input.Departure
	if departure.IsZero() {
		departure = s.now()
	}

	origin, err := s.index.NearestLocality(input.OriginLat, input.OriginLon)
	if err != nil {
		return nil, err
	}
	dest, err := s.index.NearestLocality(input.DestLat, input.DestLon)
	if err != nil {
		return nil, err
	}

	// Baseline: haversine distance over the assumed urban speed for the mode.
	baseDistanceKm := geo.Distance(input.OriginLat, input.OriginLon, input.DestLat, input.DestLon)
	baseMinutes := baseDistanceKm / s.baseSpeed(input.TransportMode) * 60

	apiMinutes := baseMinutes
	distanceKm := baseDistanceKm
	confidence := s.cfg.FallbackConfidence
	source := internalSource

	leg, err := s.routeTime.Duration(ctx, input.OriginLat, input.OriginLon, input.DestLat, input.DestLon, departure)
	if err != nil {
		s.logger.Warn("route providers unavailable, falling back to local estimate",
			slog.String("user_id", input.UserID.String()),
			slog.Any("error", err),
		)
	} else {
		apiMinutes = leg.Minutes
		distanceKm = leg.DistanceKm
		confidence = s.cfg.ProviderConfidence
		source = leg.Source
	}

	trafficFactor := s.traffic.FactorForTime(departure)
	routeFactor := s.traffic.FactorForRoute(ctx, origin, dest)
	weatherFactor := s.weatherFactor(ctx, dest.RegionID)

	adjustedMinutes := int(apiMinutes * trafficFactor * routeFactor * weatherFactor)

	margin := s.safetyMargin(adjustedMinutes, confidence, input.TransportMode)
	finalMinutes := adjustedMinutes + margin

	estimate := &entity.TravelEstimate{
		ID:                   uuid.New(),
		UserID:               input.UserID,
		OriginLatitude:       input.OriginLat,
		OriginLongitude:      input.OriginLon,
		OriginLocalityID:     origin.ID,
		DestLatitude:         input.DestLat,
		DestLongitude:        input.DestLon,
		DestLocalityID:       dest.ID,
		DestinationID:        input.DestinationID,
		TravelMinutes:        finalMinutes,
		DistanceKm:           distanceKm,
		TransportMode:        input.TransportMode,
		TrafficFactor:        trafficFactor,
		RouteFactor:          routeFactor,
		WeatherFactor:        weatherFactor,
		SafetyMarginMin:      margin,
		RecommendedDeparture: departure,
		EstimatedArrival:     departure.Add(time.Duration(finalMinutes) * time.Minute),
		ConfidenceScore:      confidence,
		Source:               source,
		CreatedAt:            s.now(),
	}

	if err := s.estimateRepo.Create(ctx, estimate); err != nil {
		return nil, errors.Wrap(err, "failed to persist travel estimate")
	}

	s.logger.Info("travel estimate computed",
		slog.String("user_id", input.UserID.String()),
		slog.String("origin", origin.Name),
		slog.String("dest", dest.Name),
		slog.Int("minutes", finalMinutes),
		slog.Int("confidence", confidence),
		slog.String("source", source),
	)

	return estimate, nil
}

func (s *travelEstimator) baseSpeed(mode entity.TransportMode) float64 {
	if speed, ok := s.cfg.BaseSpeedsKmh[mode.String()]; ok && speed > 0 {
		return speed
	}

	return defaultBaseSpeedKmh
}

// safetyMargin widens with low confidence and unreliable transport, clamped
// to the configured window.
func (s *travelEstimator) safetyMargin(estimatedMinutes, confidence int, mode entity.TransportMode) int {
	base := int(math.Round(float64(estimatedMinutes) * float64(100-confidence) / 100))
	if base < s.cfg.MinMarginMinutes {
		base = s.cfg.MinMarginMinutes
	}

	mult, ok := s.cfg.MarginMultipliers[mode.String()]
	if !ok {
		mult = defaultMarginMultiplier
	}

	margin := int(float64(base) * mult)
	if margin < s.cfg.MinMarginMinutes {
		margin = s.cfg.MinMarginMinutes
	}
	if margin > s.cfg.MaxMarginMinutes {
		margin = s.cfg.MaxMarginMinutes
	}

	return margin
}

func (s *travelEstimator) weatherFactor(ctx context.Context, regionID uuid.UUID) float64 {
	impact, err := s.weatherRepo.FindByRegion(ctx, regionID)
	if err != nil {
		s.logger.Warn("weather lookup failed, assuming no impact", slog.Any("error", err))

		return 1.0
	}
	if impact == nil || !impact.IsFresh(s.now(), s.cfg.WeatherMaxAge) {
		return 1.0
	}

	return impact.ImpactFactor
}
