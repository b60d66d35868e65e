// Package impl contains the concrete implementations of the use-case layer.
package impl

import (
	"context"
	"log/slog"
	"time"

	"smartqueue/config"
	"smartqueue/internal/domain/entity"
	"smartqueue/internal/domain/repository"
	"smartqueue/internal/usecase"
)

// The combined time-of-day factor is kept inside this band so an aggressive
// table entry can never explode or collapse an estimate.
const (
	minTimeFactor = 0.5
	maxTimeFactor = 3.0
)

type trafficModel struct {
	cfg           *config.TrafficConfig
	conditionRepo repository.RouteConditionRepository
	logger        *slog.Logger
	now           func() time.Time
}

// NewTrafficModel builds the congestion model over the configured tables.
func NewTrafficModel(cfg *config.Config, conditionRepo repository.RouteConditionRepository, logger *slog.Logger) usecase.TrafficModel {
	return &trafficModel{
		cfg:           cfg.Traffic,
		conditionRepo: conditionRepo,
		logger:        logger,
		now:           time.Now,
	}
}

// FactorForTime is a pure lookup: hourly table times daily table, clamped
// to [minTimeFactor, maxTimeFactor].
func (m *trafficModel) FactorForTime(departure time.Time) float64 {
	hourly, ok := m.cfg.HourlyFactors[departure.Hour()]
	if !ok {
		hourly = 1.0
	}

	daily, ok := m.cfg.DailyFactors[int(departure.Weekday())]
	if !ok {
		daily = 1.0
	}

	factor := hourly * daily
	if factor < minTimeFactor {
		return minTimeFactor
	}
	if factor > maxTimeFactor {
		return maxTimeFactor
	}

	return factor
}

// IsRushHour reports whether the hour falls in the morning or evening window.
func (m *trafficModel) IsRushHour(at time.Time) bool {
	h := at.Hour()

	return (h >= m.cfg.MorningRushStart && h < m.cfg.MorningRushEnd) ||
		(h >= m.cfg.EveningRushStart && h < m.cfg.EveningRushEnd)
}

// FactorForRoute degrades gracefully: fresh observed condition, then the
// average of the two locality baselines, then the conservative default.
func (m *trafficModel) FactorForRoute(ctx context.Context, origin, dest *entity.Locality) float64 {
	if origin == nil || dest == nil {
		return m.cfg.DefaultRouteFactor
	}

	condition, err := m.conditionRepo.FindByRoute(ctx, origin.ID, dest.ID)
	if err != nil {
		m.logger.Warn("route condition lookup failed, using baseline factor",
			slog.String("origin", origin.Name),
			slog.String("dest", dest.Name),
			slog.Any("error", err),
		)
	} else if condition != nil && condition.IsFresh(m.now(), m.cfg.RouteConditionMaxAge) {
		return condition.DelayFactor
	}

	if origin.CongestionFactor > 0 && dest.CongestionFactor > 0 {
		return (origin.CongestionFactor + dest.CongestionFactor) / 2
	}

	return m.cfg.DefaultRouteFactor
}
