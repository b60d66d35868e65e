package postgres

import (
	"context"
	"time"

	"smartqueue/internal/domain/entity"
	domainerrors "smartqueue/internal/domain/errors"
	"smartqueue/internal/domain/repository"
	"smartqueue/internal/errors"
	"smartqueue/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// estimateRepository implements the domain.EstimateRepository interface.
type estimateRepository struct {
	db *gorm.DB
}

// NewEstimateRepository is the constructor for estimateRepository.
func NewEstimateRepository(db *gorm.DB) repository.EstimateRepository {
	return &estimateRepository{db: db}
}

// Create persists exactly one new estimate row.
func (repo *estimateRepository) Create(ctx context.Context, estimate *entity.TravelEstimate) error {
	estimateM := fromEstimateDomain(estimate)

	if err := repo.db.WithContext(ctx).Create(estimateM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create travel estimate")
	}

	// Update the entity with generated values
	estimate.ID = estimateM.ID
	estimate.CreatedAt = estimateM.CreatedAt

	return nil
}

// FindLatest returns the newest estimate for a (user, destination) pair, or
// nil when none exists.
func (repo *estimateRepository) FindLatest(ctx context.Context, userID, destinationID uuid.UUID) (*entity.TravelEstimate, error) {
	var estimateM model.TravelEstimateModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ? AND destination_id = ?", userID, destinationID).
		Order("created_at DESC").
		First(&estimateM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find latest estimate")
	}

	return toEstimateDomain(&estimateM), nil
}

// DeleteOlderThan removes estimates created before the cutoff.
func (repo *estimateRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := repo.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&model.TravelEstimateModel{})
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete old estimates")
	}

	return result.RowsAffected, nil
}

// fromEstimateDomain converts a domain TravelEstimate entity to a GORM TravelEstimateModel.
func fromEstimateDomain(data *entity.TravelEstimate) *model.TravelEstimateModel {
	return &model.TravelEstimateModel{
		ID:                   data.ID,
		UserID:               data.UserID,
		OriginLatitude:       data.OriginLatitude,
		OriginLongitude:      data.OriginLongitude,
		OriginLocalityID:     data.OriginLocalityID,
		DestLatitude:         data.DestLatitude,
		DestLongitude:        data.DestLongitude,
		DestLocalityID:       data.DestLocalityID,
		DestinationID:        data.DestinationID,
		TravelMinutes:        data.TravelMinutes,
		DistanceKm:           data.DistanceKm,
		TransportMode:        string(data.TransportMode),
		TrafficFactor:        data.TrafficFactor,
		RouteFactor:          data.RouteFactor,
		WeatherFactor:        data.WeatherFactor,
		SafetyMarginMin:      data.SafetyMarginMin,
		RecommendedDeparture: data.RecommendedDeparture,
		EstimatedArrival:     data.EstimatedArrival,
		ConfidenceScore:      data.ConfidenceScore,
		Source:               data.Source,
		CreatedAt:            data.CreatedAt,
	}
}

// toEstimateDomain converts a GORM TravelEstimateModel to a domain TravelEstimate entity.
func toEstimateDomain(data *model.TravelEstimateModel) *entity.TravelEstimate {
	return &entity.TravelEstimate{
		ID:                   data.ID,
		UserID:               data.UserID,
		OriginLatitude:       data.OriginLatitude,
		OriginLongitude:      data.OriginLongitude,
		OriginLocalityID:     data.OriginLocalityID,
		DestLatitude:         data.DestLatitude,
		DestLongitude:        data.DestLongitude,
		DestLocalityID:       data.DestLocalityID,
		DestinationID:        data.DestinationID,
		TravelMinutes:        data.TravelMinutes,
		DistanceKm:           data.DistanceKm,
		TransportMode:        entity.TransportMode(data.TransportMode),
		TrafficFactor:        data.TrafficFactor,
		RouteFactor:          data.RouteFactor,
		WeatherFactor:        data.WeatherFactor,
		SafetyMarginMin:      data.SafetyMarginMin,
		RecommendedDeparture: data.RecommendedDeparture,
		EstimatedArrival:     data.EstimatedArrival,
		ConfidenceScore:      data.ConfidenceScore,
		Source:               data.Source,
		CreatedAt:            data.CreatedAt,
	}
}
