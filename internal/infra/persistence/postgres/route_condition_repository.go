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
	"gorm.io/gorm/clause"
)

// routeConditionRepository implements the domain.RouteConditionRepository interface.
type routeConditionRepository struct {
	db *gorm.DB
}

// NewRouteConditionRepository is the constructor for routeConditionRepository.
func NewRouteConditionRepository(db *gorm.DB) repository.RouteConditionRepository {
	return &routeConditionRepository{db: db}
}

// FindByRoute retrieves the condition for a (source, destination) pair, or
// nil when no observation exists.
func (repo *routeConditionRepository) FindByRoute(ctx context.Context, sourceID, destID uuid.UUID) (*entity.RouteCondition, error) {
	var conditionM model.RouteConditionModel
	err := repo.db.WithContext(ctx).
		Where("source_locality_id = ? AND destination_locality_id = ?", sourceID, destID).
		First(&conditionM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find route condition")
	}

	return toRouteConditionDomain(&conditionM), nil
}

// Upsert inserts or replaces the condition for its pair.
func (repo *routeConditionRepository) Upsert(ctx context.Context, condition *entity.RouteCondition) error {
	conditionM := fromRouteConditionDomain(condition)

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "source_locality_id"},
				{Name: "destination_locality_id"},
			},
			UpdateAll: true,
		}).
		Create(conditionM).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert route condition")
	}

	return nil
}

// DeleteOlderThan removes conditions last updated before the cutoff.
func (repo *routeConditionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := repo.db.WithContext(ctx).
		Where("updated_at < ?", cutoff).
		Delete(&model.RouteConditionModel{})
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete old route conditions")
	}

	return result.RowsAffected, nil
}

// fromRouteConditionDomain converts a domain RouteCondition entity to a GORM RouteConditionModel.
func fromRouteConditionDomain(data *entity.RouteCondition) *model.RouteConditionModel {
	return &model.RouteConditionModel{
		SourceLocalityID:      data.SourceLocalityID,
		DestinationLocalityID: data.DestinationLocalityID,
		State:                 string(data.State),
		TravelMinutes:         data.TravelMinutes,
		DistanceKm:            data.DistanceKm,
		DelayFactor:           data.DelayFactor,
		Source:                data.Source,
		ReliabilityScore:      data.ReliabilityScore,
		UpdatedAt:             data.UpdatedAt,
	}
}

// toRouteConditionDomain converts a GORM RouteConditionModel to a domain RouteCondition entity.
func toRouteConditionDomain(data *model.RouteConditionModel) *entity.RouteCondition {
	return &entity.RouteCondition{
		SourceLocalityID:      data.SourceLocalityID,
		DestinationLocalityID: data.DestinationLocalityID,
		State:                 entity.RouteState(data.State),
		TravelMinutes:         data.TravelMinutes,
		DistanceKm:            data.DistanceKm,
		DelayFactor:           data.DelayFactor,
		Source:                data.Source,
		ReliabilityScore:      data.ReliabilityScore,
		UpdatedAt:             data.UpdatedAt,
	}
}
