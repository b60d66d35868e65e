package postgres

import (
	"context"

	"smartqueue/internal/domain/entity"
	domainerrors "smartqueue/internal/domain/errors"
	"smartqueue/internal/domain/repository"
	"smartqueue/internal/errors"
	"smartqueue/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// weatherRepository implements the domain.WeatherRepository interface.
type weatherRepository struct {
	db *gorm.DB
}

// NewWeatherRepository is the constructor for weatherRepository.
func NewWeatherRepository(db *gorm.DB) repository.WeatherRepository {
	return &weatherRepository{db: db}
}

// FindByRegion retrieves the weather impact for a region, or nil when none exists.
func (repo *weatherRepository) FindByRegion(ctx context.Context, regionID uuid.UUID) (*entity.WeatherImpact, error) {
	var impactM model.WeatherImpactModel
	err := repo.db.WithContext(ctx).
		Where("region_id = ?", regionID).
		First(&impactM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find weather impact")
	}

	return &entity.WeatherImpact{
		RegionID:     impactM.RegionID,
		Condition:    entity.WeatherKind(impactM.Condition),
		ImpactFactor: impactM.ImpactFactor,
		UpdatedAt:    impactM.UpdatedAt,
	}, nil
}

// Upsert inserts or replaces the record for its region.
func (repo *weatherRepository) Upsert(ctx context.Context, impact *entity.WeatherImpact) error {
	impactM := &model.WeatherImpactModel{
		RegionID:     impact.RegionID,
		Condition:    string(impact.Condition),
		ImpactFactor: impact.ImpactFactor,
		UpdatedAt:    impact.UpdatedAt,
	}

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "region_id"}},
			UpdateAll: true,
		}).
		Create(impactM).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert weather impact")
	}

	return nil
}
