// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"smartqueue/internal/domain/entity"
	domainerrors "smartqueue/internal/domain/errors"
	"smartqueue/internal/domain/repository"
	"smartqueue/internal/infra/persistence/model"

	"gorm.io/gorm"
)

// localityRepository implements the domain.LocalityRepository interface.
type localityRepository struct {
	db *gorm.DB
}

// NewLocalityRepository is the constructor for localityRepository.
func NewLocalityRepository(db *gorm.DB) repository.LocalityRepository {
	return &localityRepository{db: db}
}

// ListLocalities returns the full locality reference set.
func (repo *localityRepository) ListLocalities(ctx context.Context) ([]entity.Locality, error) {
	var models []model.LocalityModel
	if err := repo.db.WithContext(ctx).Order("name").Find(&models).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list localities")
	}

	localities := make([]entity.Locality, 0, len(models))
	for i := range models {
		localities = append(localities, *toLocalityDomain(&models[i]))
	}

	return localities, nil
}

// toLocalityDomain converts a GORM LocalityModel to a domain Locality entity.
func toLocalityDomain(data *model.LocalityModel) *entity.Locality {
	return &entity.Locality{
		ID:               data.ID,
		RegionID:         data.RegionID,
		Name:             data.Name,
		Latitude:         data.Latitude,
		Longitude:        data.Longitude,
		Population:       data.Population,
		CongestionFactor: data.CongestionFactor,
	}
}
