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

// positionRepository implements the domain.PositionRepository interface.
type positionRepository struct {
	db *gorm.DB
}

// NewPositionRepository is the constructor for positionRepository.
func NewPositionRepository(db *gorm.DB) repository.PositionRepository {
	return &positionRepository{db: db}
}

// FindByUser retrieves the user's current position.
func (repo *positionRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*entity.UserPosition, error) {
	var positionM model.UserPositionModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&positionM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.WithStack(repository.ErrPositionNotFound)
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find user position")
	}

	return toPositionDomain(&positionM), nil
}

// Upsert writes the position, replacing any previous row for the user.
func (repo *positionRepository) Upsert(ctx context.Context, position *entity.UserPosition) error {
	positionM := fromPositionDomain(position)

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(positionM).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert user position")
	}

	return nil
}

// ListSharingUpdatedSince returns sharing-enabled positions updated at or
// after the given time.
func (repo *positionRepository) ListSharingUpdatedSince(ctx context.Context, since time.Time) ([]*entity.UserPosition, error) {
	var models []model.UserPositionModel
	err := repo.db.WithContext(ctx).
		Where("sharing_enabled = ? AND updated_at >= ?", true, since).
		Find(&models).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list sharing positions")
	}

	positions := make([]*entity.UserPosition, 0, len(models))
	for i := range models {
		positions = append(positions, toPositionDomain(&models[i]))
	}

	return positions, nil
}

// UpdateNearestLocality rewrites only the derived nearest-locality column.
func (repo *positionRepository) UpdateNearestLocality(ctx context.Context, userID, localityID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Model(&model.UserPositionModel{}).
		Where("user_id = ?", userID).
		Update("nearest_locality_id", localityID).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update nearest locality")
	}

	return nil
}

// DisableSharingUntouchedSince turns off sharing for stale positions.
func (repo *positionRepository) DisableSharingUntouchedSince(ctx context.Context, cutoff time.Time) (int64, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.UserPositionModel{}).
		Where("sharing_enabled = ? AND updated_at < ?", true, cutoff).
		Update("sharing_enabled", false)
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to disable stale sharing")
	}

	return result.RowsAffected, nil
}

// fromPositionDomain converts a domain UserPosition entity to a GORM UserPositionModel.
func fromPositionDomain(data *entity.UserPosition) *model.UserPositionModel {
	return &model.UserPositionModel{
		UserID:            data.UserID,
		Latitude:          data.Latitude,
		Longitude:         data.Longitude,
		AccuracyMeters:    data.AccuracyMeters,
		TransportMode:     string(data.TransportMode),
		SharingEnabled:    data.SharingEnabled,
		NearestLocalityID: data.NearestLocalityID,
		UpdatedAt:         data.UpdatedAt,
	}
}

// toPositionDomain converts a GORM UserPositionModel to a domain UserPosition entity.
func toPositionDomain(data *model.UserPositionModel) *entity.UserPosition {
	return &entity.UserPosition{
		UserID:            data.UserID,
		Latitude:          data.Latitude,
		Longitude:         data.Longitude,
		AccuracyMeters:    data.AccuracyMeters,
		TransportMode:     entity.TransportMode(data.TransportMode),
		SharingEnabled:    data.SharingEnabled,
		NearestLocalityID: data.NearestLocalityID,
		UpdatedAt:         data.UpdatedAt,
	}
}
