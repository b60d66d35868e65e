package postgres

import (
	"context"
	"time"

	"smartqueue/internal/domain/entity"
	domainerrors "smartqueue/internal/domain/errors"
	"smartqueue/internal/domain/repository"
	"smartqueue/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// appointmentRepository implements the domain.AppointmentRepository interface.
type appointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository is the constructor for appointmentRepository.
func NewAppointmentRepository(db *gorm.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

// ListUpcoming returns confirmed appointments scheduled between from and to.
func (repo *appointmentRepository) ListUpcoming(ctx context.Context, from, to time.Time) ([]*entity.Appointment, error) {
	var models []model.AppointmentModel
	err := repo.db.WithContext(ctx).
		Where("scheduled_at >= ? AND scheduled_at <= ?", from, to).
		Order("scheduled_at").
		Find(&models).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list upcoming appointments")
	}

	appointments := make([]*entity.Appointment, 0, len(models))
	for i := range models {
		m := &models[i]
		appointments = append(appointments, &entity.Appointment{
			ID:             m.ID,
			UserID:         m.UserID,
			DestinationID:  m.DestinationID,
			DestLatitude:   m.DestLatitude,
			DestLongitude:  m.DestLongitude,
			ScheduledAt:    m.ScheduledAt,
			LastNotifiedAt: m.LastNotifiedAt,
		})
	}

	return appointments, nil
}

// MarkNotified records that a departure notice was dispatched.
func (repo *appointmentRepository) MarkNotified(ctx context.Context, appointmentID uuid.UUID, at time.Time) error {
	err := repo.db.WithContext(ctx).
		Model(&model.AppointmentModel{}).
		Where("id = ?", appointmentID).
		Update("last_notified_at", at).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to mark appointment notified")
	}

	return nil
}
