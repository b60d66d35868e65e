package model

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentModel is the GORM-specific struct for the 'appointments' table.
type AppointmentModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index:idx_appointments_on_user"`
	DestinationID  uuid.UUID `gorm:"type:uuid;not null"`
	DestLatitude   float64   `gorm:"type:decimal(10,8);not null"`
	DestLongitude  float64   `gorm:"type:decimal(11,8);not null"`
	ScheduledAt    time.Time `gorm:"not null;index:idx_appointments_on_scheduled"`
	LastNotifiedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (AppointmentModel) TableName() string {
	return "appointments"
}
