package model

import (
	"time"

	"github.com/google/uuid"
)

// QueueModel is the GORM-specific struct for the 'queues' table.
type QueueModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	DestinationID     uuid.UUID `gorm:"type:uuid;not null;index:idx_queues_on_destination"`
	DestLatitude      float64   `gorm:"type:decimal(10,8);not null"`
	DestLongitude     float64   `gorm:"type:decimal(11,8);not null"`
	AvgServiceMinutes float64   `gorm:"not null;default:10"`
	IsOpen            bool      `gorm:"not null;default:true;index:idx_queues_on_open"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName explicitly sets the table name for GORM.
func (QueueModel) TableName() string {
	return "queues"
}

// TicketModel is the GORM-specific struct for the 'tickets' table.
type TicketModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	QueueID   uuid.UUID `gorm:"type:uuid;not null;index:idx_tickets_on_queue"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_tickets_on_user"`
	Position  int       `gorm:"not null"`
	Status    string    `gorm:"type:varchar(20);not null;index:idx_tickets_on_status"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (TicketModel) TableName() string {
	return "tickets"
}
