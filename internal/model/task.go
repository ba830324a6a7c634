package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Task priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

type Task struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ListID uuid.UUID `gorm:"type:uuid;not null;index"`
	// BoardID is denormalized from the list so board-wide queries
	// (search, cascade checks) skip a join.
	BoardID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Title         string    `gorm:"not null"`
	Description   string
	Priority      string         `gorm:"not null;default:'medium';check:priority IN ('low', 'medium', 'high', 'urgent')"`
	Labels        pq.StringArray `gorm:"type:text[]"`
	DueDate       *time.Time
	AttachmentURL string
	Position      int       `gorm:"not null"`
	CreatedBy     uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	List      List   `gorm:"foreignKey:ListID"`
	Creator   User   `gorm:"foreignKey:CreatedBy"`
	Assignees []User `gorm:"many2many:task_assignments"`
}
