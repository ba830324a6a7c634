package model

import (
	"time"

	"github.com/google/uuid"
)

// TaskAssignment is the join row behind Task.Assignees.
type TaskAssignment struct {
	TaskID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Task Task `gorm:"foreignKey:TaskID"`
	User User `gorm:"foreignKey:UserID"`
}
