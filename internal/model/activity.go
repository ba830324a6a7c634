package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Activity actions. Each action carries a fixed metadata shape that is
// validated before the row is written; the log itself is append-only.
const (
	ActionBoardCreated   = "board_created"
	ActionMemberAdded    = "member_added"
	ActionListCreated    = "list_created"
	ActionListUpdated    = "list_updated"
	ActionListDeleted    = "list_deleted"
	ActionTaskCreated    = "task_created"
	ActionTaskUpdated    = "task_updated"
	ActionTaskMoved      = "task_moved"
	ActionTaskDeleted    = "task_deleted"
	ActionUserAssigned   = "user_assigned"
	ActionUserUnassigned = "user_unassigned"
)

// Activity entity types
const (
	EntityBoard = "board"
	EntityList  = "list"
	EntityTask  = "task"
)

type ActivityLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BoardID    uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null"`
	Action     string         `gorm:"not null"`
	EntityType string         `gorm:"not null"`
	EntityID   uuid.UUID      `gorm:"type:uuid;not null"`
	Metadata   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`

	Board Board `gorm:"foreignKey:BoardID"`
	User  User  `gorm:"foreignKey:UserID"`
}

// ActivityMetadata is the union of per-action payloads. Which fields are
// required depends on the action; NewActivity rejects entries that do not
// match their action's shape.
type ActivityMetadata struct {
	Title        string     `json:"title,omitempty"`
	OldListID    *uuid.UUID `json:"old_list_id,omitempty"`
	NewListID    *uuid.UUID `json:"new_list_id,omitempty"`
	MemberEmail  string     `json:"member_email,omitempty"`
	TaskTitle    string     `json:"task_title,omitempty"`
	AssignedUser string     `json:"assigned_user,omitempty"`
}

func (m ActivityMetadata) validate(action string) error {
	switch action {
	case ActionBoardCreated, ActionListCreated, ActionListUpdated, ActionListDeleted,
		ActionTaskCreated, ActionTaskUpdated, ActionTaskDeleted:
		if m.Title == "" {
			return fmt.Errorf("activity %s requires a title", action)
		}
	case ActionTaskMoved:
		if m.Title == "" || m.OldListID == nil || m.NewListID == nil {
			return fmt.Errorf("activity %s requires title, old_list_id and new_list_id", action)
		}
	case ActionMemberAdded:
		if m.MemberEmail == "" {
			return fmt.Errorf("activity %s requires member_email", action)
		}
	case ActionUserAssigned:
		if m.TaskTitle == "" || m.AssignedUser == "" {
			return fmt.Errorf("activity %s requires task_title and assigned_user", action)
		}
	case ActionUserUnassigned:
		if m.TaskTitle == "" {
			return fmt.Errorf("activity %s requires task_title", action)
		}
	default:
		return fmt.Errorf("unknown activity action %q", action)
	}
	return nil
}

// NewActivity builds a validated activity log row.
func NewActivity(boardID, userID uuid.UUID, action, entityType string, entityID uuid.UUID, meta ActivityMetadata) (*ActivityLog, error) {
	if err := meta.validate(action); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}

	return &ActivityLog{
		BoardID:    boardID,
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata:   datatypes.JSON(raw),
	}, nil
}
