package model

import (
	"time"

	"github.com/google/uuid"
)

// BoardMember grants a user access to a board's contents. The pair
// (board_id, user_id) is unique; the owner row is inserted together
// with the board itself.
type BoardMember struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BoardID   uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_board_members_pair"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_board_members_pair"`
	Role      string    `gorm:"not null;check:role IN ('owner', 'member')"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Board Board `gorm:"foreignKey:BoardID"`
	User  User  `gorm:"foreignKey:UserID"`
}

// Board roles
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)
