package repository

import (
	"context"
	"errors"

	"github.com/harshavardhan-hub/task-collab-platform/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BoardMemberRepository struct {
	db *gorm.DB
}

func NewBoardMemberRepository(db *gorm.DB) *BoardMemberRepository {
	return &BoardMemberRepository{db: db}
}

// IsMember reports whether the user has any membership row for the board.
func (r *BoardMemberRepository) IsMember(ctx context.Context, boardID, userID uuid.UUID) (bool, error) {
	var member model.BoardMember
	err := r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		First(&member).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetRole returns the user's role for the board, or an empty string when
// the user is not a member.
func (r *BoardMemberRepository) GetRole(ctx context.Context, boardID, userID uuid.UUID) (string, error) {
	var member model.BoardMember
	err := r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		First(&member).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return member.Role, nil
}

// GetMembers returns the board's membership with user details preloaded.
func (r *BoardMemberRepository) GetMembers(ctx context.Context, boardID uuid.UUID) ([]model.BoardMember, error) {
	var members []model.BoardMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("board_id = ?", boardID).
		Order("created_at").
		Find(&members).Error

	return members, err
}

// AddMember adds the user to the board with the member role and logs the
// member_added activity, in one transaction. Adding an existing member
// is a conflict.
func (r *BoardMemberRepository) AddMember(ctx context.Context, boardID uuid.UUID, user *model.User, actorID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.BoardMember
		err := tx.Where("board_id = ? AND user_id = ?", boardID, user.ID).First(&existing).Error
		if err == nil {
			return ErrAlreadyMember
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		member := model.BoardMember{
			BoardID: boardID,
			UserID:  user.ID,
			Role:    model.RoleMember,
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}

		return logActivity(tx, boardID, actorID, model.ActionMemberAdded, model.EntityBoard, boardID,
			model.ActivityMetadata{MemberEmail: user.Email})
	})
}
