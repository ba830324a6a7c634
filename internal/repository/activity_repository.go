package repository

import (
	"context"

	"github.com/harshavardhan-hub/task-collab-platform/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// logActivity appends a validated activity row inside the caller's
// transaction, so a failed insert rolls the whole mutation back.
func logActivity(tx *gorm.DB, boardID, userID uuid.UUID, action, entityType string, entityID uuid.UUID, meta model.ActivityMetadata) error {
	entry, err := model.NewActivity(boardID, userID, action, entityType, entityID, meta)
	if err != nil {
		return err
	}
	return tx.Create(entry).Error
}

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// GetBoardActivity returns one reverse-chronological page of a board's
// activity feed together with the total row count.
func (r *ActivityRepository) GetBoardActivity(ctx context.Context, boardID uuid.UUID, page, limit int) ([]model.ActivityLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.ActivityLog{}).
		Where("board_id = ?", boardID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.ActivityLog
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("board_id = ?", boardID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&entries).Error

	return entries, total, err
}

// GetUserRecent returns the latest activity across every board the user
// is a member of.
func (r *ActivityRepository) GetUserRecent(ctx context.Context, userID uuid.UUID, limit int) ([]model.ActivityLog, error) {
	if limit < 1 {
		limit = 20
	}

	var entries []model.ActivityLog
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Board").
		Where("board_id IN (?)",
			r.db.Model(&model.BoardMember{}).Select("board_id").Where("user_id = ?", userID)).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error

	return entries, err
}
