package repository

import (
	"context"
	"errors"

	"github.com/harshavardhan-hub/task-collab-platform/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListRepository struct {
	db *gorm.DB
}

func NewListRepository(db *gorm.DB) *ListRepository {
	return &ListRepository{db: db}
}

// Create appends the list at the end of its board (max position + 1,
// 0 when the board has no lists) and logs the creation, transactionally.
func (r *ListRepository) Create(ctx context.Context, list *model.List, actorID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next int
		if err := tx.Model(&model.List{}).
			Select("COALESCE(MAX(position), -1) + 1").
			Where("board_id = ?", list.BoardID).
			Scan(&next).Error; err != nil {
			return err
		}
		list.Position = next

		if err := tx.Create(list).Error; err != nil {
			return err
		}

		return logActivity(tx, list.BoardID, actorID, model.ActionListCreated, model.EntityList, list.ID,
			model.ActivityMetadata{Title: list.Title})
	})
}

func (r *ListRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.List, error) {
	var list model.List
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&list).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListNotFound
		}
		return nil, err
	}
	return &list, nil
}

func (r *ListRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.List, error) {
	var lists []model.List
	err := r.db.WithContext(ctx).Where("board_id = ?", boardID).Order("position").Find(&lists).Error
	return lists, err
}

// Update renames the list (keep-existing when title is nil) and logs it.
func (r *ListRepository) Update(ctx context.Context, listID uuid.UUID, title *string, actorID uuid.UUID) (*model.List, error) {
	var list model.List
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", listID).First(&list).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrListNotFound
			}
			return err
		}

		if title != nil {
			list.Title = *title
		}
		if err := tx.Save(&list).Error; err != nil {
			return err
		}

		return logActivity(tx, list.BoardID, actorID, model.ActionListUpdated, model.EntityList, list.ID,
			model.ActivityMetadata{Title: list.Title})
	})
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// Delete hard-deletes the list; sibling positions are not renumbered,
// the gap is tolerated because ordering reads sort by stored value.
func (r *ListRepository) Delete(ctx context.Context, listID uuid.UUID, actorID uuid.UUID) (*model.List, error) {
	var list model.List
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", listID).First(&list).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrListNotFound
			}
			return err
		}

		if err := tx.Delete(&model.List{}, "id = ?", listID).Error; err != nil {
			return err
		}

		return logActivity(tx, list.BoardID, actorID, model.ActionListDeleted, model.EntityList, list.ID,
			model.ActivityMetadata{Title: list.Title})
	})
	if err != nil {
		return nil, err
	}
	return &list, nil
}
