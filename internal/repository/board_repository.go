package repository

import (
	"context"
	"errors"
	"time"

	"github.com/harshavardhan-hub/task-collab-platform/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BoardRepository struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

// BoardSummary is the dashboard projection of a board: owner details
// plus list/task counts.
type BoardSummary struct {
	ID              uuid.UUID
	Title           string
	Description     string
	BackgroundColor string
	OwnerID         uuid.UUID
	OwnerName       string
	OwnerAvatar     string
	ListCount       int64
	TaskCount       int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Create inserts the board, its owner membership row and the
// board_created activity entry in one transaction.
func (r *BoardRepository) Create(ctx context.Context, board *model.Board) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(board).Error; err != nil {
			return err
		}

		member := model.BoardMember{
			BoardID: board.ID,
			UserID:  board.OwnerID,
			Role:    model.RoleOwner,
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}

		return logActivity(tx, board.ID, board.OwnerID, model.ActionBoardCreated, model.EntityBoard, board.ID,
			model.ActivityMetadata{Title: board.Title})
	})
}

func (r *BoardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	var board model.Board
	if err := r.db.WithContext(ctx).Preload("Owner").Where("id = ?", id).First(&board).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Return nil, nil to indicate that the board was not found
		}
		return nil, err
	}
	return &board, nil
}

// GetForUser returns summaries of every board the user is a member of,
// newest-updated first.
func (r *BoardRepository) GetForUser(ctx context.Context, userID uuid.UUID) ([]BoardSummary, error) {
	var summaries []BoardSummary
	err := r.db.WithContext(ctx).Table("boards").
		Select(`boards.id, boards.title, boards.description, boards.background_color,
			boards.owner_id, boards.created_at, boards.updated_at,
			users.full_name AS owner_name, users.avatar_url AS owner_avatar,
			(SELECT COUNT(*) FROM lists WHERE lists.board_id = boards.id) AS list_count,
			(SELECT COUNT(*) FROM tasks WHERE tasks.board_id = boards.id) AS task_count`).
		Joins("JOIN board_members ON board_members.board_id = boards.id").
		Joins("LEFT JOIN users ON users.id = boards.owner_id").
		Where("board_members.user_id = ?", userID).
		Order("boards.updated_at DESC").
		Scan(&summaries).Error

	return summaries, err
}

func (r *BoardRepository) Update(ctx context.Context, board *model.Board) error {
	return r.db.WithContext(ctx).Save(board).Error
}

// Delete removes the board; lists, tasks, assignments and activity rows
// go with it through the schema's ON DELETE CASCADE.
func (r *BoardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Board{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBoardNotFound
	}
	return nil
}
