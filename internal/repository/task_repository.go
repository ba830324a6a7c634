package repository

import (
	"context"
	"errors"
	"time"

	"github.com/harshavardhan-hub/task-collab-platform/internal/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// TaskUpdates carries field-level updates: nil means keep the stored
// value. DueDate is the exception and always replaces the stored value,
// so a task's due date can be cleared.
type TaskUpdates struct {
	Title         *string
	Description   *string
	Priority      *string
	Labels        *[]string
	DueDate       *time.Time
	AttachmentURL *string
}

// Create appends the task at the end of its list and logs the creation,
// all inside one transaction. The task's BoardID is filled in from the
// list.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task, actorID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var list model.List
		if err := tx.Where("id = ?", task.ListID).First(&list).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrListNotFound
			}
			return err
		}
		task.BoardID = list.BoardID

		var next int
		if err := tx.Model(&model.Task{}).
			Select("COALESCE(MAX(position), -1) + 1").
			Where("list_id = ?", task.ListID).
			Scan(&next).Error; err != nil {
			return err
		}
		task.Position = next

		if task.Labels == nil {
			task.Labels = pq.StringArray{}
		}

		if err := tx.Create(task).Error; err != nil {
			return err
		}

		return logActivity(tx, task.BoardID, actorID, model.ActionTaskCreated, model.EntityTask, task.ID,
			model.ActivityMetadata{Title: task.Title})
	})
}

// GetByID retrieves a task with its creator and assignees.
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Assignees").
		First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// GetByListID retrieves all tasks in a list in position order.
func (r *TaskRepository) GetByListID(ctx context.Context, listID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).
		Preload("Assignees").
		Where("list_id = ?", listID).
		Order("position").
		Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// Update applies field-level updates and logs them, then reloads the
// task with its assignees.
func (r *TaskRepository) Update(ctx context.Context, taskID uuid.UUID, updates TaskUpdates, actorID uuid.UUID) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}

		if updates.Title != nil {
			task.Title = *updates.Title
		}
		if updates.Description != nil {
			task.Description = *updates.Description
		}
		if updates.Priority != nil {
			task.Priority = *updates.Priority
		}
		if updates.Labels != nil {
			task.Labels = pq.StringArray(*updates.Labels)
		}
		if updates.AttachmentURL != nil {
			task.AttachmentURL = *updates.AttachmentURL
		}
		task.DueDate = updates.DueDate

		if err := tx.Save(&task).Error; err != nil {
			return err
		}

		if err := logActivity(tx, task.BoardID, actorID, model.ActionTaskUpdated, model.EntityTask, task.ID,
			model.ActivityMetadata{Title: task.Title}); err != nil {
			return err
		}

		return tx.Preload("Assignees").First(&task, "id = ?", taskID).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Move relocates a task to (newListID, newPosition) and renumbers both
// lists: the vacated slot closes behind it and the destination makes
// room at the requested index. The moved row is locked for the duration
// of the transaction so two concurrent moves of the same task serialize.
func (r *TaskRepository) Move(ctx context.Context, taskID, newListID uuid.UUID, newPosition int, actorID uuid.UUID) (*model.Task, error) {
	var moved model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task model.Task
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&task, "id = ?", taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}

		oldListID := task.ListID
		oldPosition := task.Position

		if err := tx.Model(&model.Task{}).
			Where("id = ?", taskID).
			Updates(map[string]interface{}{"list_id": newListID, "position": newPosition}).Error; err != nil {
			return err
		}

		// Close the gap in the source list.
		if err := tx.Exec(
			`UPDATE tasks SET position = position - 1 WHERE list_id = ? AND position > ? AND id != ?`,
			oldListID, oldPosition, taskID,
		).Error; err != nil {
			return err
		}

		// Make room in the destination list. Excluding the moved row
		// keeps the same-list case from double-shifting it.
		if err := tx.Exec(
			`UPDATE tasks SET position = position + 1 WHERE list_id = ? AND position >= ? AND id != ?`,
			newListID, newPosition, taskID,
		).Error; err != nil {
			return err
		}

		if err := tx.Preload("Assignees").First(&moved, "id = ?", taskID).Error; err != nil {
			return err
		}

		return logActivity(tx, moved.BoardID, actorID, model.ActionTaskMoved, model.EntityTask, moved.ID,
			model.ActivityMetadata{Title: moved.Title, OldListID: &oldListID, NewListID: &newListID})
	})
	if err != nil {
		return nil, err
	}
	return &moved, nil
}

// Delete removes the task and logs the deletion in one transaction.
func (r *TaskRepository) Delete(ctx context.Context, taskID uuid.UUID, actorID uuid.UUID) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}

		if err := tx.Delete(&model.Task{}, "id = ?", taskID).Error; err != nil {
			return err
		}

		return logActivity(tx, task.BoardID, actorID, model.ActionTaskDeleted, model.EntityTask, task.ID,
			model.ActivityMetadata{Title: task.Title})
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Assign adds the user to the task's assignees. Assigning an existing
// assignee is a no-op at the database level.
func (r *TaskRepository) Assign(ctx context.Context, taskID uuid.UUID, assignee *model.User, actorID uuid.UUID) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}

		if err := tx.Exec(
			`INSERT INTO task_assignments (task_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
			taskID, assignee.ID,
		).Error; err != nil {
			return err
		}

		if err := logActivity(tx, task.BoardID, actorID, model.ActionUserAssigned, model.EntityTask, task.ID,
			model.ActivityMetadata{TaskTitle: task.Title, AssignedUser: assignee.FullName}); err != nil {
			return err
		}

		return tx.Preload("Assignees").First(&task, "id = ?", taskID).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Unassign removes the user from the task's assignees.
func (r *TaskRepository) Unassign(ctx context.Context, taskID, userID uuid.UUID, actorID uuid.UUID) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}

		if err := tx.Exec(
			`DELETE FROM task_assignments WHERE task_id = ? AND user_id = ?`,
			taskID, userID,
		).Error; err != nil {
			return err
		}

		if err := logActivity(tx, task.BoardID, actorID, model.ActionUserUnassigned, model.EntityTask, task.ID,
			model.ActivityMetadata{TaskTitle: task.Title}); err != nil {
			return err
		}

		return tx.Preload("Assignees").First(&task, "id = ?", taskID).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Search finds a board's tasks whose title or description matches the
// query, newest-updated first, paginated.
func (r *TaskRepository) Search(ctx context.Context, boardID uuid.UUID, query string, page, limit int) ([]model.Task, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	pattern := "%" + query + "%"

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("board_id = ? AND (title ILIKE ? OR description ILIKE ?)", boardID, pattern, pattern).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Preload("Assignees").
		Where("board_id = ? AND (title ILIKE ? OR description ILIKE ?)", boardID, pattern, pattern).
		Order("updated_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&tasks).Error

	return tasks, total, err
}
