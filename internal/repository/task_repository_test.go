package repository_test

import (
	"context"
	"testing"

	"github.com/harshavardhan-hub/task-collab-platform/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func taskRow(taskID, listID, boardID uuid.UUID, title string, position int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "list_id", "board_id", "title", "description", "priority",
		"labels", "position", "created_by",
	}).AddRow(
		taskID.String(), listID.String(), boardID.String(), title, "", "medium",
		"{}", position, uuid.New().String(),
	)
}

func TestTaskRepository_Move(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	taskID := uuid.New()
	oldListID := uuid.New()
	newListID := uuid.New()
	boardID := uuid.New()
	actorID := uuid.New()

	mock.ExpectBegin()

	// Row lock on the moved task
	mock.ExpectQuery(`SELECT .* FROM "tasks" WHERE id = .* FOR UPDATE`).
		WillReturnRows(taskRow(taskID, oldListID, boardID, "Fix bug", 2))

	// Reposition the task itself
	mock.ExpectExec(`UPDATE "tasks" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Close the gap in the source list
	mock.ExpectExec(`UPDATE tasks SET position = position - 1 WHERE list_id = .* AND position > .* AND id != .*`).
		WithArgs(oldListID, 2, taskID).
		WillReturnResult(sqlmock.NewResult(0, 3))

	// Make room in the destination list
	mock.ExpectExec(`UPDATE tasks SET position = position \+ 1 WHERE list_id = .* AND position >= .* AND id != .*`).
		WithArgs(newListID, 0, taskID).
		WillReturnResult(sqlmock.NewResult(0, 2))

	// Reload with assignees
	mock.ExpectQuery(`SELECT .* FROM "tasks" WHERE id = .*`).
		WillReturnRows(taskRow(taskID, newListID, boardID, "Fix bug", 0))
	mock.ExpectQuery(`SELECT .* FROM "task_assignments"`).
		WillReturnRows(sqlmock.NewRows([]string{"task_id", "user_id"}))

	// Activity entry commits with the move
	mock.ExpectQuery(`INSERT INTO "activity_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))

	mock.ExpectCommit()

	// Act
	moved, err := taskRepo.Move(context.Background(), taskID, newListID, 0, actorID)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, moved)
	assert.Equal(t, newListID, moved.ListID)
	assert.Equal(t, 0, moved.Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Move_TaskNotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	taskID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "tasks" WHERE id = .* FOR UPDATE`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectRollback()

	// Act
	moved, err := taskRepo.Move(context.Background(), taskID, uuid.New(), 0, uuid.New())

	// Assert
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
	assert.Nil(t, moved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Delete_NotFoundRollsBack(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	taskID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "tasks" WHERE id = .* LIMIT 1`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectRollback()

	// Act
	task, err := taskRepo.Delete(context.Background(), taskID, uuid.New())

	// Assert
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
	assert.Nil(t, task)
	assert.NoError(t, mock.ExpectationsWereMet())
}
