package model_test

import (
	"encoding/json"
	"testing"

	"github.com/harshavardhan-hub/task-collab-platform/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewActivity_TaskMoved(t *testing.T) {
	// Arrange
	boardID := uuid.New()
	userID := uuid.New()
	taskID := uuid.New()
	oldList := uuid.New()
	newList := uuid.New()

	// Act
	entry, err := model.NewActivity(boardID, userID, model.ActionTaskMoved, model.EntityTask, taskID, model.ActivityMetadata{
		Title:     "Fix bug",
		OldListID: &oldList,
		NewListID: &newList,
	})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, model.ActionTaskMoved, entry.Action)
	assert.Equal(t, boardID, entry.BoardID)

	var meta model.ActivityMetadata
	assert.NoError(t, json.Unmarshal(entry.Metadata, &meta))
	assert.Equal(t, "Fix bug", meta.Title)
	assert.Equal(t, oldList, *meta.OldListID)
	assert.Equal(t, newList, *meta.NewListID)
}

func TestNewActivity_TaskMoved_MissingLists(t *testing.T) {
	_, err := model.NewActivity(uuid.New(), uuid.New(), model.ActionTaskMoved, model.EntityTask, uuid.New(), model.ActivityMetadata{
		Title: "Fix bug",
	})

	assert.Error(t, err)
}

func TestNewActivity_MemberAdded(t *testing.T) {
	boardID := uuid.New()

	entry, err := model.NewActivity(boardID, uuid.New(), model.ActionMemberAdded, model.EntityBoard, boardID, model.ActivityMetadata{
		MemberEmail: "new@example.com",
	})

	assert.NoError(t, err)
	assert.Equal(t, model.EntityBoard, entry.EntityType)
}

func TestNewActivity_UnknownAction(t *testing.T) {
	_, err := model.NewActivity(uuid.New(), uuid.New(), "board_exploded", model.EntityBoard, uuid.New(), model.ActivityMetadata{
		Title: "Sprint 1",
	})

	assert.Error(t, err)
}

func TestNewActivity_TitleRequired(t *testing.T) {
	for _, action := range []string{
		model.ActionBoardCreated,
		model.ActionListCreated,
		model.ActionListUpdated,
		model.ActionListDeleted,
		model.ActionTaskCreated,
		model.ActionTaskUpdated,
		model.ActionTaskDeleted,
	} {
		_, err := model.NewActivity(uuid.New(), uuid.New(), action, model.EntityTask, uuid.New(), model.ActivityMetadata{})
		assert.Error(t, err, action)
	}
}
