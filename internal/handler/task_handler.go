package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/harshavardhan-hub/task-collab-platform/internal/model"
	"github.com/harshavardhan-hub/task-collab-platform/internal/realtime"
	"github.com/harshavardhan-hub/task-collab-platform/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskHandler struct {
	tasks   *repository.TaskRepository
	lists   *repository.ListRepository
	boards  *repository.BoardRepository
	members *repository.BoardMemberRepository
	users   repository.UserRepositoryInterface
	hub     *realtime.Hub
}

func NewTaskHandler(
	tasks *repository.TaskRepository,
	lists *repository.ListRepository,
	boards *repository.BoardRepository,
	members *repository.BoardMemberRepository,
	users repository.UserRepositoryInterface,
	hub *realtime.Hub,
) *TaskHandler {
	return &TaskHandler{
		tasks:   tasks,
		lists:   lists,
		boards:  boards,
		members: members,
		users:   users,
		hub:     hub,
	}
}

type taskCreateRequest struct {
	ListID        string     `json:"list_id" binding:"required,uuid"`
	Title         string     `json:"title" binding:"required"`
	Description   string     `json:"description"`
	Priority      string     `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Labels        []string   `json:"labels"`
	DueDate       *time.Time `json:"due_date"`
	AttachmentURL string     `json:"attachment_url"`
}

type taskUpdateRequest struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	Priority      *string    `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Labels        *[]string  `json:"labels"`
	DueDate       *time.Time `json:"due_date"`
	AttachmentURL *string    `json:"attachment_url"`
}

type taskMoveRequest struct {
	ListID   string `json:"list_id" binding:"required,uuid"`
	Position *int   `json:"position" binding:"required,min=0"`
}

type taskAssignRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// Create appends a task at the end of its list.
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body taskCreateRequest true "Task data"
// @Success 201 {object} TaskResponse
// @Router /api/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req taskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	listID, err := uuid.Parse(req.ListID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid list ID format"})
		return
	}

	list, err := h.lists.GetByID(c.Request.Context(), listID)
	if err != nil {
		if errors.Is(err, repository.ErrListNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "List not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve list"})
		return
	}

	if _, ok := requireBoardMember(c, h.boards, h.members, list.BoardID, userID); !ok {
		return
	}

	task := &model.Task{
		ListID:        listID,
		Title:         req.Title,
		Description:   req.Description,
		Priority:      req.Priority,
		Labels:        req.Labels,
		DueDate:       req.DueDate,
		AttachmentURL: req.AttachmentURL,
		CreatedBy:     userID,
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}

	if err := h.tasks.Create(c.Request.Context(), task, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	response := toTaskResponse(task)
	h.hub.Broadcast(task.BoardID, realtime.Event{Type: realtime.EventTaskCreated, Data: response})
	c.JSON(http.StatusCreated, response)
}

// GetByID returns one task with its assignees.
// @Summary Get a task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} TaskResponse
// @Router /api/tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, ok := h.loadTask(c, taskID)
	if !ok {
		return
	}
	if _, ok := requireBoardMember(c, h.boards, h.members, task.BoardID, userID); !ok {
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// Update edits task fields, keeping any field the request omits. A
// provided labels or due_date value replaces the stored one outright.
// @Summary Update a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param request body taskUpdateRequest true "Fields to change"
// @Success 200 {object} TaskResponse
// @Router /api/tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req taskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	task, ok := h.loadTask(c, taskID)
	if !ok {
		return
	}
	if _, ok := requireBoardMember(c, h.boards, h.members, task.BoardID, userID); !ok {
		return
	}

	updated, err := h.tasks.Update(c.Request.Context(), taskID, repository.TaskUpdates{
		Title:         req.Title,
		Description:   req.Description,
		Priority:      req.Priority,
		Labels:        req.Labels,
		DueDate:       req.DueDate,
		AttachmentURL: req.AttachmentURL,
	}, userID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	response := toTaskResponse(updated)
	h.hub.Broadcast(updated.BoardID, realtime.Event{Type: realtime.EventTaskUpdated, Data: response})
	c.JSON(http.StatusOK, response)
}

// Move places the task at a position in a list on the same board and
// renumbers both affected lists so positions stay dense.
// @Summary Move a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param request body taskMoveRequest true "Destination"
// @Success 200 {object} TaskResponse
// @Router /api/tasks/{id}/move [put]
func (h *TaskHandler) Move(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req taskMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	destListID, err := uuid.Parse(req.ListID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid list ID format"})
		return
	}

	task, ok := h.loadTask(c, taskID)
	if !ok {
		return
	}
	if _, ok := requireBoardMember(c, h.boards, h.members, task.BoardID, userID); !ok {
		return
	}

	dest, err := h.lists.GetByID(c.Request.Context(), destListID)
	if err != nil {
		if errors.Is(err, repository.ErrListNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "List not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve list"})
		return
	}
	if dest.BoardID != task.BoardID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Destination list is on a different board"})
		return
	}

	oldListID := task.ListID
	moved, err := h.tasks.Move(c.Request.Context(), taskID, destListID, *req.Position, userID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to move task"})
		return
	}

	response := toTaskResponse(moved)
	h.hub.Broadcast(moved.BoardID, realtime.Event{
		Type: realtime.EventTaskMoved,
		Data: gin.H{"task": response, "old_list_id": oldListID},
	})
	c.JSON(http.StatusOK, response)
}

// Delete removes a task and closes the position gap in its list.
// @Summary Delete a task
// @Tags tasks
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} map[string]string
// @Router /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, ok := h.loadTask(c, taskID)
	if !ok {
		return
	}
	if _, ok := requireBoardMember(c, h.boards, h.members, task.BoardID, userID); !ok {
		return
	}

	if _, err := h.tasks.Delete(c.Request.Context(), taskID, userID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	h.hub.Broadcast(task.BoardID, realtime.Event{
		Type: realtime.EventTaskDeleted,
		Data: gin.H{"id": taskID, "list_id": task.ListID, "board_id": task.BoardID},
	})
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// Assign adds a board member to the task's assignees. Assigning an
// already-assigned user is a no-op.
// @Summary Assign a user to a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param request body taskAssignRequest true "User to assign"
// @Success 200 {object} TaskResponse
// @Router /api/tasks/{id}/assign [post]
func (h *TaskHandler) Assign(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req taskAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	assigneeID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	task, ok := h.loadTask(c, taskID)
	if !ok {
		return
	}
	if _, ok := requireBoardMember(c, h.boards, h.members, task.BoardID, userID); !ok {
		return
	}

	assignee, err := h.users.GetByID(c.Request.Context(), assigneeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		return
	}
	if assignee == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	isMember, err := h.members.IsMember(c.Request.Context(), task.BoardID, assigneeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return
	}
	if !isMember {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User is not a member of this board"})
		return
	}

	updated, err := h.tasks.Assign(c.Request.Context(), taskID, assignee, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign user"})
		return
	}

	response := toTaskResponse(updated)
	h.hub.Broadcast(updated.BoardID, realtime.Event{Type: realtime.EventTaskAssigned, Data: response})
	c.JSON(http.StatusOK, response)
}

// Unassign removes a user from the task's assignees.
// @Summary Unassign a user from a task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param userId path string true "User ID"
// @Success 200 {object} TaskResponse
// @Router /api/tasks/{id}/assign/{userId} [delete]
func (h *TaskHandler) Unassign(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	assigneeID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	task, ok := h.loadTask(c, taskID)
	if !ok {
		return
	}
	if _, ok := requireBoardMember(c, h.boards, h.members, task.BoardID, userID); !ok {
		return
	}

	updated, err := h.tasks.Unassign(c.Request.Context(), taskID, assigneeID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unassign user"})
		return
	}

	response := toTaskResponse(updated)
	h.hub.Broadcast(updated.BoardID, realtime.Event{Type: realtime.EventTaskUnassigned, Data: response})
	c.JSON(http.StatusOK, response)
}

// Search finds a board's tasks by title or description substring.
// @Summary Search tasks on a board
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Board ID"
// @Param q query string true "Search query"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /api/boards/{id}/tasks/search [get]
func (h *TaskHandler) Search(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	if _, ok := requireBoardMember(c, h.boards, h.members, boardID, userID); !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	tasks, total, err := h.tasks.Search(c.Request.Context(), boardID, query, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search tasks"})
		return
	}

	results := make([]TaskResponse, len(tasks))
	for i := range tasks {
		results[i] = toTaskResponse(&tasks[i])
	}
	c.JSON(http.StatusOK, gin.H{
		"tasks": results,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// loadTask fetches a task, writing the 404/500 response on failure.
func (h *TaskHandler) loadTask(c *gin.Context, taskID uuid.UUID) (*model.Task, bool) {
	task, err := h.tasks.GetByID(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return nil, false
	}
	return task, true
}
