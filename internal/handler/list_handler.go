package handler

import (
	"errors"
	"net/http"

	"github.com/harshavardhan-hub/task-collab-platform/internal/model"
	"github.com/harshavardhan-hub/task-collab-platform/internal/realtime"
	"github.com/harshavardhan-hub/task-collab-platform/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ListHandler struct {
	lists   *repository.ListRepository
	boards  *repository.BoardRepository
	members *repository.BoardMemberRepository
	hub     *realtime.Hub
}

func NewListHandler(
	lists *repository.ListRepository,
	boards *repository.BoardRepository,
	members *repository.BoardMemberRepository,
	hub *realtime.Hub,
) *ListHandler {
	return &ListHandler{lists: lists, boards: boards, members: members, hub: hub}
}

type listCreateRequest struct {
	BoardID string `json:"board_id" binding:"required,uuid"`
	Title   string `json:"title" binding:"required"`
}

type listUpdateRequest struct {
	Title *string `json:"title"`
}

// Create appends a list at the end of the board.
// @Summary Create a list
// @Tags lists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body listCreateRequest true "List data"
// @Success 201 {object} ListResponse
// @Router /api/lists [post]
func (h *ListHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req listCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	boardID, err := uuid.Parse(req.BoardID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	if _, ok := requireBoardMember(c, h.boards, h.members, boardID, userID); !ok {
		return
	}

	list := &model.List{
		BoardID: boardID,
		Title:   req.Title,
	}
	if err := h.lists.Create(c.Request.Context(), list, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create list"})
		return
	}

	response := toListResponse(list, nil)
	h.hub.Broadcast(boardID, realtime.Event{Type: realtime.EventListCreated, Data: response})
	c.JSON(http.StatusCreated, response)
}

// GetByBoardID returns the board's lists in position order.
// @Summary List a board's lists
// @Tags lists
// @Produce json
// @Security BearerAuth
// @Param id path string true "Board ID"
// @Success 200 {array} ListResponse
// @Router /api/boards/{id}/lists [get]
func (h *ListHandler) GetByBoardID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, ok := requireBoardMember(c, h.boards, h.members, boardID, userID); !ok {
		return
	}

	lists, err := h.lists.GetByBoardID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve lists"})
		return
	}

	response := make([]ListResponse, len(lists))
	for i := range lists {
		response[i] = toListResponse(&lists[i], nil)
	}
	c.JSON(http.StatusOK, response)
}

// Update renames a list.
// @Summary Update a list
// @Tags lists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "List ID"
// @Param request body listUpdateRequest true "Fields to change"
// @Success 200 {object} ListResponse
// @Router /api/lists/{id} [put]
func (h *ListHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req listUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
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

	updated, err := h.lists.Update(c.Request.Context(), listID, req.Title, userID)
	if err != nil {
		if errors.Is(err, repository.ErrListNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "List not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update list"})
		return
	}

	response := toListResponse(updated, nil)
	h.hub.Broadcast(updated.BoardID, realtime.Event{Type: realtime.EventListUpdated, Data: response})
	c.JSON(http.StatusOK, response)
}

// Delete removes a list and its tasks. Sibling list positions keep
// their gap; ordering reads tolerate it.
// @Summary Delete a list
// @Tags lists
// @Security BearerAuth
// @Param id path string true "List ID"
// @Success 200 {object} map[string]string
// @Router /api/lists/{id} [delete]
func (h *ListHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := parseIDParam(c, "id")
	if !ok {
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

	if _, err := h.lists.Delete(c.Request.Context(), listID, userID); err != nil {
		if errors.Is(err, repository.ErrListNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "List not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete list"})
		return
	}

	h.hub.Broadcast(list.BoardID, realtime.Event{
		Type: realtime.EventListDeleted,
		Data: gin.H{"id": listID, "board_id": list.BoardID},
	})
	c.JSON(http.StatusOK, gin.H{"message": "List deleted"})
}
