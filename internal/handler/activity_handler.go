package handler

import (
	"net/http"
	"strconv"

	"github.com/harshavardhan-hub/task-collab-platform/internal/repository"

	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	activity *repository.ActivityRepository
	boards   *repository.BoardRepository
	members  *repository.BoardMemberRepository
}

func NewActivityHandler(
	activity *repository.ActivityRepository,
	boards *repository.BoardRepository,
	members *repository.BoardMemberRepository,
) *ActivityHandler {
	return &ActivityHandler{activity: activity, boards: boards, members: members}
}

// GetBoardActivity returns one page of a board's activity feed, newest
// first.
// @Summary Board activity feed
// @Tags activity
// @Produce json
// @Security BearerAuth
// @Param id path string true "Board ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /api/boards/{id}/activity [get]
func (h *ActivityHandler) GetBoardActivity(c *gin.Context) {
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

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, total, err := h.activity.GetBoardActivity(c.Request.Context(), boardID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve activity"})
		return
	}

	response := make([]ActivityResponse, len(entries))
	for i, entry := range entries {
		response[i] = toActivityResponse(entry)
	}
	c.JSON(http.StatusOK, gin.H{
		"activities": response,
		"total":      total,
		"page":       page,
		"limit":      limit,
	})
}

// GetUserRecent returns the latest activity across every board the
// acting user belongs to.
// @Summary Recent activity across my boards
// @Tags activity
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max entries"
// @Success 200 {array} ActivityResponse
// @Router /api/activity/recent [get]
func (h *ActivityHandler) GetUserRecent(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	entries, err := h.activity.GetUserRecent(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve activity"})
		return
	}

	response := make([]ActivityResponse, len(entries))
	for i, entry := range entries {
		response[i] = toActivityResponse(entry)
	}
	c.JSON(http.StatusOK, response)
}
