package handler

import (
	"net/http"

	"github.com/harshavardhan-hub/task-collab-platform/internal/middleware"
	"github.com/harshavardhan-hub/task-collab-platform/internal/model"
	"github.com/harshavardhan-hub/task-collab-platform/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// currentUserID reads the authenticated user id set by the JWT
// middleware. It writes the error response itself when missing.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return uuid.Nil, false
	}

	userID, ok := value.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return uuid.Nil, false
	}
	return userID, true
}

// parseIDParam parses a uuid path parameter, writing 400 on failure.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return uuid.Nil, false
	}
	return id, true
}

// requireBoardMember loads the board and checks the acting user is a
// member. Missing board is a 404, non-membership a 403; both responses
// are written here and the caller just returns on !ok.
func requireBoardMember(c *gin.Context, boards *repository.BoardRepository, members *repository.BoardMemberRepository, boardID, userID uuid.UUID) (*model.Board, bool) {
	board, err := boards.GetByID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return nil, false
	}
	if board == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return nil, false
	}

	isMember, err := members.IsMember(c.Request.Context(), boardID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return nil, false
	}
	if !isMember {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return nil, false
	}

	return board, true
}

// requireBoardOwner is requireBoardMember tightened to the owner, used
// by board update/delete and member management.
func requireBoardOwner(c *gin.Context, boards *repository.BoardRepository, boardID, userID uuid.UUID) (*model.Board, bool) {
	board, err := boards.GetByID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return nil, false
	}
	if board == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return nil, false
	}

	if board.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return nil, false
	}

	return board, true
}
