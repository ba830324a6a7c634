package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/harshavardhan-hub/task-collab-platform/internal/model"
	"github.com/harshavardhan-hub/task-collab-platform/internal/realtime"
	"github.com/harshavardhan-hub/task-collab-platform/internal/repository"

	"github.com/gin-gonic/gin"
)

type BoardHandler struct {
	boards  *repository.BoardRepository
	members *repository.BoardMemberRepository
	lists   *repository.ListRepository
	tasks   *repository.TaskRepository
	users   repository.UserRepositoryInterface
	hub     *realtime.Hub
}

func NewBoardHandler(
	boards *repository.BoardRepository,
	members *repository.BoardMemberRepository,
	lists *repository.ListRepository,
	tasks *repository.TaskRepository,
	users repository.UserRepositoryInterface,
	hub *realtime.Hub,
) *BoardHandler {
	return &BoardHandler{
		boards:  boards,
		members: members,
		lists:   lists,
		tasks:   tasks,
		users:   users,
		hub:     hub,
	}
}

type boardRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	BackgroundColor string `json:"background_color"`
}

type boardUpdateRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	BackgroundColor *string `json:"background_color"`
}

type addMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Create creates a board owned by the acting user.
// @Summary Create a board
// @Tags boards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body boardRequest true "Board data"
// @Success 201 {object} BoardResponse
// @Router /api/boards [post]
func (h *BoardHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req boardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	board := &model.Board{
		Title:           req.Title,
		Description:     req.Description,
		BackgroundColor: req.BackgroundColor,
		OwnerID:         userID,
	}
	if err := h.boards.Create(c.Request.Context(), board); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create board"})
		return
	}

	c.JSON(http.StatusCreated, toBoardResponse(board))
}

// GetAll returns summaries of every board the user belongs to.
// @Summary List my boards
// @Tags boards
// @Produce json
// @Security BearerAuth
// @Success 200 {array} BoardSummaryResponse
// @Router /api/boards [get]
func (h *BoardHandler) GetAll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	summaries, err := h.boards.GetForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve boards"})
		return
	}

	response := make([]BoardSummaryResponse, len(summaries))
	for i, s := range summaries {
		response[i] = toBoardSummaryResponse(s)
	}
	c.JSON(http.StatusOK, response)
}

// GetByID returns the full board view: members plus lists with their
// ordered tasks and assignees.
// @Summary Get a board with its lists and tasks
// @Tags boards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Board ID"
// @Success 200 {object} BoardDetailResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/boards/{id} [get]
func (h *BoardHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	board, ok := requireBoardMember(c, h.boards, h.members, boardID, userID)
	if !ok {
		return
	}

	members, err := h.members.GetMembers(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve members"})
		return
	}

	lists, err := h.lists.GetByBoardID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve lists"})
		return
	}

	response := BoardDetailResponse{
		BoardResponse: toBoardResponse(board),
		Members:       make([]MemberResponse, len(members)),
		Lists:         make([]ListResponse, len(lists)),
	}
	for i, m := range members {
		response.Members[i] = toMemberResponse(m)
	}
	for i := range lists {
		tasks, err := h.tasks.GetByListID(c.Request.Context(), lists[i].ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
			return
		}
		response.Lists[i] = toListResponse(&lists[i], tasks)
		if response.Lists[i].Tasks == nil {
			response.Lists[i].Tasks = []TaskResponse{}
		}
	}

	c.JSON(http.StatusOK, response)
}

// Update edits board fields, keeping any field the request omits. Only
// the owner may update a board.
// @Summary Update a board
// @Tags boards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Board ID"
// @Param request body boardUpdateRequest true "Fields to change"
// @Success 200 {object} BoardResponse
// @Router /api/boards/{id} [put]
func (h *BoardHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req boardUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	board, ok := requireBoardOwner(c, h.boards, boardID, userID)
	if !ok {
		return
	}

	if req.Title != nil {
		board.Title = *req.Title
	}
	if req.Description != nil {
		board.Description = *req.Description
	}
	if req.BackgroundColor != nil {
		board.BackgroundColor = *req.BackgroundColor
	}

	if err := h.boards.Update(c.Request.Context(), board); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update board"})
		return
	}

	response := toBoardResponse(board)
	h.hub.Broadcast(board.ID, realtime.Event{Type: realtime.EventBoardUpdated, Data: response})
	c.JSON(http.StatusOK, response)
}

// Delete removes the board and, through the schema cascade, all of its
// lists, tasks, assignments and activity. Owner only.
// @Summary Delete a board
// @Tags boards
// @Security BearerAuth
// @Param id path string true "Board ID"
// @Success 200 {object} map[string]string
// @Router /api/boards/{id} [delete]
func (h *BoardHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, ok := requireBoardOwner(c, h.boards, boardID, userID); !ok {
		return
	}

	if err := h.boards.Delete(c.Request.Context(), boardID); err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete board"})
		return
	}

	h.hub.Broadcast(boardID, realtime.Event{Type: realtime.EventBoardDeleted, Data: gin.H{"id": boardID}})
	c.JSON(http.StatusOK, gin.H{"message": "Board deleted"})
}

// AddMember adds a registered user to the board by email. Only the
// board owner may add members.
// @Summary Add a board member
// @Tags boards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Board ID"
// @Param request body addMemberRequest true "Member email"
// @Success 201 {object} MemberResponse
// @Failure 409 {object} map[string]string
// @Router /api/boards/{id}/members [post]
func (h *BoardHandler) AddMember(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if _, ok := requireBoardOwner(c, h.boards, boardID, userID); !ok {
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := h.members.AddMember(c.Request.Context(), boardID, user, userID); err != nil {
		if errors.Is(err, repository.ErrAlreadyMember) {
			c.JSON(http.StatusConflict, gin.H{"error": "User is already a member of this board"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add member"})
		return
	}

	response := MemberResponse{
		UserID:    user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		AvatarURL: user.AvatarURL,
		Role:      model.RoleMember,
	}
	h.hub.Broadcast(boardID, realtime.Event{Type: realtime.EventMemberAdded, Data: response})
	c.JSON(http.StatusCreated, response)
}

// GetMembers lists the board's membership.
// @Summary List board members
// @Tags boards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Board ID"
// @Success 200 {array} MemberResponse
// @Router /api/boards/{id}/members [get]
func (h *BoardHandler) GetMembers(c *gin.Context) {
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

	members, err := h.members.GetMembers(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve members"})
		return
	}

	response := make([]MemberResponse, len(members))
	for i, m := range members {
		response[i] = toMemberResponse(m)
	}
	c.JSON(http.StatusOK, response)
}
