package handler

import (
	"encoding/json"
	"time"

	"github.com/harshavardhan-hub/task-collab-platform/internal/model"
	"github.com/harshavardhan-hub/task-collab-platform/internal/repository"

	"github.com/google/uuid"
)

// UserResponse is the public projection of a user account.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
}

// MemberResponse is one row of a board's membership list.
type MemberResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Role      string    `json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
}

// TaskResponse carries a task with its assignees.
type TaskResponse struct {
	ID            uuid.UUID      `json:"id"`
	ListID        uuid.UUID      `json:"list_id"`
	BoardID       uuid.UUID      `json:"board_id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Priority      string         `json:"priority"`
	Labels        []string       `json:"labels"`
	DueDate       *time.Time     `json:"due_date,omitempty"`
	AttachmentURL string         `json:"attachment_url,omitempty"`
	Position      int            `json:"position"`
	CreatedBy     uuid.UUID      `json:"created_by"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	Assignees     []UserResponse `json:"assignees"`
}

// ListResponse carries a list, optionally with its ordered tasks.
type ListResponse struct {
	ID        uuid.UUID      `json:"id"`
	BoardID   uuid.UUID      `json:"board_id"`
	Title     string         `json:"title"`
	Position  int            `json:"position"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Tasks     []TaskResponse `json:"tasks,omitempty"`
}

// BoardResponse is the bare board row.
type BoardResponse struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	BackgroundColor string    `json:"background_color"`
	OwnerID         uuid.UUID `json:"owner_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BoardSummaryResponse is the dashboard projection with owner details
// and content counts.
type BoardSummaryResponse struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	BackgroundColor string    `json:"background_color"`
	OwnerID         uuid.UUID `json:"owner_id"`
	OwnerName       string    `json:"owner_name"`
	OwnerAvatar     string    `json:"owner_avatar,omitempty"`
	ListCount       int64     `json:"list_count"`
	TaskCount       int64     `json:"task_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BoardDetailResponse is the full board view: members and lists with
// their tasks, everything the board page needs in one request.
type BoardDetailResponse struct {
	BoardResponse
	Members []MemberResponse `json:"members"`
	Lists   []ListResponse   `json:"lists"`
}

// ActivityResponse is one activity feed entry.
type ActivityResponse struct {
	ID         uuid.UUID       `json:"id"`
	BoardID    uuid.UUID       `json:"board_id"`
	UserID     uuid.UUID       `json:"user_id"`
	UserName   string          `json:"user_name"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   uuid.UUID       `json:"entity_id"`
	Metadata   json.RawMessage `json:"metadata"`
	CreatedAt  time.Time       `json:"created_at"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
	}
}

func toMemberResponse(m model.BoardMember) MemberResponse {
	return MemberResponse{
		UserID:    m.UserID,
		Email:     m.User.Email,
		FullName:  m.User.FullName,
		AvatarURL: m.User.AvatarURL,
		Role:      m.Role,
		JoinedAt:  m.CreatedAt,
	}
}

func toTaskResponse(t *model.Task) TaskResponse {
	assignees := make([]UserResponse, len(t.Assignees))
	for i := range t.Assignees {
		assignees[i] = toUserResponse(&t.Assignees[i])
	}

	labels := []string(t.Labels)
	if labels == nil {
		labels = []string{}
	}

	return TaskResponse{
		ID:            t.ID,
		ListID:        t.ListID,
		BoardID:       t.BoardID,
		Title:         t.Title,
		Description:   t.Description,
		Priority:      t.Priority,
		Labels:        labels,
		DueDate:       t.DueDate,
		AttachmentURL: t.AttachmentURL,
		Position:      t.Position,
		CreatedBy:     t.CreatedBy,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
		Assignees:     assignees,
	}
}

func toListResponse(l *model.List, tasks []model.Task) ListResponse {
	resp := ListResponse{
		ID:        l.ID,
		BoardID:   l.BoardID,
		Title:     l.Title,
		Position:  l.Position,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
	if tasks != nil {
		resp.Tasks = make([]TaskResponse, len(tasks))
		for i := range tasks {
			resp.Tasks[i] = toTaskResponse(&tasks[i])
		}
	}
	return resp
}

func toBoardResponse(b *model.Board) BoardResponse {
	return BoardResponse{
		ID:              b.ID,
		Title:           b.Title,
		Description:     b.Description,
		BackgroundColor: b.BackgroundColor,
		OwnerID:         b.OwnerID,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func toBoardSummaryResponse(s repository.BoardSummary) BoardSummaryResponse {
	return BoardSummaryResponse{
		ID:              s.ID,
		Title:           s.Title,
		Description:     s.Description,
		BackgroundColor: s.BackgroundColor,
		OwnerID:         s.OwnerID,
		OwnerName:       s.OwnerName,
		OwnerAvatar:     s.OwnerAvatar,
		ListCount:       s.ListCount,
		TaskCount:       s.TaskCount,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func toActivityResponse(a model.ActivityLog) ActivityResponse {
	return ActivityResponse{
		ID:         a.ID,
		BoardID:    a.BoardID,
		UserID:     a.UserID,
		UserName:   a.User.FullName,
		Action:     a.Action,
		EntityType: a.EntityType,
		EntityID:   a.EntityID,
		Metadata:   json.RawMessage(a.Metadata),
		CreatedAt:  a.CreatedAt,
	}
}
