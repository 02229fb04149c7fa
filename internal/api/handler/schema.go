package handler

import (
	"time"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Request / Response types ---

type credentialsRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

type loginResponse struct {
	Token     string `json:"token"`
	Type      string `json:"type"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	ExpiresIn int64  `json:"expires_in"`
}

type meResponse struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Authorities []string `json:"authorities"`
}

type postRequest struct {
	Title   string `json:"title"   validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

type commentRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}

type pagination struct {
	Page        int   `json:"page"`
	Size        int   `json:"size"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// listResponse wraps one page of results.
type listResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination pagination `json:"pagination"`
}

func newListResponse[T any](p domain.Page[T]) listResponse[T] {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{
		Data: items,
		Pagination: pagination{
			Page:        p.Page,
			Size:        p.Size,
			Total:       p.Total,
			TotalPages:  p.TotalPages,
			HasNext:     p.HasNext,
			HasPrevious: p.HasPrevious,
		},
	}
}

type cleanupResponse struct {
	Message         string    `json:"message"`
	PostsDeleted    int64     `json:"posts_deleted"`
	CommentsDeleted int64     `json:"comments_deleted"`
	RetentionDays   int       `json:"retention_days"`
	Threshold       time.Time `json:"threshold"`
	DurationMs      int64     `json:"duration_ms"`
}

type cleanupStatsResponse struct {
	PostsToDelete    int64     `json:"posts_to_delete"`
	CommentsToDelete int64     `json:"comments_to_delete"`
	RetentionDays    int       `json:"retention_days"`
	Threshold        time.Time `json:"threshold"`
}
