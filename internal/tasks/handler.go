package tasks

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/classlab/backend/internal/middleware"
	"github.com/classlab/backend/internal/models"
	"github.com/classlab/backend/pkg/response"
)

// CreateRequest is the body for POST /tasks.
type CreateRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Status      string     `json:"status" binding:"omitempty,oneof=todo in_progress done"`
}

// UpdateRequest is the body for PATCH /tasks/:id. Nil fields are unchanged.
type UpdateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Status      *string    `json:"status" binding:"omitempty,oneof=todo in_progress done"`
}

// Handler handles task HTTP endpoints, all scoped to the JWT user.
type Handler struct {
	repo *Repository
}

// NewHandler creates a tasks handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// List handles GET /tasks.
func (h *Handler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	list, err := h.repo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to list tasks")
		return
	}
	response.OK(c, list)
}

// Create handles POST /tasks.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	status := models.TaskStatus(req.Status)
	if status == "" {
		status = models.TaskStatusTodo
	}
	task := &models.Task{
		UserID:      c.MustGet(middleware.ContextUserID).(uuid.UUID),
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      status,
	}
	if err := h.repo.Create(c.Request.Context(), task); err != nil {
		response.Internal(c, "failed to create task")
		return
	}
	response.Created(c, task)
}

// Update handles PATCH /tasks/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid task id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	task, err := h.repo.Update(c.Request.Context(), id, userID, req.Title, req.Description, req.DueDate, req.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "task not found")
			return
		}
		response.Internal(c, "failed to update task")
		return
	}
	response.OK(c, task)
}

// Delete handles DELETE /tasks/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid task id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	if err := h.repo.Delete(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "task not found")
			return
		}
		response.Internal(c, "failed to delete task")
		return
	}
	response.NoContent(c)
}
