package courses

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/classlab/backend/internal/middleware"
	"github.com/classlab/backend/internal/models"
	"github.com/classlab/backend/pkg/response"
)

// CreateRequest is the body for POST /courses.
type CreateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Published   bool   `json:"published"`
}

// UpdateRequest is the body for PATCH /courses/:id. Nil fields are unchanged.
type UpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Published   *bool   `json:"published"`
}

// Handler handles course HTTP endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates a courses handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// List handles GET /courses.
func (h *Handler) List(c *gin.Context) {
	role, _ := c.MustGet(middleware.ContextUserRole).(string)
	publishedOnly := role == string(models.RoleStudent)
	list, err := h.repo.List(c.Request.Context(), publishedOnly)
	if err != nil {
		response.Internal(c, "failed to list courses")
		return
	}
	response.OK(c, list)
}

// Create handles POST /courses (instructor/admin).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	instructorID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	course := &models.Course{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		InstructorID: instructorID,
		Published:    req.Published,
	}
	if err := h.repo.Create(c.Request.Context(), course); err != nil {
		response.Internal(c, "failed to create course")
		return
	}
	response.Created(c, course)
}

// GetByID handles GET /courses/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid course id")
		return
	}
	course, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "course not found")
		return
	}
	response.OK(c, course)
}

// Update handles PATCH /courses/:id (owning instructor or admin).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid course id")
		return
	}
	if !h.canManage(c, id) {
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	course, err := h.repo.Update(c.Request.Context(), id, req.Title, req.Description, req.Category, req.Published)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "course not found")
			return
		}
		response.Internal(c, "failed to update course")
		return
	}
	response.OK(c, course)
}

// Delete handles DELETE /courses/:id (owning instructor or admin).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid course id")
		return
	}
	if !h.canManage(c, id) {
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "course not found")
			return
		}
		response.Internal(c, "failed to delete course")
		return
	}
	response.NoContent(c)
}

// canManage allows admins and the owning instructor; writes the error
// response itself when access is denied.
func (h *Handler) canManage(c *gin.Context, courseID uuid.UUID) bool {
	role, _ := c.MustGet(middleware.ContextUserRole).(string)
	if role == string(models.RoleAdmin) {
		return true
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	course, err := h.repo.GetByID(c.Request.Context(), courseID)
	if err != nil {
		response.NotFound(c, "course not found")
		return false
	}
	if course.InstructorID != userID {
		response.Forbidden(c, "not the course instructor")
		return false
	}
	return true
}
