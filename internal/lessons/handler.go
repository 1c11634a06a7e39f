package lessons

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/classlab/backend/internal/models"
	"github.com/classlab/backend/pkg/response"
)

// CreateRequest is the body for POST /courses/:id/lessons.
type CreateRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content"`
	VideoURL string `json:"video_url"`
}

// UpdateRequest is the body for PATCH /lessons/:id. Nil fields are unchanged.
type UpdateRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	VideoURL *string `json:"video_url"`
	Position *int    `json:"position"`
}

// Handler handles lesson HTTP endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates a lessons handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// ListByCourse handles GET /courses/:id/lessons.
func (h *Handler) ListByCourse(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid course id")
		return
	}
	list, err := h.repo.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		response.Internal(c, "failed to list lessons")
		return
	}
	response.OK(c, list)
}

// Create handles POST /courses/:id/lessons (instructor/admin).
func (h *Handler) Create(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid course id")
		return
	}
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	lesson := &models.Lesson{
		CourseID: courseID,
		Title:    req.Title,
		Content:  req.Content,
		VideoURL: req.VideoURL,
	}
	if err := h.repo.Create(c.Request.Context(), lesson); err != nil {
		response.Internal(c, "failed to create lesson")
		return
	}
	response.Created(c, lesson)
}

// GetByID handles GET /lessons/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid lesson id")
		return
	}
	lesson, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "lesson not found")
		return
	}
	response.OK(c, lesson)
}

// Update handles PATCH /lessons/:id (instructor/admin).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid lesson id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	lesson, err := h.repo.Update(c.Request.Context(), id, req.Title, req.Content, req.VideoURL, req.Position)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "lesson not found")
			return
		}
		response.Internal(c, "failed to update lesson")
		return
	}
	response.OK(c, lesson)
}

// Delete handles DELETE /lessons/:id (instructor/admin).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid lesson id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "lesson not found")
			return
		}
		response.Internal(c, "failed to delete lesson")
		return
	}
	response.NoContent(c)
}
