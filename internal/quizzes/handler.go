package quizzes

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/classlab/backend/internal/middleware"
	"github.com/classlab/backend/internal/models"
	"github.com/classlab/backend/pkg/response"
)

// CreateRequest is the body for POST /lessons/:id/quiz.
type CreateRequest struct {
	Title     string          `json:"title" binding:"required"`
	Questions json.RawMessage `json:"questions" binding:"required"`
}

// SubmitRequest is the body for POST /quizzes/:id/submit.
type SubmitRequest struct {
	Score    int `json:"score"`
	MaxScore int `json:"max_score" binding:"required"`
}

// Handler handles quiz HTTP endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates a quizzes handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Create handles POST /lessons/:id/quiz (instructor/admin).
func (h *Handler) Create(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid lesson id")
		return
	}
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	quiz := &models.Quiz{
		LessonID:  lessonID,
		Title:     req.Title,
		Questions: req.Questions,
	}
	if err := h.repo.Create(c.Request.Context(), quiz); err != nil {
		response.Internal(c, "failed to create quiz")
		return
	}
	response.Created(c, quiz)
}

// GetByLesson handles GET /lessons/:id/quiz.
func (h *Handler) GetByLesson(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid lesson id")
		return
	}
	quiz, err := h.repo.GetByLesson(c.Request.Context(), lessonID)
	if err != nil {
		response.NotFound(c, "quiz not found")
		return
	}
	response.OK(c, quiz)
}

// Submit handles POST /quizzes/:id/submit.
func (h *Handler) Submit(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid quiz id")
		return
	}
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if _, err := h.repo.GetByID(c.Request.Context(), quizID); err != nil {
		response.NotFound(c, "quiz not found")
		return
	}
	sub := &models.QuizSubmission{
		QuizID:   quizID,
		UserID:   c.MustGet(middleware.ContextUserID).(uuid.UUID),
		Score:    req.Score,
		MaxScore: req.MaxScore,
	}
	if err := h.repo.Submit(c.Request.Context(), sub); err != nil {
		response.Internal(c, "failed to submit quiz")
		return
	}
	response.Created(c, sub)
}
