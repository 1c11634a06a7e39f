package attendance

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/classlab/backend/pkg/response"
)

// Handler exposes attendance logs and class summaries over HTTP.
type Handler struct {
	repo *Repository
}

// NewHandler creates an attendance handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// ListByRoom handles GET /attendance/:roomId (instructor/admin).
func (h *Handler) ListByRoom(c *gin.Context) {
	roomID := c.Param("roomId")
	if roomID == "" {
		response.BadRequest(c, "missing room id")
		return
	}
	list, err := h.repo.ListByRoom(c.Request.Context(), roomID)
	if err != nil {
		response.Internal(c, "failed to list attendance")
		return
	}
	response.OK(c, list)
}

// ListSummaries handles GET /class-summaries (instructor/admin).
func (h *Handler) ListSummaries(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	list, err := h.repo.ListSummaries(c.Request.Context(), limit)
	if err != nil {
		response.Internal(c, "failed to list class summaries")
		return
	}
	response.OK(c, list)
}
