package resources

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/classlab/backend/internal/middleware"
	"github.com/classlab/backend/internal/models"
	"github.com/classlab/backend/pkg/response"
	"github.com/classlab/backend/pkg/storage"
)

// Handler handles lesson resource uploads and downloads backed by S3.
type Handler struct {
	repo   *Repository
	s3     *storage.S3
	logger *zap.Logger
}

// NewHandler creates a resources handler.
func NewHandler(repo *Repository, s3 *storage.S3, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, s3: s3, logger: logger}
}

// Upload handles POST /lessons/:id/resources (multipart, instructor/admin).
func (h *Handler) Upload(c *gin.Context) {
	if h.s3 == nil {
		response.Internal(c, "file storage not configured")
		return
	}
	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid lesson id")
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "missing file")
		return
	}
	if fileHeader.Size > storage.MaxResourceFileSize {
		response.BadRequest(c, "file too large")
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !storage.ValidateResourceType(contentType) {
		response.BadRequest(c, "unsupported file type")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Internal(c, "failed to read upload")
		return
	}
	defer file.Close()

	resourceID := uuid.New()
	key := storage.ResourceKey(lessonID.String(), resourceID.String(), fileHeader.Filename)
	if _, err := h.s3.Upload(c.Request.Context(), h.s3.ResourcesBucket(), key, contentType, file, fileHeader.Size); err != nil {
		h.logger.Error("resource upload failed", zap.String("key", key), zap.Error(err))
		response.Internal(c, "failed to store file")
		return
	}

	res := &models.Resource{
		ID:          resourceID,
		LessonID:    lessonID,
		FileName:    fileHeader.Filename,
		ContentType: contentType,
		SizeBytes:   fileHeader.Size,
		S3Key:       key,
		UploadedBy:  c.MustGet(middleware.ContextUserID).(uuid.UUID),
	}
	if err := h.repo.Create(c.Request.Context(), res); err != nil {
		h.logger.Error("resource metadata insert failed", zap.Error(err))
		response.Internal(c, "failed to save resource")
		return
	}
	response.Created(c, res)
}

// ListByLesson handles GET /lessons/:id/resources.
func (h *Handler) ListByLesson(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid lesson id")
		return
	}
	list, err := h.repo.ListByLesson(c.Request.Context(), lessonID)
	if err != nil {
		response.Internal(c, "failed to list resources")
		return
	}
	response.OK(c, list)
}

// Download handles GET /resources/:id/download-url. Returns a pre-signed URL
// instead of proxying bytes through the API.
func (h *Handler) Download(c *gin.Context) {
	if h.s3 == nil {
		response.Internal(c, "file storage not configured")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid resource id")
		return
	}
	res, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "resource not found")
		return
	}
	url, err := h.s3.GeneratePresignedDownloadURL(c.Request.Context(), h.s3.ResourcesBucket(), res.S3Key, h.s3.PresignExpire())
	if err != nil {
		h.logger.Error("presign failed", zap.String("key", res.S3Key), zap.Error(err))
		response.Internal(c, "failed to generate download link")
		return
	}
	response.OK(c, gin.H{"url": url, "file_name": res.FileName, "content_type": res.ContentType})
}

// Delete handles DELETE /resources/:id (instructor/admin).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid resource id")
		return
	}
	res, err := h.repo.Delete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(c, "resource not found")
			return
		}
		response.Internal(c, "failed to delete resource")
		return
	}
	if h.s3 != nil {
		if err := h.s3.DeleteObject(c.Request.Context(), h.s3.ResourcesBucket(), res.S3Key); err != nil {
			h.logger.Warn("orphaned S3 object after metadata delete",
				zap.String("key", res.S3Key), zap.Error(err))
		}
	}
	response.NoContent(c)
}
