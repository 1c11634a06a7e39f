package models

import (
	"time"

	"github.com/google/uuid"
)

// Resource is a lesson attachment stored in S3.
type Resource struct {
	ID          uuid.UUID `json:"id"`
	LessonID    uuid.UUID `json:"lesson_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	S3Key       string    `json:"s3_key"`
	UploadedBy  uuid.UUID `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}
