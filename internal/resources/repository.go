package resources

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classlab/backend/internal/models"
)

// Repository handles resource metadata persistence. Object bytes live in S3.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a resources repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts resource metadata.
func (r *Repository) Create(ctx context.Context, res *models.Resource) error {
	const q = `INSERT INTO resources (id, lesson_id, file_name, content_type, size_bytes, s3_key, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`
	return r.pool.QueryRow(ctx, q, res.ID, res.LessonID, res.FileName, res.ContentType,
		res.SizeBytes, res.S3Key, res.UploadedBy).Scan(&res.CreatedAt)
}

// GetByID returns a resource by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
	const q = `SELECT id, lesson_id, file_name, content_type, size_bytes, s3_key, uploaded_by, created_at
		FROM resources WHERE id = $1`
	var res models.Resource
	err := r.pool.QueryRow(ctx, q, id).Scan(&res.ID, &res.LessonID, &res.FileName,
		&res.ContentType, &res.SizeBytes, &res.S3Key, &res.UploadedBy, &res.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ListByLesson returns all resources attached to a lesson, newest first.
func (r *Repository) ListByLesson(ctx context.Context, lessonID uuid.UUID) ([]models.Resource, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, lesson_id, file_name, content_type, size_bytes, s3_key, uploaded_by, created_at
		 FROM resources WHERE lesson_id = $1 ORDER BY created_at DESC`, lessonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Resource
	for rows.Next() {
		var res models.Resource
		if err := rows.Scan(&res.ID, &res.LessonID, &res.FileName, &res.ContentType,
			&res.SizeBytes, &res.S3Key, &res.UploadedBy, &res.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, res)
	}
	return list, rows.Err()
}

// Delete removes resource metadata and returns the deleted row for S3 cleanup.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
	const q = `DELETE FROM resources WHERE id = $1
		RETURNING id, lesson_id, file_name, content_type, size_bytes, s3_key, uploaded_by, created_at`
	var res models.Resource
	err := r.pool.QueryRow(ctx, q, id).Scan(&res.ID, &res.LessonID, &res.FileName,
		&res.ContentType, &res.SizeBytes, &res.S3Key, &res.UploadedBy, &res.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
