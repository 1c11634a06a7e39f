package lessons

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classlab/backend/internal/models"
)

// Repository handles lesson persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a lessons repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a lesson at the end of its course.
func (r *Repository) Create(ctx context.Context, l *models.Lesson) error {
	const q = `INSERT INTO lessons (course_id, title, content, video_url, position)
		VALUES ($1, $2, $3, $4,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM lessons WHERE course_id = $1))
		RETURNING id, position, created_at`
	return r.pool.QueryRow(ctx, q, l.CourseID, l.Title, l.Content, l.VideoURL).
		Scan(&l.ID, &l.Position, &l.CreatedAt)
}

// GetByID returns a lesson by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error) {
	const q = `SELECT id, course_id, title, content, video_url, position, created_at
		FROM lessons WHERE id = $1`
	var l models.Lesson
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&l.ID, &l.CourseID, &l.Title, &l.Content, &l.VideoURL, &l.Position, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// ListByCourse returns a course's lessons in position order.
func (r *Repository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Lesson, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, course_id, title, content, video_url, position, created_at
		 FROM lessons WHERE course_id = $1 ORDER BY position`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Lesson
	for rows.Next() {
		var l models.Lesson
		if err := rows.Scan(&l.ID, &l.CourseID, &l.Title, &l.Content, &l.VideoURL, &l.Position, &l.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// Update applies partial changes to a lesson.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, title, content, videoURL *string, position *int) (*models.Lesson, error) {
	const q = `UPDATE lessons SET
		title = COALESCE($2, title),
		content = COALESCE($3, content),
		video_url = COALESCE($4, video_url),
		position = COALESCE($5, position)
		WHERE id = $1
		RETURNING id, course_id, title, content, video_url, position, created_at`
	var l models.Lesson
	err := r.pool.QueryRow(ctx, q, id, title, content, videoURL, position).
		Scan(&l.ID, &l.CourseID, &l.Title, &l.Content, &l.VideoURL, &l.Position, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Delete removes a lesson.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
