package courses

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classlab/backend/internal/models"
)

// Repository handles course persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a courses repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new course.
func (r *Repository) Create(ctx context.Context, c *models.Course) error {
	const q = `INSERT INTO courses (title, description, category, instructor_id, published)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, c.Title, c.Description, c.Category, c.InstructorID, c.Published).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// GetByID returns a course by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	const q = `SELECT id, title, description, category, instructor_id, published, created_at, updated_at
		FROM courses WHERE id = $1`
	var c models.Course
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&c.ID, &c.Title, &c.Description, &c.Category, &c.InstructorID, &c.Published, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns the catalog. Students see published courses only; instructors
// and admins see everything.
func (r *Repository) List(ctx context.Context, publishedOnly bool) ([]models.Course, error) {
	q := `SELECT id, title, description, category, instructor_id, published, created_at, updated_at
		FROM courses ORDER BY created_at DESC`
	if publishedOnly {
		q = `SELECT id, title, description, category, instructor_id, published, created_at, updated_at
		FROM courses WHERE published ORDER BY created_at DESC`
	}
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Category, &c.InstructorID, &c.Published, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update applies partial changes to a course.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, title, description, category *string, published *bool) (*models.Course, error) {
	const q = `UPDATE courses SET
		title = COALESCE($2, title),
		description = COALESCE($3, description),
		category = COALESCE($4, category),
		published = COALESCE($5, published),
		updated_at = NOW()
		WHERE id = $1
		RETURNING id, title, description, category, instructor_id, published, created_at, updated_at`
	var c models.Course
	err := r.pool.QueryRow(ctx, q, id, title, description, category, published).
		Scan(&c.ID, &c.Title, &c.Description, &c.Category, &c.InstructorID, &c.Published, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete removes a course and cascades to its lessons.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
