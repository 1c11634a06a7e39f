package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classlab/backend/internal/models"
)

// Repository handles task persistence. Tasks are always scoped to their
// owning user.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a tasks repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new task for a user.
func (r *Repository) Create(ctx context.Context, t *models.Task) error {
	const q = `INSERT INTO tasks (user_id, title, description, due_date, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, t.UserID, t.Title, t.Description, t.DueDate, string(t.Status)).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// ListByUser returns a user's tasks, nearest due date first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, title, description, due_date, status, created_at, updated_at
		 FROM tasks WHERE user_id = $1 ORDER BY due_date NULLS LAST, created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.DueDate, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Update applies partial changes to a task owned by userID.
func (r *Repository) Update(ctx context.Context, id, userID uuid.UUID, title, description *string, dueDate *time.Time, status *string) (*models.Task, error) {
	const q = `UPDATE tasks SET
		title = COALESCE($3, title),
		description = COALESCE($4, description),
		due_date = COALESCE($5, due_date),
		status = COALESCE($6, status),
		updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, title, description, due_date, status, created_at, updated_at`
	var t models.Task
	err := r.pool.QueryRow(ctx, q, id, userID, title, description, dueDate, status).
		Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.DueDate, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete removes a task owned by userID.
func (r *Repository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
