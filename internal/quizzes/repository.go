package quizzes

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classlab/backend/internal/models"
)

// Repository handles quiz persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a quizzes repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a quiz for a lesson (one quiz per lesson).
func (r *Repository) Create(ctx context.Context, q *models.Quiz) error {
	const query = `INSERT INTO quizzes (lesson_id, title, questions)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, q.LessonID, q.Title, q.Questions).
		Scan(&q.ID, &q.CreatedAt)
}

// GetByLesson returns the quiz attached to a lesson.
func (r *Repository) GetByLesson(ctx context.Context, lessonID uuid.UUID) (*models.Quiz, error) {
	const query = `SELECT id, lesson_id, title, questions, created_at
		FROM quizzes WHERE lesson_id = $1`
	var q models.Quiz
	var questions []byte
	err := r.pool.QueryRow(ctx, query, lessonID).
		Scan(&q.ID, &q.LessonID, &q.Title, &questions, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	q.Questions = json.RawMessage(questions)
	return &q, nil
}

// GetByID returns a quiz by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Quiz, error) {
	const query = `SELECT id, lesson_id, title, questions, created_at
		FROM quizzes WHERE id = $1`
	var q models.Quiz
	var questions []byte
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&q.ID, &q.LessonID, &q.Title, &questions, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	q.Questions = json.RawMessage(questions)
	return &q, nil
}

// Submit records a user's score for a quiz.
func (r *Repository) Submit(ctx context.Context, s *models.QuizSubmission) error {
	const query = `INSERT INTO quiz_submissions (quiz_id, user_id, score, max_score)
		VALUES ($1, $2, $3, $4)
		RETURNING id, submitted_at`
	return r.pool.QueryRow(ctx, query, s.QuizID, s.UserID, s.Score, s.MaxScore).
		Scan(&s.ID, &s.SubmittedAt)
}
