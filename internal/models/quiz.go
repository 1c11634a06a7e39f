package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Quiz is a persisted quiz attached to a lesson. Questions are stored as a
// JSON document the frontend renders directly.
type Quiz struct {
	ID        uuid.UUID       `json:"id"`
	LessonID  uuid.UUID       `json:"lesson_id"`
	Title     string          `json:"title"`
	Questions json.RawMessage `json:"questions"`
	CreatedAt time.Time       `json:"created_at"`
}

// QuizSubmission records one user's score for a quiz.
type QuizSubmission struct {
	ID          uuid.UUID `json:"id"`
	QuizID      uuid.UUID `json:"quiz_id"`
	UserID      uuid.UUID `json:"user_id"`
	Score       int       `json:"score"`
	MaxScore    int       `json:"max_score"`
	SubmittedAt time.Time `json:"submitted_at"`
}
