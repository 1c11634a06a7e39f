package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/classlab/backend/internal/models"
)

// Repository persists classroom attendance logs and per-session summaries.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an attendance repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// LogJoin records that a user entered a classroom.
func (r *Repository) LogJoin(ctx context.Context, roomID string, userID uuid.UUID) error {
	const q = `INSERT INTO class_session_logs (room_id, user_id, joined_at)
		VALUES ($1, $2, NOW())`
	_, err := r.pool.Exec(ctx, q, roomID, userID)
	return err
}

// LogLeave closes the user's most recent open log row for the room and
// records the watch duration.
func (r *Repository) LogLeave(ctx context.Context, roomID string, userID uuid.UUID, joinedAt time.Time) error {
	const q = `UPDATE class_session_logs SET
		left_at = NOW(),
		watch_seconds = EXTRACT(EPOCH FROM (NOW() - joined_at))::BIGINT
		WHERE id = (
			SELECT id FROM class_session_logs
			WHERE room_id = $1 AND user_id = $2 AND left_at IS NULL
			ORDER BY joined_at DESC LIMIT 1
		)`
	tag, err := r.pool.Exec(ctx, q, roomID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// No open row (e.g. server restart mid-session); insert a closed one.
		const ins = `INSERT INTO class_session_logs (room_id, user_id, joined_at, left_at, watch_seconds)
			VALUES ($1, $2, $3, NOW(), EXTRACT(EPOCH FROM (NOW() - $3::timestamptz))::BIGINT)`
		_, err = r.pool.Exec(ctx, ins, roomID, userID, joinedAt)
	}
	return err
}

// ListByRoom returns attendance logs for a room, most recent join first.
func (r *Repository) ListByRoom(ctx context.Context, roomID string) ([]models.ClassSessionLog, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, room_id, user_id, joined_at, left_at, watch_seconds, created_at
		 FROM class_session_logs WHERE room_id = $1 ORDER BY joined_at DESC`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.ClassSessionLog
	for rows.Next() {
		var l models.ClassSessionLog
		if err := rows.Scan(&l.ID, &l.RoomID, &l.UserID, &l.JoinedAt, &l.LeftAt, &l.WatchSeconds, &l.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// InsertSummary writes the aggregate row for a finished class session.
func (r *Repository) InsertSummary(ctx context.Context, s *models.ClassSummary) error {
	const q = `INSERT INTO class_summaries (room_id, opened_at, closed_at, peak_participants, chat_messages, polls, questions)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q, s.RoomID, s.OpenedAt, s.ClosedAt,
		s.PeakParticipants, s.ChatMessages, s.Polls, s.Questions).
		Scan(&s.ID, &s.CreatedAt)
}

// ListSummaries returns recent class summaries, newest first.
func (r *Repository) ListSummaries(ctx context.Context, limit int) ([]models.ClassSummary, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, room_id, opened_at, closed_at, peak_participants, chat_messages, polls, questions, created_at
		 FROM class_summaries ORDER BY closed_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.ClassSummary
	for rows.Next() {
		var s models.ClassSummary
		if err := rows.Scan(&s.ID, &s.RoomID, &s.OpenedAt, &s.ClosedAt,
			&s.PeakParticipants, &s.ChatMessages, &s.Polls, &s.Questions, &s.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
