package models

import (
	"time"

	"github.com/google/uuid"
)

// ClassSessionLog tracks join/leave and watch duration per classroom attendee.
type ClassSessionLog struct {
	ID           uuid.UUID  `json:"id"`
	RoomID       string     `json:"room_id"`
	UserID       uuid.UUID  `json:"user_id"`
	JoinedAt     time.Time  `json:"joined_at"`
	LeftAt       *time.Time `json:"left_at,omitempty"`
	WatchSeconds int64      `json:"watch_seconds"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ClassSummary is the aggregate written when a live classroom empties.
type ClassSummary struct {
	ID               uuid.UUID `json:"id"`
	RoomID           string    `json:"room_id"`
	OpenedAt         time.Time `json:"opened_at"`
	ClosedAt         time.Time `json:"closed_at"`
	PeakParticipants int       `json:"peak_participants"`
	ChatMessages     int       `json:"chat_messages"`
	Polls            int       `json:"polls"`
	Questions        int       `json:"questions"`
	CreatedAt        time.Time `json:"created_at"`
}
