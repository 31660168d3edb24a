package models

import (
	"time"

	"github.com/google/uuid"
)

// DailyNote is free-form text bound to a single calendar day.
// At most one note exists per user per date.
type DailyNote struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	NoteDate  time.Time
	Body      string
	UpdatedAt time.Time
}
