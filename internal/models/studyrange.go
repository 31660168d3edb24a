package models

import (
	"time"

	"github.com/google/uuid"
)

// StudyRange is a planned stretch of study days bound to a category.
// Dates are date-only values; the time part is always midnight UTC.
type StudyRange struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	CategoryID uuid.UUID
	StartDate  time.Time
	EndDate    time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
