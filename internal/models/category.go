package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	Description *string
	Color       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
