package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kanato-tk51/study-manager/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user
	// If user with email exists already has to return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, email string, hashedPassword string, displayName *string) (models.User, error)

	// Get user by id or email
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
}

// RefreshToken repository interface
//
// This is the storage contract the token authority builds its rotation rules
// on. All methods operate on the token hash, never the plaintext.
type RefreshTokenRepo interface {
	// Persist a new token row
	Save(ctx context.Context, token models.RefreshToken) (models.RefreshToken, error)

	// Return the row for the hash regardless of its state (revoked or
	// expired rows included)
	// If no row exists must return apperrors.ErrRefreshTokenInvalid
	GetByHash(ctx context.Context, tokenHash string) (models.RefreshToken, error)

	// Conditionally set revoked_at in a single statement
	// Returns true only for the call that actually transitioned the row
	// from active to revoked. Already revoked or absent rows return false
	// without error, so concurrent rotations can arbitrate on the result.
	Revoke(ctx context.Context, tokenHash string, at time.Time) (bool, error)

	// Revoke every active token of the user. Returns the number of rows
	// transitioned.
	RevokeAllForUser(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)

	// Physically delete rows that expired before the cutoff. Housekeeping
	// only; the authority itself never deletes rows.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Category repository interface
// Every method is scoped by owner: rows of other users behave as absent
// and return apperrors.ErrNotFound.
type CategoryRepo interface {
	Create(ctx context.Context, category models.Category) (models.Category, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Category, error)
	Get(ctx context.Context, userID uuid.UUID, categoryID uuid.UUID) (models.Category, error)
	Update(ctx context.Context, userID uuid.UUID, categoryID uuid.UUID, params UpdateCategoryParams) (models.Category, error)
	Delete(ctx context.Context, userID uuid.UUID, categoryID uuid.UUID) error
}

// UpdateCategoryParams describes a partial category update. Nil fields keep
// their current value.
type UpdateCategoryParams struct {
	Name        *string
	Description *string
	Color       *string
}

// StudyRange repository interface, owner scoped like CategoryRepo
type StudyRangeRepo interface {
	Create(ctx context.Context, r models.StudyRange) (models.StudyRange, error)
	List(ctx context.Context, userID uuid.UUID, filter ListRangesFilter) ([]models.StudyRange, error)
	Get(ctx context.Context, userID uuid.UUID, rangeID uuid.UUID) (models.StudyRange, error)
	Update(ctx context.Context, userID uuid.UUID, rangeID uuid.UUID, params UpdateRangeParams) (models.StudyRange, error)
	Delete(ctx context.Context, userID uuid.UUID, rangeID uuid.UUID) error
}

type ListRangesFilter struct {
	Start      *time.Time
	End        *time.Time
	CategoryID *uuid.UUID
}

type UpdateRangeParams struct {
	CategoryID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

// DailyNote repository interface, owner scoped
type DailyNoteRepo interface {
	Create(ctx context.Context, note models.DailyNote) (models.DailyNote, error)
	List(ctx context.Context, userID uuid.UUID, filter ListNotesFilter) ([]models.DailyNote, error)
	Get(ctx context.Context, userID uuid.UUID, noteID uuid.UUID) (models.DailyNote, error)
	Update(ctx context.Context, userID uuid.UUID, noteID uuid.UUID, params UpdateNoteParams) (models.DailyNote, error)
	Delete(ctx context.Context, userID uuid.UUID, noteID uuid.UUID) error

	// Insert the note or replace the body of the existing note for the
	// date in one statement
	Upsert(ctx context.Context, userID uuid.UUID, noteDate time.Time, body string) (models.DailyNote, bool, error)
}

type ListNotesFilter struct {
	Date *time.Time
	From *time.Time
	To   *time.Time
}

type UpdateNoteParams struct {
	NoteDate *time.Time
	Body     *string
}

// Storage bundles all repositories over one connection source
type Storage interface {
	User() UserRepo
	Refresh() RefreshTokenRepo
	Category() CategoryRepo
	StudyRange() StudyRangeRepo
	Note() DailyNoteRepo

	// Run fn inside a database transaction
	InTx(ctx context.Context, fn func(s Storage) error) error
}
