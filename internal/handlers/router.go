package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kanato-tk51/study-manager/internal/models"
	"github.com/kanato-tk51/study-manager/internal/repository"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

// NewRouter mounts the auth routes and the authenticated /me subtree
func NewRouter(
	auth *AuthHandler,
	me *MeHandler,
	authMiddleware func(http.Handler) http.Handler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	root := http.NewServeMux()

	root.Handle("/auth/", http.StripPrefix("/auth", auth.Handler()))
	root.Handle("POST /auth/logout-all", authMiddleware(http.HandlerFunc(auth.logoutAll)))
	root.Handle("/me", authMiddleware(http.HandlerFunc(me.me)))
	root.Handle("/me/", authMiddleware(http.StripPrefix("/me", me.Handler())))

	return chain(root, middlewares...)
}

type authService interface {
	// Register user with email and password
	// Has to return apperrors.ErrUserAlreadyExists if email is taken
	Register(ctx context.Context, email string, password string, displayName *string) (models.User, models.TokenPair, error)

	// Login user with email and password
	// Unknown email and wrong password both return apperrors.ErrUserNotFound
	Login(ctx context.Context, email string, password string) (models.User, models.TokenPair, error)

	// Rotate the refresh token for a new pair
	// Invalid, reused and expired tokens return their apperrors sentinel
	Refresh(ctx context.Context, refresh string) (models.TokenPair, error)

	// Revoke the refresh token; stale tokens are fine
	Logout(ctx context.Context, refresh string) error

	// Revoke every refresh token of the user
	LogoutAll(ctx context.Context, userID uuid.UUID) error
}

type plannerService interface {
	CreateCategory(ctx context.Context, userID uuid.UUID, name string, description *string, color string) (models.Category, error)
	ListCategories(ctx context.Context, userID uuid.UUID) ([]models.Category, error)
	GetCategory(ctx context.Context, userID uuid.UUID, categoryID uuid.UUID) (models.Category, error)
	UpdateCategory(ctx context.Context, userID uuid.UUID, categoryID uuid.UUID, params repository.UpdateCategoryParams) (models.Category, error)
	DeleteCategory(ctx context.Context, userID uuid.UUID, categoryID uuid.UUID) error

	CreateRange(ctx context.Context, userID uuid.UUID, categoryID uuid.UUID, start time.Time, end time.Time) (models.StudyRange, error)
	ListRanges(ctx context.Context, userID uuid.UUID, filter repository.ListRangesFilter) ([]models.StudyRange, error)
	GetRange(ctx context.Context, userID uuid.UUID, rangeID uuid.UUID) (models.StudyRange, error)
	UpdateRange(ctx context.Context, userID uuid.UUID, rangeID uuid.UUID, params repository.UpdateRangeParams) (models.StudyRange, error)
	DeleteRange(ctx context.Context, userID uuid.UUID, rangeID uuid.UUID) error

	CreateNote(ctx context.Context, userID uuid.UUID, noteDate time.Time, body string) (models.DailyNote, error)
	ListNotes(ctx context.Context, userID uuid.UUID, filter repository.ListNotesFilter) ([]models.DailyNote, error)
	GetNote(ctx context.Context, userID uuid.UUID, noteID uuid.UUID) (models.DailyNote, error)
	UpdateNote(ctx context.Context, userID uuid.UUID, noteID uuid.UUID, params repository.UpdateNoteParams) (models.DailyNote, error)
	DeleteNote(ctx context.Context, userID uuid.UUID, noteID uuid.UUID) error
	UpsertNote(ctx context.Context, userID uuid.UUID, noteDate time.Time, body string) (models.DailyNote, bool, error)
}
