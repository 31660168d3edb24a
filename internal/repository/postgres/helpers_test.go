package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kanato-tk51/study-manager/internal/models"
)

func mustParseTime(value string) time.Time {
	dt, err := time.Parse("2006-01-02 15:04:05Z07:00", value)
	if err != nil {
		panic(err)
	}
	return dt
}

func mustParseDate(value string) time.Time {
	dt, err := time.Parse(time.DateOnly, value)
	if err != nil {
		panic(err)
	}
	return dt
}

// createTestUser inserts a user to satisfy foreign keys of dependent rows
func createTestUser(t *testing.T, db DBTX, email string) models.User {
	t.Helper()

	repo := UserRepo{DB: db}
	user, err := repo.CreateUser(t.Context(), email, "hashed-password", nil)
	require.NoError(t, err, "test user should be created without errors")

	return user
}

func createTestCategory(t *testing.T, db DBTX, userID uuid.UUID, name string) models.Category {
	t.Helper()

	repo := CategoryRepo{DB: db}
	category, err := repo.Create(t.Context(), models.Category{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
		Color:  "#10b981",
	})
	require.NoError(t, err, "test category should be created without errors")

	return category
}
