package tokenauthority

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanato-tk51/study-manager/internal/apperrors"
	"github.com/kanato-tk51/study-manager/internal/models"
	"github.com/kanato-tk51/study-manager/internal/repository/postgres"
	"github.com/kanato-tk51/study-manager/internal/testutil"
)

func Test_Cleaner(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	t.Run("deletes rows expired beyond retention", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			userRepo := postgres.UserRepo{DB: tx}
			user, err := userRepo.CreateUser(t.Context(), "cleaner@example.com", "hashed-password", nil)
			require.NoError(t, err)

			repo := &postgres.RefreshTokenRepo{DB: tx}
			longDead := models.RefreshToken{
				ID:        uuid.New(),
				UserID:    user.ID,
				TokenHash: "long-dead",
				CreatedAt: time.Now().AddDate(0, -6, 0),
				ExpiresAt: time.Now().AddDate(0, -3, 0),
			}
			recentlyExpired := models.RefreshToken{
				ID:        uuid.New(),
				UserID:    user.ID,
				TokenHash: "recently-expired",
				CreatedAt: time.Now().AddDate(0, 0, -2),
				ExpiresAt: time.Now().AddDate(0, 0, -1),
			}
			for _, token := range []models.RefreshToken{longDead, recentlyExpired} {
				_, err := repo.Save(t.Context(), token)
				require.NoError(t, err)
			}

			cleaner := NewCleaner(repo, nil)
			cleaner.clean(t.Context())

			_, err = repo.GetByHash(t.Context(), longDead.TokenHash)
			assert.ErrorIs(t, err, apperrors.ErrRefreshTokenInvalid, "row expired beyond retention should be deleted")

			_, err = repo.GetByHash(t.Context(), recentlyExpired.TokenHash)
			assert.NoError(t, err, "rows inside the retention window must survive, they still witness reuse")
		})
	})

	t.Run("run stops on context cancel", func(t *testing.T) {
		cleaner := NewCleaner(&postgres.RefreshTokenRepo{DB: pg.Pool}, nil)

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			cleaner.Run(ctx)
		}()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("cleaner did not stop after context cancel")
		}
	})
}
