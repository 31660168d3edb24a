package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanato-tk51/study-manager/internal/apperrors"
	"github.com/kanato-tk51/study-manager/internal/models"
	"github.com/kanato-tk51/study-manager/internal/testutil"
)

func Test_RefreshTokenRepo(t *testing.T) {
	t.Parallel() // It's ok to run in parallel with other tests, but not with subtests

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	newToken := func(userID uuid.UUID) models.RefreshToken {
		return models.RefreshToken{
			ID:        uuid.New(),
			UserID:    userID,
			TokenHash: "hash-" + uuid.NewString(),
			CreatedAt: mustParseTime("2024-01-01 19:00:01Z"),
			ExpiresAt: mustParseTime("2200-01-01 03:00:02Z"),
			RevokedAt: nil,
		}
	}

	t.Run("save token ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			user := createTestUser(t, tx, "save@example.com")
			repo := RefreshTokenRepo{DB: tx}
			token := newToken(user.ID)

			got, err := repo.Save(t.Context(), token)

			require.NoError(t, err)
			require.Equal(t, token.ID, got.ID)
			require.Equal(t, token.UserID, got.UserID)
			require.Equal(t, token.TokenHash, got.TokenHash)
			require.WithinDuration(t, token.CreatedAt, got.CreatedAt, time.Microsecond)
			require.WithinDuration(t, token.ExpiresAt, got.ExpiresAt, time.Microsecond)
			require.Nil(t, got.RevokedAt, "RevokedAt should be nil cause original token has RevokedAt as nil")
		})
	})

	t.Run("get token by hash ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			user := createTestUser(t, tx, "get@example.com")
			repo := RefreshTokenRepo{DB: tx}
			token := newToken(user.ID)
			_, err := repo.Save(t.Context(), token)
			require.NoError(t, err)

			got, err := repo.GetByHash(t.Context(), token.TokenHash)

			require.NoError(t, err)
			require.Equal(t, token.TokenHash, got.TokenHash)
			require.Equal(t, token.UserID, got.UserID)
			require.WithinDuration(t, token.CreatedAt, got.CreatedAt, 0)
			require.WithinDuration(t, token.ExpiresAt, got.ExpiresAt, 0)
			require.Nil(t, got.RevokedAt)
		})
	})

	t.Run("get not existed token", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}

			_, err := repo.GetByHash(t.Context(), "no-such-hash")

			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrRefreshTokenInvalid)
		})
	})

	t.Run("get returns revoked rows too", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			user := createTestUser(t, tx, "get-revoked@example.com")
			repo := RefreshTokenRepo{DB: tx}
			token := newToken(user.ID)
			_, err := repo.Save(t.Context(), token)
			require.NoError(t, err)

			revokedAt := mustParseTime("2024-02-01 10:00:00Z")
			ok, err := repo.Revoke(t.Context(), token.TokenHash, revokedAt)
			require.NoError(t, err)
			require.True(t, ok)

			got, err := repo.GetByHash(t.Context(), token.TokenHash)

			require.NoError(t, err, "revoked token must still be readable, the caller decides what revoked means")
			require.NotNil(t, got.RevokedAt)
			assert.WithinDuration(t, revokedAt, *got.RevokedAt, time.Microsecond)
		})
	})

	t.Run("revoke transitions exactly once", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			user := createTestUser(t, tx, "revoke@example.com")
			repo := RefreshTokenRepo{DB: tx}
			token := newToken(user.ID)
			_, err := repo.Save(t.Context(), token)
			require.NoError(t, err)

			firstAt := mustParseTime("2024-02-01 10:00:00Z")
			ok, err := repo.Revoke(t.Context(), token.TokenHash, firstAt)
			require.NoError(t, err)
			require.True(t, ok, "first revoke should report the transition")

			secondAt := mustParseTime("2024-02-01 11:00:00Z")
			ok, err = repo.Revoke(t.Context(), token.TokenHash, secondAt)
			require.NoError(t, err, "revoking an already revoked token is not an error")
			require.False(t, ok, "second revoke must lose the arbitration")

			got, err := repo.GetByHash(t.Context(), token.TokenHash)
			require.NoError(t, err)
			require.NotNil(t, got.RevokedAt)
			assert.WithinDuration(t, firstAt, *got.RevokedAt, time.Microsecond, "losing revoke must not touch revoked_at")
		})
	})

	t.Run("revoke not existed token", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}

			ok, err := repo.Revoke(t.Context(), "no-such-hash", mustParseTime("2024-02-01 10:00:00Z"))

			require.NoError(t, err)
			require.False(t, ok)
		})
	})

	t.Run("revoke all for user", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			user := createTestUser(t, tx, "revoke-all@example.com")
			other := createTestUser(t, tx, "untouched@example.com")
			repo := RefreshTokenRepo{DB: tx}

			first := newToken(user.ID)
			second := newToken(user.ID)
			foreign := newToken(other.ID)
			for _, token := range []models.RefreshToken{first, second, foreign} {
				_, err := repo.Save(t.Context(), token)
				require.NoError(t, err)
			}
			at := mustParseTime("2024-02-01 10:00:00Z")
			ok, err := repo.Revoke(t.Context(), first.TokenHash, at)
			require.NoError(t, err)
			require.True(t, ok)

			revoked, err := repo.RevokeAllForUser(t.Context(), user.ID, at)

			require.NoError(t, err)
			assert.Equal(t, int64(1), revoked, "only the still active token of the user should transition")

			got, err := repo.GetByHash(t.Context(), second.TokenHash)
			require.NoError(t, err)
			assert.NotNil(t, got.RevokedAt)

			got, err = repo.GetByHash(t.Context(), foreign.TokenHash)
			require.NoError(t, err)
			assert.Nil(t, got.RevokedAt, "tokens of other users must stay active")
		})
	})

	t.Run("delete expired before cutoff", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			user := createTestUser(t, tx, "cleanup@example.com")
			repo := RefreshTokenRepo{DB: tx}

			expired := newToken(user.ID)
			expired.ExpiresAt = mustParseTime("2024-01-10 00:00:00Z")
			alive := newToken(user.ID)
			for _, token := range []models.RefreshToken{expired, alive} {
				_, err := repo.Save(t.Context(), token)
				require.NoError(t, err)
			}

			deleted, err := repo.DeleteExpiredBefore(t.Context(), mustParseTime("2024-06-01 00:00:00Z"))

			require.NoError(t, err)
			assert.Equal(t, int64(1), deleted)

			_, err = repo.GetByHash(t.Context(), expired.TokenHash)
			assert.ErrorIs(t, err, apperrors.ErrRefreshTokenInvalid, "expired row must be gone")

			_, err = repo.GetByHash(t.Context(), alive.TokenHash)
			assert.NoError(t, err)
		})
	})
}
