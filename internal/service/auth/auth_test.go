package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanato-tk51/study-manager/internal/apperrors"
	"github.com/kanato-tk51/study-manager/internal/repository/postgres"
	"github.com/kanato-tk51/study-manager/internal/service/auth/tokenauthority"
	"github.com/kanato-tk51/study-manager/internal/testutil"
)

func Test_AuthService(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Begin new db transaction and create the auth service over it
	// Rollback transaction when test stops
	withTx := func(dbpool *pgxpool.Pool, t *testing.T, fn func(s *Service)) {
		testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
			userRepo := &postgres.UserRepo{DB: tx}
			refreshRepo := &postgres.RefreshTokenRepo{DB: tx}

			authority, err := tokenauthority.New(
				tokenauthority.Config{SecretKey: "test-secret-key"},
				refreshRepo,
				nil,
			)
			require.NoError(t, err, "authority should be created without errors")

			s, err := NewService(Config{}, authority, userRepo)
			require.NoError(t, err, "auth service couldn't be started")

			fn(s)
		})
	}

	t.Run("new service requires dependencies", func(t *testing.T) {
		_, err := NewService(Config{}, nil, nil)
		require.Error(t, err, "nil authority or user repo must be rejected")
	})

	t.Run("Register", func(t *testing.T) {
		t.Run("new user ok", func(t *testing.T) {
			withTx(pg.Pool, t, func(s *Service) {
				name := "Student"
				user, pair, err := s.Register(t.Context(), "student@example.com", "pwd", &name)

				require.NoError(t, err, "registering new user should be ok")
				require.Equal(t, "student@example.com", user.Email)
				require.NotEqual(t, "pwd", user.HashedPassword, "password must be stored hashed")
				require.NotEmpty(t, pair.Access.Value, "access token should not be empty")
				require.NotEmpty(t, pair.Refresh.Value, "refresh token should not be empty")
			})
		})

		t.Run("fail if user exists", func(t *testing.T) {
			withTx(pg.Pool, t, func(s *Service) {
				_, _, err := s.Register(t.Context(), "student@example.com", "pwd", nil)
				require.NoError(t, err, "no error should happen if user not exists")

				_, _, err = s.Register(t.Context(), "student@example.com", "other-pwd", nil)

				require.Error(t, err)
				require.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
			})
		})
	})

	t.Run("Login", func(t *testing.T) {
		t.Run("existing user ok", func(t *testing.T) {
			withTx(pg.Pool, t, func(s *Service) {
				_, _, err := s.Register(t.Context(), "student@example.com", "pwd", nil)
				require.NoError(t, err)

				user, pair, err := s.Login(t.Context(), "student@example.com", "pwd")

				require.NoError(t, err)
				require.Equal(t, "student@example.com", user.Email)
				require.NotEmpty(t, pair.Access.Value, "access token should not be empty")
				require.NotEmpty(t, pair.Refresh.Value, "refresh token should not be empty")
			})
		})

		tests := []struct {
			name        string
			email       string
			password    string
			expectedErr error
		}{
			{
				name:        "login fail if wrong password",
				email:       "student@example.com",
				password:    "wrong",
				expectedErr: apperrors.ErrUserNotFound,
			},
			{
				name:        "login fail if user not exists",
				email:       "nobody@example.com",
				password:    "password",
				expectedErr: apperrors.ErrUserNotFound,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				withTx(pg.Pool, t, func(s *Service) {
					_, _, err := s.Register(t.Context(), "student@example.com", "pwd", nil)
					require.NoError(t, err)

					_, _, err = s.Login(t.Context(), tt.email, tt.password)

					require.Error(t, err)
					require.ErrorIs(t, err, tt.expectedErr, "wrong password and unknown user must look the same")
				})
			})
		}
	})

	t.Run("Refresh", func(t *testing.T) {
		t.Run("refresh once ok", func(t *testing.T) {
			withTx(pg.Pool, t, func(s *Service) {
				_, initialPair, err := s.Register(t.Context(), "student@example.com", "pwd", nil)
				require.NoError(t, err)

				newPair, err := s.Refresh(t.Context(), initialPair.Refresh.Value)

				require.NoError(t, err)
				require.NotEqual(t, initialPair.Access.Value, newPair.Access.Value, "new access token should be different")
				require.NotEqual(t, initialPair.Refresh.Value, newPair.Refresh.Value, "new refresh token should be different")
			})
		})

		t.Run("fail if refreshed twice", func(t *testing.T) {
			withTx(pg.Pool, t, func(s *Service) {
				_, initialPair, err := s.Register(t.Context(), "student@example.com", "pwd", nil)
				require.NoError(t, err)

				_, err = s.Refresh(t.Context(), initialPair.Refresh.Value)
				require.NoError(t, err)

				_, err = s.Refresh(t.Context(), initialPair.Refresh.Value)
				require.Error(t, err)
				require.ErrorIs(t, err, apperrors.ErrRefreshTokenReuseDetected, "replaying a rotated token should read as reuse")
			})
		})

		t.Run("fail if unknown token", func(t *testing.T) {
			withTx(pg.Pool, t, func(s *Service) {
				_, err := s.Refresh(t.Context(), "never-issued")

				require.ErrorIs(t, err, apperrors.ErrRefreshTokenInvalid)
			})
		})
	})

	t.Run("Logout", func(t *testing.T) {
		t.Run("logout kills the session", func(t *testing.T) {
			withTx(pg.Pool, t, func(s *Service) {
				_, pair, err := s.Register(t.Context(), "student@example.com", "pwd", nil)
				require.NoError(t, err)

				err = s.Logout(t.Context(), pair.Refresh.Value)
				require.NoError(t, err)

				_, err = s.Refresh(t.Context(), pair.Refresh.Value)
				require.Error(t, err, "refresh token must be dead after logout")
			})
		})

		t.Run("logout with stale token ok", func(t *testing.T) {
			withTx(pg.Pool, t, func(s *Service) {
				err := s.Logout(t.Context(), "never-issued")
				require.NoError(t, err, "logout should never fail on a stale token")
			})
		})
	})

	t.Run("LogoutAll", func(t *testing.T) {
		withTx(pg.Pool, t, func(s *Service) {
			user, first, err := s.Register(t.Context(), "student@example.com", "pwd", nil)
			require.NoError(t, err)
			_, second, err := s.Login(t.Context(), "student@example.com", "pwd")
			require.NoError(t, err)

			err = s.LogoutAll(t.Context(), user.ID)
			require.NoError(t, err)

			_, err = s.Refresh(t.Context(), first.Refresh.Value)
			require.Error(t, err)
			_, err = s.Refresh(t.Context(), second.Refresh.Value)
			require.Error(t, err)
		})
	})

	t.Run("Auth", func(t *testing.T) {
		t.Run("valid bearer token", func(t *testing.T) {
			withTx(pg.Pool, t, func(s *Service) {
				registered, pair, err := s.Register(t.Context(), "student@example.com", "pwd", nil)
				require.NoError(t, err)

				r := httptest.NewRequest("GET", "/me", nil)
				r.Header.Set("Authorization", "Bearer "+pair.Access.Value)

				user, err := s.Auth(t.Context(), r)

				require.NoError(t, err)
				assert.Equal(t, registered.ID, user.ID)
			})
		})

		t.Run("missing header", func(t *testing.T) {
			withTx(pg.Pool, t, func(s *Service) {
				r := httptest.NewRequest("GET", "/me", nil)

				_, err := s.Auth(t.Context(), r)

				require.ErrorIs(t, err, apperrors.ErrUserNotFound)
			})
		})

		t.Run("wrong scheme", func(t *testing.T) {
			withTx(pg.Pool, t, func(s *Service) {
				r := httptest.NewRequest("GET", "/me", nil)
				r.Header.Set("Authorization", "Basic dXNlcjpwd2Q=")

				_, err := s.Auth(t.Context(), r)

				require.Error(t, err)
			})
		})

		t.Run("garbage token", func(t *testing.T) {
			withTx(pg.Pool, t, func(s *Service) {
				r := httptest.NewRequest("GET", "/me", nil)
				r.Header.Set("Authorization", "Bearer not-a-jwt")

				_, err := s.Auth(t.Context(), r)

				require.Error(t, err)
			})
		})
	})
}
