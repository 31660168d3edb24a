// Package integration wires the full router over a database transaction so
// tests can drive the real HTTP API end to end and roll everything back.
package integration

import (
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/kanato-tk51/study-manager/internal/handlers"
	"github.com/kanato-tk51/study-manager/internal/handlers/middleware"
	"github.com/kanato-tk51/study-manager/internal/repository/postgres"
	"github.com/kanato-tk51/study-manager/internal/service/auth"
	"github.com/kanato-tk51/study-manager/internal/service/auth/tokenauthority"
	"github.com/kanato-tk51/study-manager/internal/service/planner"
	"github.com/kanato-tk51/study-manager/internal/testutil"
)

type Services struct {
	AuthService    *auth.Service
	PlannerService *planner.Service
}

// RunTx starts the complete router bound to a rolled back transaction
func RunTx(dbpool *pgxpool.Pool, t *testing.T, fn func(srvURL string, s Services)) {
	testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
		userRepo := &postgres.UserRepo{DB: tx}
		refreshRepo := &postgres.RefreshTokenRepo{DB: tx}

		authority, err := tokenauthority.New(tokenauthority.Config{SecretKey: "test-secret"}, refreshRepo, nil)
		require.NoError(t, err, "authority should be created without errors")

		as, err := auth.NewService(auth.Config{}, authority, userRepo)
		require.NoError(t, err, "auth service starting error")

		ps := planner.NewService(
			&postgres.CategoryRepo{DB: tx},
			&postgres.StudyRangeRepo{DB: tx},
			&postgres.DailyNoteRepo{DB: tx},
		)

		router := handlers.NewRouter(
			handlers.NewAuth(as, nil),
			handlers.NewMe(ps, nil),
			middleware.AuthMiddleware(as),
		)

		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(srv.URL, Services{AuthService: as, PlannerService: ps})
	})
}
