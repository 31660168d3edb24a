package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/kanato-tk51/study-manager/internal/db"
	"github.com/kanato-tk51/study-manager/internal/handlers"
	"github.com/kanato-tk51/study-manager/internal/handlers/middleware"
	"github.com/kanato-tk51/study-manager/internal/logger"
	"github.com/kanato-tk51/study-manager/internal/repository/postgres"
	"github.com/kanato-tk51/study-manager/internal/service/auth"
	"github.com/kanato-tk51/study-manager/internal/service/auth/tokenauthority"
	"github.com/kanato-tk51/study-manager/internal/service/planner"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	cleaner *tokenauthority.Cleaner
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	log := logger.NewLogger(c.LogLevel)

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize services
	authority, err := tokenauthority.New(tokenauthority.Config{
		SecretKey:      c.SecretKey,
		AccessTTL:      c.AccessTokenTTL,
		RefreshTTLDays: c.RefreshTokenTTLDays,
	}, storage.Refresh(), log)
	if err != nil {
		return nil, fmt.Errorf("error while creating token authority. Err: %w", err)
	}

	authService, err := auth.NewService(auth.Config{}, authority, storage.User())
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}
	plannerService := planner.NewService(storage.Category(), storage.StudyRange(), storage.Note())

	// Initialize handlers
	authHandler := handlers.NewAuth(authService, log)
	meHandler := handlers.NewMe(plannerService, log)

	mux := handlers.NewRouter(
		authHandler,
		meHandler,
		middleware.AuthMiddleware(authService),
		middleware.LoggerMiddleware(log),
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
		cleaner:    tokenauthority.NewCleaner(storage.Refresh(), log),
	}, nil
}

// Run starts the http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	// Expired token housekeeping runs for the lifetime of the server
	go s.cleaner.Run(srvCtx)

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			slog.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		slog.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close connections gracefully
	slog.Info("Starting server", "addr", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
