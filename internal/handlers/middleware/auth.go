package middleware

import (
	"context"
	"net/http"

	"github.com/kanato-tk51/study-manager/internal/handlers"
	"github.com/kanato-tk51/study-manager/internal/handlers/render"
	"github.com/kanato-tk51/study-manager/internal/models"
)

type authenticator interface {
	Auth(ctx context.Context, r *http.Request) (models.User, error)
}

// AuthMiddleware resolves the bearer token and puts the user into the
// request context. Every failure is the same opaque 401.
func AuthMiddleware(as authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := as.Auth(r.Context(), r)
			if err != nil {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(handlers.NewContextWithUser(r.Context(), user)))
		})
	}
}
