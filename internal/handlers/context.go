package handlers

import (
	"context"

	"github.com/kanato-tk51/study-manager/internal/models"
)

type userCtxKey struct{}

// NewContextWithUser stores the authenticated user for downstream handlers
func NewContextWithUser(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

func UserFromContext(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userCtxKey{}).(models.User)
	return u, ok
}
