package middleware

import (
	"context"

	"github.com/hostelworks/roster-backend/pkg/db/models"
)

type contextKey string

const ctxUser contextKey = "current_user"

// UserFromContext returns the resolved session user, nil when anonymous.
func UserFromContext(ctx context.Context) *models.User {
	if ctx == nil {
		return nil
	}
	if u, ok := ctx.Value(ctxUser).(*models.User); ok {
		return u
	}
	return nil
}

// RoleFromContext returns the current user's role, empty when anonymous.
func RoleFromContext(ctx context.Context) string {
	if u := UserFromContext(ctx); u != nil {
		return string(u.Role)
	}
	return ""
}

// WithUser injects the resolved user into the context.
func WithUser(ctx context.Context, user *models.User) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUser, user)
}
