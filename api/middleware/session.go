package middleware

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/hostelworks/roster-backend/pkg/db/models"
	"github.com/hostelworks/roster-backend/pkg/logger"
	"github.com/hostelworks/roster-backend/pkg/session"
)

// UserLookup resolves a session user id to a live account.
type UserLookup interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// Session resolves the request's cookie session into a current user. A
// session referencing a deleted account is cleared and the request proceeds
// as anonymous.
func Session(mgr *session.Manager, users UserLookup, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := mgr.Current(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.FindByID(r.Context(), identity.UserID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					_ = mgr.SignOut(w, r)
					next.ServeHTTP(w, r)
					return
				}
				if logg != nil {
					logg.Error(r.Context(), "resolve session user", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithUser(r.Context(), user)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    user.ID,
					"actor_role": string(user.Role),
				})
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
