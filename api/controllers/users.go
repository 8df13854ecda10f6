package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hostelworks/roster-backend/api/responses"
	"github.com/hostelworks/roster-backend/api/validators"
	"github.com/hostelworks/roster-backend/internal/reviews"
	"github.com/hostelworks/roster-backend/internal/roster"
	"github.com/hostelworks/roster-backend/internal/users"
	"github.com/hostelworks/roster-backend/pkg/logger"
	"github.com/hostelworks/roster-backend/pkg/session"
)

// UsersIndex renders the member directory.
func UsersIndex(svc rosterService, sess *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context(), roster.ScopeAll, "")
		if err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, "/", err)
			return
		}

		responses.WritePage(w, r, sess, map[string]any{"users": users.FromModels(rows)})
	}
}

// UserReviews renders one member's public page together with the reviews
// they posted, newest first.
func UserReviews(rosterSvc rosterService, reviewSvc reviewService, sess *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseRequiredID(chi.URLParam(r, "id"))
		if err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, "/users", err)
			return
		}

		row, err := rosterSvc.Get(r.Context(), id, roster.ScopeAll)
		if err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, "/users", err)
			return
		}

		posted, err := reviewSvc.ListByUser(r.Context(), row.ID)
		if err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, "/users", err)
			return
		}

		responses.WritePage(w, r, sess, map[string]any{
			"user":    users.FromModel(row),
			"reviews": reviews.FromModels(posted),
		})
	}
}
