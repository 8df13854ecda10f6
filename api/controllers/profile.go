package controllers

import (
	"net/http"

	"github.com/hostelworks/roster-backend/api/middleware"
	"github.com/hostelworks/roster-backend/api/responses"
	"github.com/hostelworks/roster-backend/api/validators"
	"github.com/hostelworks/roster-backend/internal/roster"
	"github.com/hostelworks/roster-backend/internal/users"
	"github.com/hostelworks/roster-backend/pkg/enums"
	pkgerrors "github.com/hostelworks/roster-backend/pkg/errors"
	"github.com/hostelworks/roster-backend/pkg/logger"
	"github.com/hostelworks/roster-backend/pkg/session"
)

type profileForm struct {
	Name  *string `form:"name" validate:"omitempty,min=1"`
	Phone *string `form:"phone" validate:"omitempty,phone10"`
	Room  *string `form:"room"`
}

// ProfileShow renders the signed-in user's own record.
func ProfileShow(sess *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			responses.Redirect(w, r, "/login")
			return
		}
		responses.WritePage(w, r, sess, map[string]any{"profile": users.FromModel(user)})
	}
}

// ProfileUpdate lets a user edit their own name and phone. Room moves are an
// admin decision; a room value submitted by a student is dropped.
func ProfileUpdate(svc rosterService, sess *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			responses.Redirect(w, r, "/login")
			return
		}

		if err := validators.ParseForm(r); err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, "/profile", err)
			return
		}

		form := profileForm{
			Name:  validators.OptionalFormValue(r, "name"),
			Phone: validators.OptionalFormValue(r, "phone"),
			Room:  validators.OptionalFormValue(r, "room"),
		}
		if err := validators.Struct(form); err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, "/profile", err)
			return
		}

		in := roster.UpdateInput{Name: form.Name, Phone: form.Phone}
		if user.Role == enums.RoleAdmin {
			in.Room = form.Room
		}

		if _, err := svc.Update(r.Context(), user.ID, in, roster.ScopeAll); err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, "/profile", err)
			return
		}

		responses.RedirectWithFlash(w, r, sess, "/profile", pkgerrors.SeveritySuccess, "Profile updated")
	}
}
