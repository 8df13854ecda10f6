package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hostelworks/roster-backend/api/middleware"
	"github.com/hostelworks/roster-backend/api/responses"
	"github.com/hostelworks/roster-backend/api/validators"
	"github.com/hostelworks/roster-backend/internal/roster"
	"github.com/hostelworks/roster-backend/internal/users"
	"github.com/hostelworks/roster-backend/pkg/config"
	"github.com/hostelworks/roster-backend/pkg/db/models"
	"github.com/hostelworks/roster-backend/pkg/enums"
	pkgerrors "github.com/hostelworks/roster-backend/pkg/errors"
	"github.com/hostelworks/roster-backend/pkg/logger"
	"github.com/hostelworks/roster-backend/pkg/session"
)

type rosterService interface {
	List(ctx context.Context, scope roster.Scope, keyword string) ([]models.User, error)
	Get(ctx context.Context, id int64, scope roster.Scope) (*models.User, error)
	Create(ctx context.Context, in roster.CreateInput) (*models.User, error)
	Update(ctx context.Context, id int64, in roster.UpdateInput, scope roster.Scope) (*models.User, error)
	SetFeesPaid(ctx context.Context, id int64, scope roster.Scope) error
	Delete(ctx context.Context, id int64, scope roster.Scope) error
}

// RosterSurface binds a set of roster handlers to a scope and the paths the
// browser is sent back to. The open surface works over every row; the admin
// surface only ever sees student rows.
type RosterSurface struct {
	Scope    roster.Scope
	ListPath string
	AddPath  string
}

var (
	OpenRoster  = RosterSurface{Scope: roster.ScopeAll, ListPath: "/", AddPath: "/add"}
	AdminRoster = RosterSurface{Scope: roster.ScopeStudents, ListPath: "/admin", AddPath: "/admin/add"}
)

type addStudentForm struct {
	Name     string  `form:"name" validate:"required"`
	Email    string  `form:"email" validate:"required,email"`
	Username string  `form:"username"`
	Password string  `form:"password"`
	Room     *string `form:"room"`
	Phone    *string `form:"phone" validate:"omitempty,phone10"`
}

type editStudentForm struct {
	Name  *string `form:"name" validate:"omitempty,min=1"`
	Email *string `form:"email" validate:"omitempty,email"`
	Room  *string `form:"room"`
	Phone *string `form:"phone" validate:"omitempty,phone10"`
}

// RosterList renders the roster, optionally filtered by the search keyword.
func RosterList(svc rosterService, sess *session.Manager, logg *logger.Logger, sur RosterSurface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keyword := validators.FormValue(r, "keyword")

		rows, err := svc.List(r.Context(), sur.Scope, keyword)
		if err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, sur.ListPath, err)
			return
		}

		responses.WritePage(w, r, sess, map[string]any{
			"students": users.FromModels(rows),
			"keyword":  keyword,
		})
	}
}

// Home dispatches the root path when the roster is session-gated: anonymous
// visitors go to login, admins to the dashboard, students to their profile.
func Home() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		switch {
		case user == nil:
			responses.Redirect(w, r, "/login")
		case user.Role == enums.RoleAdmin:
			responses.Redirect(w, r, AdminRoster.ListPath)
		default:
			responses.Redirect(w, r, "/profile")
		}
	}
}

// RosterAddForm renders the add form.
func RosterAddForm(sess *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WritePage(w, r, sess, nil)
	}
}

// RosterAdd creates a roster record from the submitted form. A client-chosen
// id is honored only on the open surface; the gated deployment always assigns
// ids itself.
func RosterAdd(svc rosterService, sess *session.Manager, logg *logger.Logger, app config.AppConfig, sur RosterSurface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := validators.ParseForm(r); err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, sur.AddPath, err)
			return
		}

		form := addStudentForm{
			Name:     validators.FormValue(r, "name"),
			Email:    validators.FormValue(r, "email"),
			Username: validators.FormValue(r, "username"),
			Password: r.FormValue("password"),
			Room:     validators.OptionalFormValue(r, "room"),
			Phone:    validators.OptionalFormValue(r, "phone"),
		}
		if err := validators.Struct(form); err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, sur.AddPath, err)
			return
		}
		if form.Username == "" {
			form.Username = form.Email
		}

		var id *int64
		if !app.AuthEnabled {
			if raw := validators.FormValue(r, "id"); raw != "" {
				parsed, err := validators.ParseRequiredID(raw)
				if err != nil {
					responses.RedirectError(r.Context(), logg, sess, w, r, sur.AddPath, err)
					return
				}
				id = &parsed
			}
		}

		_, err := svc.Create(r.Context(), roster.CreateInput{
			ID:       id,
			Name:     form.Name,
			Username: form.Username,
			Email:    form.Email,
			Password: form.Password,
			Room:     form.Room,
			Phone:    form.Phone,
			Role:     enums.RoleStudent,
		})
		if err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, sur.AddPath, err)
			return
		}

		responses.RedirectWithFlash(w, r, sess, sur.ListPath, pkgerrors.SeveritySuccess, "Student added successfully")
	}
}

// RosterEditForm loads the record backing the edit form.
func RosterEditForm(svc rosterService, sess *session.Manager, logg *logger.Logger, sur RosterSurface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseRequiredID(chi.URLParam(r, "id"))
		if err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, sur.ListPath, err)
			return
		}

		row, err := svc.Get(r.Context(), id, sur.Scope)
		if err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, sur.ListPath, err)
			return
		}

		responses.WritePage(w, r, sess, map[string]any{"student": users.FromModel(row)})
	}
}

// RosterEdit applies the submitted fields to an existing record. Empty fields
// are left untouched.
func RosterEdit(svc rosterService, sess *session.Manager, logg *logger.Logger, sur RosterSurface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseRequiredID(chi.URLParam(r, "id"))
		if err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, sur.ListPath, err)
			return
		}

		if err := validators.ParseForm(r); err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, sur.ListPath, err)
			return
		}

		form := editStudentForm{
			Name:  validators.OptionalFormValue(r, "name"),
			Email: validators.OptionalFormValue(r, "email"),
			Room:  validators.OptionalFormValue(r, "room"),
			Phone: validators.OptionalFormValue(r, "phone"),
		}
		if err := validators.Struct(form); err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, sur.ListPath, err)
			return
		}

		_, err = svc.Update(r.Context(), id, roster.UpdateInput{
			Name:  form.Name,
			Email: form.Email,
			Room:  form.Room,
			Phone: form.Phone,
		}, sur.Scope)
		if err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, sur.ListPath, err)
			return
		}

		responses.RedirectWithFlash(w, r, sess, sur.ListPath, pkgerrors.SeveritySuccess, "Student updated successfully")
	}
}

// RosterMarkPaid flips the fees flag. There is no route back.
func RosterMarkPaid(svc rosterService, sess *session.Manager, logg *logger.Logger, sur RosterSurface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseRequiredID(chi.URLParam(r, "id"))
		if err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, sur.ListPath, err)
			return
		}

		if err := svc.SetFeesPaid(r.Context(), id, sur.Scope); err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, sur.ListPath, err)
			return
		}

		responses.RedirectWithFlash(w, r, sess, sur.ListPath, pkgerrors.SeveritySuccess, "Fees marked as paid")
	}
}

// RosterDeleteConfirm loads the record for the confirmation page.
func RosterDeleteConfirm(svc rosterService, sess *session.Manager, logg *logger.Logger, sur RosterSurface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseRequiredID(chi.URLParam(r, "id"))
		if err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, sur.ListPath, err)
			return
		}

		row, err := svc.Get(r.Context(), id, sur.Scope)
		if err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, sur.ListPath, err)
			return
		}

		responses.WritePage(w, r, sess, map[string]any{"student": users.FromModel(row)})
	}
}

// RosterDelete removes the record after the confirmation step.
func RosterDelete(svc rosterService, sess *session.Manager, logg *logger.Logger, sur RosterSurface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseRequiredID(chi.URLParam(r, "id"))
		if err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, sur.ListPath, err)
			return
		}

		if err := svc.Delete(r.Context(), id, sur.Scope); err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, sur.ListPath, err)
			return
		}

		responses.RedirectWithFlash(w, r, sess, sur.ListPath, pkgerrors.SeveritySuccess, "Student deleted")
	}
}
