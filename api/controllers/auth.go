package controllers

import (
	"context"
	"net/http"

	"github.com/hostelworks/roster-backend/api/responses"
	"github.com/hostelworks/roster-backend/api/validators"
	"github.com/hostelworks/roster-backend/internal/auth"
	"github.com/hostelworks/roster-backend/pkg/db/models"
	"github.com/hostelworks/roster-backend/pkg/enums"
	pkgerrors "github.com/hostelworks/roster-backend/pkg/errors"
	"github.com/hostelworks/roster-backend/pkg/logger"
	"github.com/hostelworks/roster-backend/pkg/session"
)

type authService interface {
	Login(ctx context.Context, identifier, password string) (*models.User, error)
	Register(ctx context.Context, in auth.RegisterInput) (*models.User, error)
}

type registerForm struct {
	Name     string  `form:"name" validate:"required"`
	Username string  `form:"username" validate:"required"`
	Email    string  `form:"email" validate:"required,email"`
	Password string  `form:"password" validate:"required"`
	Room     *string `form:"room"`
	Phone    *string `form:"phone" validate:"omitempty,phone10"`
}

// RegisterForm renders the registration form.
func RegisterForm(sess *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WritePage(w, r, sess, nil)
	}
}

// Register creates a student account and sends the visitor to login.
func Register(svc authService, sess *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := validators.ParseForm(r); err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, "/register", err)
			return
		}

		form := registerForm{
			Name:     validators.FormValue(r, "name"),
			Username: validators.FormValue(r, "username"),
			Email:    validators.FormValue(r, "email"),
			Password: r.FormValue("password"),
			Room:     validators.OptionalFormValue(r, "room"),
			Phone:    validators.OptionalFormValue(r, "phone"),
		}
		if err := validators.Struct(form); err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, "/register", err)
			return
		}

		_, err := svc.Register(r.Context(), auth.RegisterInput{
			Name:     form.Name,
			Username: form.Username,
			Email:    form.Email,
			Password: form.Password,
			Room:     form.Room,
			Phone:    form.Phone,
		})
		if err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, "/register", err)
			return
		}

		responses.RedirectWithFlash(w, r, sess, "/login", pkgerrors.SeveritySuccess, "Account created. Please log in.")
	}
}

// LoginForm renders the login form together with pending flashes.
func LoginForm(sess *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WritePage(w, r, sess, nil)
	}
}

// Login authenticates the submitted credentials and binds the session.
// Admins land on the dashboard, students on their profile.
func Login(svc authService, sess *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := validators.ParseForm(r); err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, "/login", err)
			return
		}

		identifier := validators.FormValue(r, "username")
		if identifier == "" {
			identifier = validators.FormValue(r, "email")
		}
		password := r.FormValue("password")

		user, err := svc.Login(r.Context(), identifier, password)
		if err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, "/login", err)
			return
		}

		if err := sess.SignIn(w, r, user); err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, "/login",
				pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist session"))
			return
		}

		target := "/profile"
		if user.Role == enums.RoleAdmin {
			target = AdminRoster.ListPath
		}
		responses.RedirectWithFlash(w, r, sess, target, pkgerrors.SeveritySuccess, "Logged in successfully")
	}
}

// Logout clears the session unconditionally.
func Logout(sess *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sess.SignOut(w, r); err != nil && logg != nil {
			logg.Warn(r.Context(), "clear session")
		}
		responses.RedirectWithFlash(w, r, sess, "/login", pkgerrors.SeverityInfo, "You have been logged out")
	}
}
