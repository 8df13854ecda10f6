package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hostelworks/roster-backend/api/middleware"
	"github.com/hostelworks/roster-backend/api/responses"
	"github.com/hostelworks/roster-backend/api/validators"
	"github.com/hostelworks/roster-backend/internal/reviews"
	"github.com/hostelworks/roster-backend/pkg/db/models"
	pkgerrors "github.com/hostelworks/roster-backend/pkg/errors"
	"github.com/hostelworks/roster-backend/pkg/logger"
	"github.com/hostelworks/roster-backend/pkg/session"
)

type reviewService interface {
	Create(ctx context.Context, in reviews.CreateInput) (*models.Review, error)
	List(ctx context.Context) ([]models.Review, error)
	Get(ctx context.Context, id int64) (*models.Review, error)
	Search(ctx context.Context, query string) ([]models.Review, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Review, error)
}

type reviewForm struct {
	Movie   string `form:"movie" validate:"required"`
	Content string `form:"content" validate:"required"`
}

// ReviewsList renders every review, newest first.
func ReviewsList(svc reviewService, sess *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, "/reviews", err)
			return
		}
		responses.WritePage(w, r, sess, map[string]any{"reviews": reviews.FromModels(rows)})
	}
}

// ReviewsSearch filters reviews by movie title.
func ReviewsSearch(svc reviewService, sess *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := validators.FormValue(r, "q")

		rows, err := svc.Search(r.Context(), query)
		if err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, "/reviews", err)
			return
		}

		responses.WritePage(w, r, sess, map[string]any{
			"reviews": reviews.FromModels(rows),
			"q":       query,
		})
	}
}

// ReviewShow renders a single review.
func ReviewShow(svc reviewService, sess *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseRequiredID(chi.URLParam(r, "id"))
		if err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, "/reviews", err)
			return
		}

		row, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, "/reviews", err)
			return
		}

		responses.WritePage(w, r, sess, map[string]any{"review": reviews.FromModel(row)})
	}
}

// ReviewNewForm renders the posting form.
func ReviewNewForm(sess *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WritePage(w, r, sess, nil)
	}
}

// ReviewCreate appends a review owned by the signed-in user.
func ReviewCreate(svc reviewService, sess *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			responses.Redirect(w, r, "/login")
			return
		}

		if err := validators.ParseForm(r); err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, "/reviews/new", err)
			return
		}

		form := reviewForm{
			Movie:   validators.FormValue(r, "movie"),
			Content: validators.FormValue(r, "content"),
		}
		if err := validators.Struct(form); err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, "/reviews/new", err)
			return
		}

		rating, err := strconv.Atoi(validators.FormValue(r, "rating"))
		if err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, "/reviews/new",
				pkgerrors.New(pkgerrors.CodeValidation, "rating must be a number"))
			return
		}

		if _, err := svc.Create(r.Context(), reviews.CreateInput{
			Movie:   form.Movie,
			Content: form.Content,
			Rating:  rating,
			UserID:  user.ID,
		}); err != nil {
			responses.RedirectError(r.Context(), logg, sess, w, r, "/reviews/new", err)
			return
		}

		responses.RedirectWithFlash(w, r, sess, "/reviews", pkgerrors.SeveritySuccess, "Review posted")
	}
}
