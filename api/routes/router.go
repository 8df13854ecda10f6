package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hostelworks/roster-backend/api/controllers"
	"github.com/hostelworks/roster-backend/api/middleware"
	"github.com/hostelworks/roster-backend/internal/auth"
	"github.com/hostelworks/roster-backend/internal/reviews"
	"github.com/hostelworks/roster-backend/internal/roster"
	"github.com/hostelworks/roster-backend/pkg/config"
	"github.com/hostelworks/roster-backend/pkg/db"
	"github.com/hostelworks/roster-backend/pkg/enums"
	"github.com/hostelworks/roster-backend/pkg/logger"
	"github.com/hostelworks/roster-backend/pkg/metrics"
	"github.com/hostelworks/roster-backend/pkg/session"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	sessionManager *session.Manager,
	userLookup middleware.UserLookup,
	rosterService *roster.Service,
	authService *auth.Service,
	reviewService *reviews.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		metrics.Middleware(),
		middleware.Session(sessionManager, userLookup, logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Get("/register", controllers.RegisterForm(sessionManager))
	r.Post("/register", controllers.Register(authService, sessionManager, logg))
	r.Get("/login", controllers.LoginForm(sessionManager))
	r.Post("/login", controllers.Login(authService, sessionManager, logg))
	r.Get("/logout", controllers.Logout(sessionManager, logg))
	r.Post("/logout", controllers.Logout(sessionManager, logg))

	// Root: open deployments list the roster directly; gated ones dispatch
	// by role.
	if cfg.App.AuthEnabled {
		r.Get("/", controllers.Home())
	} else {
		r.Get("/", controllers.RosterList(rosterService, sessionManager, logg, controllers.OpenRoster))
	}

	// The shared roster surface. RequireAdmin is a no-op when auth is
	// disabled, which is what makes the open deployment open.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(cfg.App))
		sur := controllers.OpenRoster
		r.Get("/add", controllers.RosterAddForm(sessionManager))
		r.Post("/add", controllers.RosterAdd(rosterService, sessionManager, logg, cfg.App, sur))
		r.Get("/edit/{id}", controllers.RosterEditForm(rosterService, sessionManager, logg, sur))
		r.Post("/edit/{id}", controllers.RosterEdit(rosterService, sessionManager, logg, sur))
		// The list page links fee payment as a plain anchor, so GET works too.
		r.Get("/pay/{id}", controllers.RosterMarkPaid(rosterService, sessionManager, logg, sur))
		r.Post("/pay/{id}", controllers.RosterMarkPaid(rosterService, sessionManager, logg, sur))
		r.Get("/delete/{id}", controllers.RosterDeleteConfirm(rosterService, sessionManager, logg, sur))
		r.Post("/delete/{id}", controllers.RosterDelete(rosterService, sessionManager, logg, sur))
	})

	// The admin dashboard is session-gated no matter how the roster surface
	// is configured.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireRole(enums.RoleAdmin))
		sur := controllers.AdminRoster
		r.Get("/", controllers.RosterList(rosterService, sessionManager, logg, sur))
		r.Get("/add", controllers.RosterAddForm(sessionManager))
		r.Post("/add", controllers.RosterAdd(rosterService, sessionManager, logg, cfg.App, sur))
		r.Get("/edit/{id}", controllers.RosterEditForm(rosterService, sessionManager, logg, sur))
		r.Post("/edit/{id}", controllers.RosterEdit(rosterService, sessionManager, logg, sur))
		r.Post("/mark_paid/{id}", controllers.RosterMarkPaid(rosterService, sessionManager, logg, sur))
		r.Get("/delete/{id}", controllers.RosterDeleteConfirm(rosterService, sessionManager, logg, sur))
		r.Post("/delete/{id}", controllers.RosterDelete(rosterService, sessionManager, logg, sur))
	})

	r.Route("/profile", func(r chi.Router) {
		r.Use(middleware.RequireAuth())
		r.Get("/", controllers.ProfileShow(sessionManager))
		r.Post("/", controllers.ProfileUpdate(rosterService, sessionManager, logg))
	})

	// Read-only member directory and per-member review pages.
	r.Route("/users", func(r chi.Router) {
		r.Get("/", controllers.UsersIndex(rosterService, sessionManager, logg))
		r.Get("/{id}", controllers.UserReviews(rosterService, reviewService, sessionManager, logg))
	})

	r.Route("/reviews", func(r chi.Router) {
		r.Get("/", controllers.ReviewsList(reviewService, sessionManager, logg))
		r.Get("/search", controllers.ReviewsSearch(reviewService, sessionManager, logg))
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth())
			r.Get("/new", controllers.ReviewNewForm(sessionManager))
			r.Post("/new", controllers.ReviewCreate(reviewService, sessionManager, logg))
		})
		r.Get("/{id}", controllers.ReviewShow(reviewService, sessionManager, logg))
	})

	return r
}
