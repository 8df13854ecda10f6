package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hostelworks/roster-backend/internal/auth"
	"github.com/hostelworks/roster-backend/internal/reviews"
	"github.com/hostelworks/roster-backend/internal/roster"
	usersrepo "github.com/hostelworks/roster-backend/internal/users"
	"github.com/hostelworks/roster-backend/pkg/config"
	"github.com/hostelworks/roster-backend/pkg/db"
	"github.com/hostelworks/roster-backend/pkg/enums"
	"github.com/hostelworks/roster-backend/pkg/logger"
	"github.com/hostelworks/roster-backend/pkg/session"
)

func setupRouterTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	users := `
CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL DEFAULT '',
  room TEXT,
  phone TEXT,
  fees_paid INTEGER NOT NULL DEFAULT 0,
  role TEXT NOT NULL DEFAULT 'student',
  created_at DATETIME,
  updated_at DATETIME
);`
	if err := conn.Exec(users).Error; err != nil {
		t.Fatalf("create users table: %v", err)
	}
	reviewsTable := `
CREATE TABLE IF NOT EXISTS reviews (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  movie TEXT NOT NULL,
  content TEXT NOT NULL,
  rating INTEGER NOT NULL,
  user_id INTEGER NOT NULL,
  created_at DATETIME
);`
	if err := conn.Exec(reviewsTable).Error; err != nil {
		t.Fatalf("create reviews table: %v", err)
	}
	if err := conn.Exec(`DELETE FROM users`).Error; err != nil {
		t.Fatalf("truncate users: %v", err)
	}
	if err := conn.Exec(`DELETE FROM reviews`).Error; err != nil {
		t.Fatalf("truncate reviews: %v", err)
	}

	return conn
}

func testRouterConfig(authEnabled bool) *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0", AuthEnabled: authEnabled},
		Password: config.PasswordConfig{
			ArgonMemoryKB:    8 * 1024,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     16,
			ArgonKeyLen:      32,
		},
	}
}

func newTestRouter(t *testing.T, conn *gorm.DB, cfg *config.Config) (http.Handler, *roster.Service) {
	t.Helper()

	client := db.FromGorm(conn)
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})

	sessionManager, err := session.NewManager(config.SessionConfig{Secret: "router-test"})
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}

	rosterService, err := roster.NewService(client, cfg.Password)
	if err != nil {
		t.Fatalf("roster service: %v", err)
	}
	authService, err := auth.NewService(client, cfg.Password, cfg.Admin)
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}
	reviewService, err := reviews.NewService(client)
	if err != nil {
		t.Fatalf("review service: %v", err)
	}

	router := NewRouter(cfg, logg, client, sessionManager, usersrepo.NewRepository(conn), rosterService, authService, reviewService)
	return router, rosterService
}

func TestOpenRosterPayRouteAcceptsGet(t *testing.T) {
	conn := setupRouterTestDB(t)
	router, rosterService := newTestRouter(t, conn, testRouterConfig(false))
	ctx := context.Background()

	created, err := rosterService.Create(ctx, roster.CreateInput{
		Name:     "Meer",
		Username: "meer",
		Email:    "meer@example.com",
		Role:     enums.RoleStudent,
	})
	if err != nil {
		t.Fatalf("seed student: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/pay/"+strconv.FormatInt(created.ID, 10), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 for GET pay link got %d", resp.Code)
	}
	if got := resp.Header().Get("Location"); got != "/" {
		t.Fatalf("expected redirect to / got %s", got)
	}

	row, err := rosterService.Get(ctx, created.ID, roster.ScopeAll)
	if err != nil {
		t.Fatalf("reload student: %v", err)
	}
	if !row.FeesPaid {
		t.Fatalf("expected fees marked paid via GET")
	}
}

func TestGatedPayRouteRedirectsAnonymous(t *testing.T) {
	conn := setupRouterTestDB(t)
	router, _ := newTestRouter(t, conn, testRouterConfig(true))

	req := httptest.NewRequest(http.MethodGet, "/pay/1", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 for anonymous pay got %d", resp.Code)
	}
	if got := resp.Header().Get("Location"); got != "/login" {
		t.Fatalf("expected redirect to /login got %s", got)
	}
}
