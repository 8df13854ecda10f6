package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hostelworks/roster-backend/internal/reviews"
	"github.com/hostelworks/roster-backend/internal/roster"
	"github.com/hostelworks/roster-backend/pkg/db/models"
	"github.com/hostelworks/roster-backend/pkg/enums"
)

type stubReviewService struct {
	rows []models.Review
	row  *models.Review
	err  error

	lastUserID int64
}

func (s *stubReviewService) Create(ctx context.Context, in reviews.CreateInput) (*models.Review, error) {
	return s.row, s.err
}

func (s *stubReviewService) List(ctx context.Context) ([]models.Review, error) {
	return s.rows, s.err
}

func (s *stubReviewService) Get(ctx context.Context, id int64) (*models.Review, error) {
	return s.row, s.err
}

func (s *stubReviewService) Search(ctx context.Context, query string) ([]models.Review, error) {
	return s.rows, s.err
}

func (s *stubReviewService) ListByUser(ctx context.Context, userID int64) ([]models.Review, error) {
	s.lastUserID = userID
	return s.rows, s.err
}

func TestUsersIndexListsEveryRow(t *testing.T) {
	svc := &stubRosterService{rows: []models.User{
		{ID: 1, Name: "Admin", Username: "admin", Email: "admin@hostel.local", Role: enums.RoleAdmin},
		{ID: 2, Name: "Asha", Username: "asha", Email: "asha@example.com", Role: enums.RoleStudent},
	}}
	handler := UsersIndex(svc, testSessionManager(t), nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/users", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastScope != roster.ScopeAll {
		t.Fatalf("expected directory over all rows, got scope %q", svc.lastScope)
	}

	var envelope struct {
		Data struct {
			Users []struct {
				Name string `json:"name"`
			} `json:"users"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Users) != 2 {
		t.Fatalf("expected both rows, got %+v", envelope.Data.Users)
	}
}

func TestUserReviewsShowsMemberPage(t *testing.T) {
	rosterSvc := &stubRosterService{row: &models.User{ID: 8, Name: "Asha", Username: "asha", Email: "asha@example.com", Role: enums.RoleStudent}}
	reviewSvc := &stubReviewService{rows: []models.Review{
		{ID: 2, Movie: "Ronin", Content: "driving", Rating: 4, UserID: 8},
		{ID: 1, Movie: "Heat", Content: "tense", Rating: 5, UserID: 8},
	}}

	r := chi.NewRouter()
	r.Get("/users/{id}", UserReviews(rosterSvc, reviewSvc, testSessionManager(t), nil))

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/users/8", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if rosterSvc.lastID != 8 {
		t.Fatalf("expected lookup of id 8 got %d", rosterSvc.lastID)
	}
	if reviewSvc.lastUserID != 8 {
		t.Fatalf("expected reviews for user 8 got %d", reviewSvc.lastUserID)
	}

	var envelope struct {
		Data struct {
			User struct {
				Name string `json:"name"`
			} `json:"user"`
			Reviews []struct {
				Movie string `json:"movie"`
			} `json:"reviews"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.User.Name != "Asha" {
		t.Fatalf("unexpected user %+v", envelope.Data.User)
	}
	if len(envelope.Data.Reviews) != 2 || envelope.Data.Reviews[0].Movie != "Ronin" {
		t.Fatalf("unexpected reviews %+v", envelope.Data.Reviews)
	}
}

func TestUserReviewsRejectsBadID(t *testing.T) {
	rosterSvc := &stubRosterService{}
	reviewSvc := &stubReviewService{}

	r := chi.NewRouter()
	r.Get("/users/{id}", UserReviews(rosterSvc, reviewSvc, testSessionManager(t), nil))

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/users/abc", nil))

	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", resp.Code)
	}
	if got := resp.Header().Get("Location"); got != "/users" {
		t.Fatalf("expected redirect to /users got %s", got)
	}
}
