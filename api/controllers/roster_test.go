package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hostelworks/roster-backend/api/middleware"
	"github.com/hostelworks/roster-backend/internal/roster"
	"github.com/hostelworks/roster-backend/pkg/config"
	"github.com/hostelworks/roster-backend/pkg/db/models"
	"github.com/hostelworks/roster-backend/pkg/enums"
	pkgerrors "github.com/hostelworks/roster-backend/pkg/errors"
	"github.com/hostelworks/roster-backend/pkg/session"
)

type stubRosterService struct {
	rows []models.User
	row  *models.User
	err  error

	lastCreate  *roster.CreateInput
	lastUpdate  *roster.UpdateInput
	lastID      int64
	lastScope   roster.Scope
	lastKeyword string
}

func (s *stubRosterService) List(ctx context.Context, scope roster.Scope, keyword string) ([]models.User, error) {
	s.lastScope = scope
	s.lastKeyword = keyword
	return s.rows, s.err
}

func (s *stubRosterService) Get(ctx context.Context, id int64, scope roster.Scope) (*models.User, error) {
	s.lastID = id
	s.lastScope = scope
	return s.row, s.err
}

func (s *stubRosterService) Create(ctx context.Context, in roster.CreateInput) (*models.User, error) {
	s.lastCreate = &in
	if s.err != nil {
		return nil, s.err
	}
	return &models.User{ID: 1, Name: in.Name}, nil
}

func (s *stubRosterService) Update(ctx context.Context, id int64, in roster.UpdateInput, scope roster.Scope) (*models.User, error) {
	s.lastID = id
	s.lastUpdate = &in
	s.lastScope = scope
	return s.row, s.err
}

func (s *stubRosterService) SetFeesPaid(ctx context.Context, id int64, scope roster.Scope) error {
	s.lastID = id
	s.lastScope = scope
	return s.err
}

func (s *stubRosterService) Delete(ctx context.Context, id int64, scope roster.Scope) error {
	s.lastID = id
	s.lastScope = scope
	return s.err
}

func testSessionManager(t *testing.T) *session.Manager {
	t.Helper()
	mgr, err := session.NewManager(config.SessionConfig{Secret: "controller-test"})
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	return mgr
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestRosterListRendersRows(t *testing.T) {
	room := "B-2"
	svc := &stubRosterService{rows: []models.User{
		{ID: 5, Name: "Asha", Username: "asha", Email: "asha@example.com", Room: &room, Role: enums.RoleStudent},
	}}
	handler := RosterList(svc, testSessionManager(t), nil, OpenRoster)

	req := httptest.NewRequest(http.MethodGet, "/?keyword=Asha", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			Students []struct {
				ID   int64  `json:"id"`
				Name string `json:"name"`
			} `json:"students"`
			Keyword string `json:"keyword"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Students) != 1 || envelope.Data.Students[0].Name != "Asha" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
	if svc.lastKeyword != "Asha" {
		t.Fatalf("expected keyword passed to service, got %q", svc.lastKeyword)
	}
	if envelope.Data.Keyword != "Asha" {
		t.Fatalf("expected keyword echoed, got %q", envelope.Data.Keyword)
	}
}

func TestRosterAddSuccessRedirectsToList(t *testing.T) {
	svc := &stubRosterService{}
	handler := RosterAdd(svc, testSessionManager(t), nil, config.AppConfig{AuthEnabled: true}, OpenRoster)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, postForm("/add", url.Values{
		"name":  {"Asha Verma"},
		"email": {"asha@example.com"},
		"phone": {"9876543210"},
	}))

	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", resp.Code)
	}
	if got := resp.Header().Get("Location"); got != "/" {
		t.Fatalf("expected redirect to / got %s", got)
	}
	if svc.lastCreate == nil {
		t.Fatalf("expected create to be called")
	}
	if svc.lastCreate.Username != "asha@example.com" {
		t.Fatalf("expected username to default to email, got %q", svc.lastCreate.Username)
	}
	if svc.lastCreate.Role != enums.RoleStudent {
		t.Fatalf("expected student role, got %s", svc.lastCreate.Role)
	}
}

func TestRosterAddClientIDOnlyWhenOpen(t *testing.T) {
	form := url.Values{
		"id":    {"4200"},
		"name":  {"Ravi"},
		"email": {"ravi@example.com"},
	}

	open := &stubRosterService{}
	RosterAdd(open, testSessionManager(t), nil, config.AppConfig{AuthEnabled: false}, OpenRoster).
		ServeHTTP(httptest.NewRecorder(), postForm("/add", form))
	if open.lastCreate == nil || open.lastCreate.ID == nil || *open.lastCreate.ID != 4200 {
		t.Fatalf("expected client id honored on open surface, got %+v", open.lastCreate)
	}

	gated := &stubRosterService{}
	RosterAdd(gated, testSessionManager(t), nil, config.AppConfig{AuthEnabled: true}, OpenRoster).
		ServeHTTP(httptest.NewRecorder(), postForm("/add", form))
	if gated.lastCreate == nil || gated.lastCreate.ID != nil {
		t.Fatalf("expected client id ignored on gated surface, got %+v", gated.lastCreate)
	}
}

func TestRosterAddValidationFailureRedirectsBack(t *testing.T) {
	svc := &stubRosterService{}
	handler := RosterAdd(svc, testSessionManager(t), nil, config.AppConfig{AuthEnabled: true}, OpenRoster)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, postForm("/add", url.Values{
		"email": {"not-an-email"},
		"phone": {"12345"},
	}))

	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", resp.Code)
	}
	if got := resp.Header().Get("Location"); got != "/add" {
		t.Fatalf("expected redirect back to form got %s", got)
	}
	if svc.lastCreate != nil {
		t.Fatalf("expected store untouched on validation failure")
	}
}

func TestRosterAddConflictRedirectsBack(t *testing.T) {
	svc := &stubRosterService{err: pkgerrors.New(pkgerrors.CodeConflict, "username or email already exists")}
	handler := RosterAdd(svc, testSessionManager(t), nil, config.AppConfig{AuthEnabled: true}, AdminRoster)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, postForm("/admin/add", url.Values{
		"name":  {"Dupe"},
		"email": {"dupe@example.com"},
	}))

	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", resp.Code)
	}
	if got := resp.Header().Get("Location"); got != "/admin/add" {
		t.Fatalf("expected redirect to /admin/add got %s", got)
	}
}

func TestRosterEditParsesPathID(t *testing.T) {
	svc := &stubRosterService{row: &models.User{ID: 7}}
	r := chi.NewRouter()
	r.Post("/edit/{id}", RosterEdit(svc, testSessionManager(t), nil, OpenRoster))

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, postForm("/edit/7", url.Values{"name": {"Renamed"}}))

	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", resp.Code)
	}
	if svc.lastID != 7 {
		t.Fatalf("expected id 7 got %d", svc.lastID)
	}
	if svc.lastUpdate == nil || svc.lastUpdate.Name == nil || *svc.lastUpdate.Name != "Renamed" {
		t.Fatalf("expected name update, got %+v", svc.lastUpdate)
	}
	if svc.lastUpdate.Room != nil {
		t.Fatalf("expected absent fields to stay nil")
	}
}

func TestRosterEditRejectsBadID(t *testing.T) {
	svc := &stubRosterService{}
	r := chi.NewRouter()
	r.Post("/edit/{id}", RosterEdit(svc, testSessionManager(t), nil, OpenRoster))

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, postForm("/edit/abc", url.Values{"name": {"X"}}))

	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", resp.Code)
	}
	if got := resp.Header().Get("Location"); got != "/" {
		t.Fatalf("expected redirect to list got %s", got)
	}
	if svc.lastUpdate != nil {
		t.Fatalf("expected store untouched for bad id")
	}
}

func TestRosterMarkPaidMissingStudent(t *testing.T) {
	svc := &stubRosterService{err: pkgerrors.New(pkgerrors.CodeNotFound, "student not found")}
	r := chi.NewRouter()
	r.Post("/admin/mark_paid/{id}", RosterMarkPaid(svc, testSessionManager(t), nil, AdminRoster))

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, postForm("/admin/mark_paid/99", url.Values{}))

	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", resp.Code)
	}
	if got := resp.Header().Get("Location"); got != "/admin" {
		t.Fatalf("expected redirect to /admin got %s", got)
	}
}

func TestRosterDeleteRedirects(t *testing.T) {
	svc := &stubRosterService{}
	r := chi.NewRouter()
	r.Post("/delete/{id}", RosterDelete(svc, testSessionManager(t), nil, OpenRoster))

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, postForm("/delete/3", url.Values{}))

	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", resp.Code)
	}
	if svc.lastID != 3 {
		t.Fatalf("expected id 3 got %d", svc.lastID)
	}
}

func TestHomeDispatchesByRole(t *testing.T) {
	handler := Home()

	cases := []struct {
		name string
		user *models.User
		want string
	}{
		{"anonymous", nil, "/login"},
		{"admin", &models.User{ID: 1, Role: enums.RoleAdmin}, "/admin"},
		{"student", &models.User{ID: 2, Role: enums.RoleStudent}, "/profile"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.user != nil {
				req = req.WithContext(middleware.WithUser(req.Context(), tc.user))
			}
			resp := httptest.NewRecorder()
			handler.ServeHTTP(resp, req)

			if resp.Code != http.StatusSeeOther {
				t.Fatalf("expected 303 got %d", resp.Code)
			}
			if got := resp.Header().Get("Location"); got != tc.want {
				t.Fatalf("expected %s got %s", tc.want, got)
			}
		})
	}
}
