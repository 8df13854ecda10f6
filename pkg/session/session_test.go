package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelworks/roster-backend/pkg/config"
	"github.com/hostelworks/roster-backend/pkg/db/models"
	"github.com/hostelworks/roster-backend/pkg/enums"
	pkgerrors "github.com/hostelworks/roster-backend/pkg/errors"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	mgr, err := NewManager(config.SessionConfig{Secret: "test-secret", CookieName: "test_session"})
	require.NoError(t, err)
	return mgr
}

// requestWithCookies builds a follow-up request carrying the cookies the
// previous response set, the way a browser would.
func requestWithCookies(t *testing.T, rec *httptest.ResponseRecorder, target string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestManagerRequiresSecret(t *testing.T) {
	_, err := NewManager(config.SessionConfig{})
	require.Error(t, err)
}

func TestSignInRoundTrip(t *testing.T) {
	mgr := newTestManager(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	user := &models.User{ID: 42, Role: enums.RoleAdmin}
	require.NoError(t, mgr.SignIn(rec, req, user))

	next := requestWithCookies(t, rec, "/")
	identity, ok := mgr.Current(next)
	require.True(t, ok)
	assert.Equal(t, int64(42), identity.UserID)
	assert.Equal(t, enums.RoleAdmin, identity.Role)
}

func TestAnonymousRequestHasNoIdentity(t *testing.T) {
	mgr := newTestManager(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := mgr.Current(req)
	assert.False(t, ok)
}

func TestSignOutDropsIdentity(t *testing.T) {
	mgr := newTestManager(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	require.NoError(t, mgr.SignIn(rec, req, &models.User{ID: 7, Role: enums.RoleStudent}))

	signedIn := requestWithCookies(t, rec, "/logout")
	rec2 := httptest.NewRecorder()
	require.NoError(t, mgr.SignOut(rec2, signedIn))

	after := requestWithCookies(t, rec2, "/")
	_, ok := mgr.Current(after)
	assert.False(t, ok)
}

func TestFlashesArePoppedOnce(t *testing.T) {
	mgr := newTestManager(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/add", nil)
	require.NoError(t, mgr.AddFlash(rec, req, pkgerrors.SeveritySuccess, "Student added successfully"))

	// First page load drains the flash.
	next := requestWithCookies(t, rec, "/")
	rec2 := httptest.NewRecorder()
	flashes := mgr.PopFlashes(rec2, next)
	require.Len(t, flashes, 1)
	assert.Equal(t, string(pkgerrors.SeveritySuccess), flashes[0].Severity)
	assert.Equal(t, "Student added successfully", flashes[0].Message)

	// Second load sees nothing.
	again := requestWithCookies(t, rec2, "/")
	rec3 := httptest.NewRecorder()
	assert.Empty(t, mgr.PopFlashes(rec3, again))
}

func TestBadCookieReadsAsAnonymous(t *testing.T) {
	mgr := newTestManager(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "test_session", Value: "garbage"})

	_, ok := mgr.Current(req)
	assert.False(t, ok)
}
