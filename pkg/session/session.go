package session

import (
	"encoding/gob"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/hostelworks/roster-backend/pkg/config"
	"github.com/hostelworks/roster-backend/pkg/db/models"
	"github.com/hostelworks/roster-backend/pkg/enums"
	pkgerrors "github.com/hostelworks/roster-backend/pkg/errors"
)

const (
	keyUserID = "user_id"
	keyRole   = "role"
)

// Flash is a one-shot severity-tagged status message shown after a redirect.
type Flash struct {
	Severity string
	Message  string
}

func init() {
	gob.Register(Flash{})
}

// Identity is the authenticated state carried by a session cookie.
type Identity struct {
	UserID int64
	Role   enums.Role
}

// Manager owns the cookie-backed session store. It holds only {userId, role}
// plus pending flashes; the user record itself is always re-resolved against
// the store so a deleted account immediately falls back to anonymous.
type Manager struct {
	store *sessions.CookieStore
	name  string
}

// NewManager builds a cookie session manager from configuration.
func NewManager(cfg config.SessionConfig) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAgeSecs,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	name := cfg.CookieName
	if name == "" {
		name = "hostel_session"
	}
	return &Manager{store: store, name: name}, nil
}

func (m *Manager) session(r *http.Request) *sessions.Session {
	// Get never fails fatally for cookie stores; a bad cookie yields a
	// fresh session, which reads as anonymous.
	sess, _ := m.store.Get(r, m.name)
	return sess
}

// SignIn binds the session to the authenticated user.
func (m *Manager) SignIn(w http.ResponseWriter, r *http.Request, user *models.User) error {
	sess := m.session(r)
	sess.Values[keyUserID] = user.ID
	sess.Values[keyRole] = string(user.Role)
	return sess.Save(r, w)
}

// SignOut drops the identity from the session. The cookie itself survives so
// a flash queued after logout still reaches the next page.
func (m *Manager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess := m.session(r)
	delete(sess.Values, keyUserID)
	delete(sess.Values, keyRole)
	return sess.Save(r, w)
}

// Current returns the identity bound to the request's session, if any.
func (m *Manager) Current(r *http.Request) (Identity, bool) {
	sess := m.session(r)
	userID, ok := sess.Values[keyUserID].(int64)
	if !ok || userID <= 0 {
		return Identity{}, false
	}
	roleRaw, _ := sess.Values[keyRole].(string)
	role, err := enums.ParseRole(roleRaw)
	if err != nil {
		role = enums.RoleStudent
	}
	return Identity{UserID: userID, Role: role}, true
}

// AddFlash queues a one-shot message for the next rendered page.
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, severity pkgerrors.Severity, message string) error {
	sess := m.session(r)
	sess.AddFlash(Flash{Severity: string(severity), Message: message})
	return sess.Save(r, w)
}

// PopFlashes drains and returns all pending flashes.
func (m *Manager) PopFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	sess := m.session(r)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	// Flashes mutates the session; persist the drain.
	_ = sess.Save(r, w)

	flashes := make([]Flash, 0, len(raw))
	for _, entry := range raw {
		if f, ok := entry.(Flash); ok {
			flashes = append(flashes, f)
		}
	}
	return flashes
}
