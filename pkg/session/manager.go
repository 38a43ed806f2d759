package session

import (
	"net/http"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
)

// DefaultCookieName names the cookie carrying the session id.
const DefaultCookieName = "simpleform_session"

// Manager keeps sessions in memory and binds them to requests through a
// cookie. It is safe for concurrent use.
type Manager struct {
	mu         sync.RWMutex
	sessions   map[string]*Session
	cookieName string
	secure     bool
	options    []Option
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithCookieName overrides the session cookie name.
func WithCookieName(name string) ManagerOption {
	return func(m *Manager) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			m.cookieName = trimmed
		}
	}
}

// WithSecureCookie marks the session cookie Secure.
func WithSecureCookie(secure bool) ManagerOption {
	return func(m *Manager) {
		m.secure = secure
	}
}

// WithSessionOptions applies options to every session the manager creates.
func WithSessionOptions(options ...Option) ManagerOption {
	return func(m *Manager) {
		m.options = append(m.options, options...)
	}
}

// NewManager creates an empty manager.
func NewManager(options ...ManagerOption) *Manager {
	m := &Manager{
		sessions:   make(map[string]*Session),
		cookieName: DefaultCookieName,
	}
	for _, opt := range options {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Create starts a new session with a ULID identifier.
func (m *Manager) Create() *Session {
	s := New(ulid.Make().String(), m.options...)

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	return s
}

// Get looks up a session by id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Destroy forgets a session.
func (m *Manager) Destroy(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// FromRequest returns the session named by the request cookie, creating one
// (and setting the cookie on w) when the cookie is missing or unknown.
func (m *Manager) FromRequest(w http.ResponseWriter, r *http.Request) *Session {
	if cookie, err := r.Cookie(m.cookieName); err == nil {
		if s, ok := m.Get(cookie.Value); ok {
			return s
		}
	}

	s := m.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    s.ID(),
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}
