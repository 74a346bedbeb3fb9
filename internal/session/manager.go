package session

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultCookieName is the cookie carrying the session id.
const DefaultCookieName = "workopia_session"

type contextKey struct{}

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	// Store persists sessions. Required.
	Store Store

	// CookieName defaults to DefaultCookieName.
	CookieName string

	// TTL is the idle lifetime of a session. Every request that presents a
	// stored session pushes its expiry TTL into the future. Defaults to 24
	// hours.
	TTL time.Duration

	// Secure marks the cookie as HTTPS-only.
	Secure bool
}

// Manager loads the session for every request and persists it afterwards.
type Manager struct {
	store      Store
	cookieName string
	ttl        time.Duration
	secure     bool
}

// NewManager returns a Manager for cfg.
func NewManager(cfg ManagerConfig) *Manager {
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = DefaultCookieName
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &Manager{
		store:      cfg.Store,
		cookieName: cookieName,
		ttl:        ttl,
		secure:     cfg.Secure,
	}
}

// FromContext returns the session attached by Manager.Middleware, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(contextKey{}).(*Session)
	return s
}

// NewContext returns ctx carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// Middleware attaches the visitor's session to the request context. A new
// session gets its cookie before the handler runs, so redirects issued by
// the handler carry it. Once the handler returns, modified sessions are
// saved and stored ones are re-saved to slide their expiry. A fresh session
// left untouched is never written.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := zerolog.Ctx(ctx)

		s, found := m.load(r)
		if !found {
			m.setCookie(w, s.id, m.ttl)
		}

		next.ServeHTTP(w, r.WithContext(NewContext(ctx, s)))

		if s.destroyed || (!s.dirty && !found) {
			return
		}

		data, err := s.encode()
		if err != nil {
			logger.Error().Err(err).Msg("encode session")
			return
		}

		if err := m.store.Save(ctx, s.id, data, m.ttl); err != nil {
			logger.Error().Err(err).Msg("save session")
		}
	})
}

// load returns the session named by the request cookie, or a fresh one
// with a new id when the cookie is absent, malformed or stale.
func (m *Manager) load(r *http.Request) (*Session, bool) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return newSession(uuid.NewString()), false
	}

	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return newSession(uuid.NewString()), false
	}

	data, err := m.store.Load(r.Context(), id.String())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("load session")
		return newSession(uuid.NewString()), false
	}

	if data == nil {
		return newSession(uuid.NewString()), false
	}

	s, err := decode(id.String(), data)
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("discarding unreadable session")
		return newSession(uuid.NewString()), false
	}

	return s, true
}

// Destroy deletes the request's session from the store and expires its
// cookie. The session is left empty and is not saved again.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) error {
	s := FromContext(r.Context())
	if s == nil {
		return nil
	}

	s.values = make(map[string]json.RawMessage)
	s.destroyed = true

	m.setCookie(w, "", -1)

	return m.store.Delete(r.Context(), s.id)
}

// Renew moves the request's session to a fresh id and reissues the cookie.
// Call it when the visitor signs in so an id planted before sign-in is
// worthless afterwards.
func (m *Manager) Renew(w http.ResponseWriter, r *http.Request) error {
	s := FromContext(r.Context())
	if s == nil {
		return nil
	}

	old := s.id
	s.id = uuid.NewString()
	s.dirty = true

	m.setCookie(w, s.id, m.ttl)

	return m.store.Delete(r.Context(), old)
}

func (m *Manager) setCookie(w http.ResponseWriter, value string, ttl time.Duration) {
	cookie := &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}

	if ttl < 0 {
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
	}

	http.SetCookie(w, cookie)
}
