// Package session keeps the signed session token on the server side and
// hands the client only an opaque cookie.
package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/labstack/echo/v4"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "storefront_session"
	// Lifetime bounds how long a session record is kept. The token inside it
	// expires sooner and is checked on every use.
	Lifetime = 24 * time.Hour

	tokenKey = "jwt"
)

// Manager wraps scs.SessionManager with the storefront's cookie policy.
type Manager struct {
	*scs.SessionManager
}

// NewManager builds a manager backed by store. In production the cookie is
// Secure and allowed cross-site; otherwise it is same-site and works over
// plain HTTP.
func NewManager(store scs.Store, production bool) *Manager {
	sm := scs.New()
	sm.Store = store
	sm.Lifetime = Lifetime
	sm.Cookie.Name = CookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.Path = "/"
	sm.Cookie.Persist = false
	if production {
		sm.Cookie.Secure = true
		sm.Cookie.SameSite = http.SameSiteNoneMode
	} else {
		sm.Cookie.Secure = false
		sm.Cookie.SameSite = http.SameSiteLaxMode
	}
	return &Manager{SessionManager: sm}
}

// Middleware loads the session for every request. A cookie is only issued
// once a handler writes to the session.
func (m *Manager) Middleware() echo.MiddlewareFunc {
	return echo.WrapMiddleware(m.LoadAndSave)
}

// SetToken stores a freshly issued token, rotating the session id first.
func (m *Manager) SetToken(ctx context.Context, token string) error {
	if err := m.RenewToken(ctx); err != nil {
		return fmt.Errorf("renew session: %w", err)
	}
	m.Put(ctx, tokenKey, token)
	return nil
}

// Token returns the stored token, or "" when the session has none.
func (m *Manager) Token(ctx context.Context) string {
	return m.GetString(ctx, tokenKey)
}

// HasToken reports whether a token is present. It does not verify it.
func (m *Manager) HasToken(ctx context.Context) bool {
	return m.Exists(ctx, tokenKey)
}
