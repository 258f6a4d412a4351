// Package middleware holds gin middleware for admin sessions and request budgets.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/storefront/internal/apperr"
	"github.com/router-for-me/storefront/internal/config"
	"github.com/router-for-me/storefront/internal/http/response"
	"github.com/router-for-me/storefront/internal/models"
	"github.com/router-for-me/storefront/internal/session"
	log "github.com/sirupsen/logrus"
)

// Context keys set by RequireAdmin.
const (
	ContextAdminID       = "adminID"
	ContextAdminUsername = "adminUsername"
)

// AdminResolver loads the admin bound to a session.
type AdminResolver interface {
	CurrentUser(ctx context.Context, adminID string) (models.AdminUser, error)
}

// Sessions issues, resolves and destroys cookie-bound admin sessions.
type Sessions struct {
	store  session.Store
	name   string
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewSessions binds a store to the configured cookie settings.
func NewSessions(store session.Store, cfg config.SessionConfig) *Sessions {
	name := strings.TrimSpace(cfg.CookieName)
	if name == "" {
		name = "sid"
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Sessions{store: store, name: name, ttl: ttl, secure: cfg.Secure, now: time.Now}
}

// Issue stores a new session for admin under a fresh id and sets the cookie.
// Any session presented with the request is destroyed first.
func (s *Sessions) Issue(c *gin.Context, admin models.AdminUser) error {
	ctx := c.Request.Context()
	if previous, errCookie := c.Cookie(s.name); errCookie == nil && previous != "" {
		if errDestroy := s.store.Destroy(ctx, previous); errDestroy != nil {
			log.WithError(errDestroy).Warn("session: destroy previous session")
		}
	}
	id, errID := session.NewID()
	if errID != nil {
		return errID
	}
	data := session.Data{AdminID: admin.ID, AdminUsername: admin.Username, IssuedAt: s.now().UTC()}
	if errSet := s.store.Set(ctx, id, data, s.ttl); errSet != nil {
		return errSet
	}
	s.setCookie(c, id, int(s.ttl.Seconds()))
	return nil
}

// Destroy removes the request's session, if any, and clears the cookie.
func (s *Sessions) Destroy(c *gin.Context) error {
	id, errCookie := c.Cookie(s.name)
	s.setCookie(c, "", -1)
	if errCookie != nil || id == "" {
		return nil
	}
	return s.store.Destroy(c.Request.Context(), id)
}

// Lookup returns the session bound to the request cookie.
func (s *Sessions) Lookup(c *gin.Context) (session.Data, error) {
	id, errCookie := c.Cookie(s.name)
	if errCookie != nil || id == "" {
		return session.Data{}, session.ErrNotFound
	}
	return s.store.Get(c.Request.Context(), id)
}

func (s *Sessions) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.name, value, maxAge, "/", "", s.secure, true)
}

// RequireAdmin aborts with 401 unless the request carries a session for an existing admin.
func RequireAdmin(sessions *Sessions, admins AdminResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, errLookup := sessions.Lookup(c)
		if errLookup != nil {
			if !errors.Is(errLookup, session.ErrNotFound) {
				log.WithError(errLookup).Error("session lookup failed")
			}
			response.Message(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		admin, errAdmin := admins.CurrentUser(c.Request.Context(), data.AdminID)
		if errAdmin != nil {
			if !errors.Is(errAdmin, apperr.ErrUnauthenticated) {
				log.WithError(errAdmin).Error("load session admin failed")
			}
			response.Message(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		c.Set(ContextAdminID, admin.ID)
		c.Set(ContextAdminUsername, admin.Username)
		c.Next()
	}
}

// AdminID returns the admin id set by RequireAdmin.
func AdminID(c *gin.Context) string {
	return c.GetString(ContextAdminID)
}
