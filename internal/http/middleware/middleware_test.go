package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/storefront/internal/apperr"
	"github.com/router-for-me/storefront/internal/config"
	"github.com/router-for-me/storefront/internal/models"
	"github.com/router-for-me/storefront/internal/ratelimit"
	"github.com/router-for-me/storefront/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticAdmins map[string]models.AdminUser

func (s staticAdmins) CurrentUser(_ context.Context, id string) (models.AdminUser, error) {
	admin, ok := s[id]
	if !ok {
		return models.AdminUser{}, apperr.ErrUnauthenticated
	}
	return admin, nil
}

func TestRequireAdmin_SessionLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := session.NewMemoryStore(nil)
	sessions := NewSessions(store, config.SessionConfig{CookieName: "sid", TTL: time.Hour})
	admins := staticAdmins{"a1": {ID: "a1", Username: "root"}}

	r := gin.New()
	r.POST("/login", func(c *gin.Context) {
		require.NoError(t, sessions.Issue(c, admins["a1"]))
		c.Status(http.StatusNoContent)
	})
	r.POST("/logout", func(c *gin.Context) {
		require.NoError(t, sessions.Destroy(c))
		c.Status(http.StatusNoContent)
	})
	r.GET("/me", RequireAdmin(sessions, admins), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": AdminID(c), "username": c.GetString(ContextAdminUsername)})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Authentication required"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, "sid", cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Len(t, cookie.Value, 64)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"a1","username":"root"}`, w.Body.String())

	// A second login with the old cookie rotates the id.
	req = httptest.NewRequest(http.MethodPost, "/login", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	rotated := w.Result().Cookies()[0]
	assert.NotEqual(t, cookie.Value, rotated.Value)
	_, errOld := store.Get(context.Background(), cookie.Value)
	assert.ErrorIs(t, errOld, session.ErrNotFound)

	req = httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(rotated)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(rotated)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin_DeletedAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := session.NewMemoryStore(nil)
	require.NoError(t, store.Set(context.Background(), "orphan", session.Data{AdminID: "gone"}, time.Hour))
	sessions := NewSessions(store, config.SessionConfig{})

	r := gin.New()
	r.GET("/me", RequireAdmin(sessions, staticAdmins{}), func(c *gin.Context) { c.Status(http.StatusOK) })
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "orphan"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimit_RejectsOverBudget(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager := ratelimit.NewManager(config.RateLimitConfig{})
	rule := ratelimit.Rule{Name: ratelimit.RuleSupport, Limit: 2, Window: time.Minute}

	r := gin.New()
	r.POST("/support", RateLimit(manager, rule), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/support", nil)
		req.RemoteAddr = "203.0.113.9:4000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests {
			assert.NotEmpty(t, w.Header().Get("Retry-After"))
			assert.JSONEq(t, `{"message":"too many requests"}`, w.Body.String())
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// Other clients have their own budget.
	req := httptest.NewRequest(http.MethodPost, "/support", nil)
	req.RemoteAddr = "198.51.100.1:4000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit_DisabledRule(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", RateLimit(ratelimit.NewManager(config.RateLimitConfig{}), ratelimit.Rule{Name: "login"}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	for i := 0; i < 20; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
}
