package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/storefront/internal/http/api/admin"
	"github.com/router-for-me/storefront/internal/http/api/front"
	"github.com/router-for-me/storefront/internal/http/response"
	"github.com/router-for-me/storefront/internal/http/validation"
	"github.com/router-for-me/storefront/internal/logging"
	"github.com/router-for-me/storefront/internal/ratelimit"
)

// NewRouter builds the gin engine with the public and admin route trees.
func NewRouter(a *App) (*gin.Engine, error) {
	if errValidation := validation.Register(); errValidation != nil {
		return nil, errValidation
	}

	r := gin.New()
	r.Use(logging.GinLogger(), gin.Recovery())

	front.RegisterFrontRoutes(r, front.Services{
		DB:          a.db,
		Auth:        a.Auth,
		Catalog:     a.Catalog,
		Support:     a.Support,
		Checkout:    a.Checkout,
		Limiter:     a.limiter,
		SupportRule: ratelimit.SupportRule(a.cfg.RateLimit),
	})
	admin.RegisterAdminRoutes(r, admin.Services{
		Auth:      a.Auth,
		Sessions:  a.sessions,
		Catalog:   a.Catalog,
		Support:   a.Support,
		Checkout:  a.Checkout,
		Limiter:   a.limiter,
		LoginRule: ratelimit.LoginRule(a.cfg.RateLimit),
	})

	r.NoRoute(func(c *gin.Context) {
		response.Message(c, http.StatusNotFound, "Not found")
	})
	return r, nil
}
