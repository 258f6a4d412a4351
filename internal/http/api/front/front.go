// Package front registers the public storefront API.
package front

import (
	"github.com/gin-gonic/gin"
	"github.com/router-for-me/storefront/internal/auth"
	"github.com/router-for-me/storefront/internal/catalog"
	"github.com/router-for-me/storefront/internal/checkout"
	handlers "github.com/router-for-me/storefront/internal/http/api/front/handlers"
	"github.com/router-for-me/storefront/internal/http/middleware"
	"github.com/router-for-me/storefront/internal/ratelimit"
	"github.com/router-for-me/storefront/internal/support"
	"gorm.io/gorm"
)

// Services are the collaborators behind the public routes.
type Services struct {
	DB          *gorm.DB
	Auth        *auth.Service
	Catalog     *catalog.Service
	Support     *support.Service
	Checkout    *checkout.Bridge
	Limiter     middleware.Allower
	SupportRule ratelimit.Rule
}

// RegisterFrontRoutes registers the public routes.
func RegisterFrontRoutes(r *gin.Engine, svc Services) {
	if r == nil || svc.DB == nil {
		return
	}

	healthHandler := handlers.NewHealthHandler(svc.DB)
	r.GET("/healthz", healthHandler.Healthz)

	api := r.Group("/api")

	catalogHandler := handlers.NewCatalogHandler(svc.Catalog)
	api.GET("/products", catalogHandler.ListProducts)
	api.GET("/products/featured", catalogHandler.FeaturedProducts)
	api.GET("/products/:id", catalogHandler.GetProduct)
	api.GET("/products/:id/variants", catalogHandler.ListVariants)
	api.GET("/products/:id/pricing", catalogHandler.Pricing)
	api.GET("/discord", catalogHandler.Discord)
	api.GET("/faq", catalogHandler.Faq)

	supportHandler := handlers.NewSupportHandler(svc.Support)
	api.POST("/support/message", middleware.RateLimit(svc.Limiter, svc.SupportRule), supportHandler.Submit)

	paymentHandler := handlers.NewPaymentHandler(svc.Checkout)
	api.POST("/payment/checkout", paymentHandler.Checkout)
	api.GET("/payment/verify/:id", paymentHandler.Verify)
	api.POST("/webhook/sellauth", paymentHandler.Webhook)

	initHandler := handlers.NewInitHandler(svc.Auth)
	api.GET("/init/status", initHandler.Status)
	api.POST("/init/setup", initHandler.Setup)
}
