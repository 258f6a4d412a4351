// Package admin registers the back-office API.
package admin

import (
	"github.com/gin-gonic/gin"
	"github.com/router-for-me/storefront/internal/auth"
	"github.com/router-for-me/storefront/internal/catalog"
	"github.com/router-for-me/storefront/internal/checkout"
	handlers "github.com/router-for-me/storefront/internal/http/api/admin/handlers"
	"github.com/router-for-me/storefront/internal/http/middleware"
	"github.com/router-for-me/storefront/internal/ratelimit"
	"github.com/router-for-me/storefront/internal/support"
)

// Services are the collaborators behind the admin routes.
type Services struct {
	Auth      *auth.Service
	Sessions  *middleware.Sessions
	Catalog   *catalog.Service
	Support   *support.Service
	Checkout  *checkout.Bridge
	Limiter   middleware.Allower
	LoginRule ratelimit.Rule
}

// RegisterAdminRoutes registers admin routes, middleware, and handlers.
func RegisterAdminRoutes(r *gin.Engine, svc Services) {
	if r == nil || svc.Auth == nil || svc.Sessions == nil {
		return
	}

	adminGroup := r.Group("/api/admin")

	authHandler := handlers.NewAuthHandler(svc.Auth, svc.Sessions)
	adminGroup.POST("/login", middleware.RateLimit(svc.Limiter, svc.LoginRule), authHandler.Login)
	adminGroup.POST("/logout", authHandler.Logout)

	authed := adminGroup.Group("")
	authed.Use(middleware.RequireAdmin(svc.Sessions, svc.Auth))

	authed.GET("/user", authHandler.User)
	authed.POST("/setup-2fa", authHandler.SetupTwoFactor)
	authed.POST("/enable-2fa", authHandler.EnableTwoFactor)
	authed.POST("/disable-2fa", authHandler.DisableTwoFactor)
	authed.PUT("/password", authHandler.ChangePassword)

	productHandler := handlers.NewProductHandler(svc.Catalog)
	authed.POST("/products", productHandler.Create)
	authed.PATCH("/products/:id", productHandler.Update)
	authed.DELETE("/products/:id", productHandler.Delete)
	authed.GET("/products/:id/variants", productHandler.ListVariants)
	authed.POST("/variants", productHandler.CreateVariant)
	authed.DELETE("/variants/:id", productHandler.DeleteVariant)

	contentHandler := handlers.NewContentHandler(svc.Catalog)
	authed.POST("/faq", contentHandler.CreateFaq)
	authed.DELETE("/faq/:id", contentHandler.DeleteFaq)
	authed.PUT("/discord", contentHandler.UpsertDiscord)

	ticketHandler := handlers.NewTicketHandler(svc.Support)
	authed.GET("/support/tickets", ticketHandler.List)
	authed.GET("/support/stats", ticketHandler.Stats)
	authed.GET("/support/tickets/:id", ticketHandler.Get)
	authed.POST("/support/tickets/:id/reply", ticketHandler.Reply)
	authed.PATCH("/support/tickets/:id", ticketHandler.Update)
	authed.DELETE("/support/tickets/:id", ticketHandler.Delete)

	webhookHandler := handlers.NewWebhookHandler(svc.Checkout)
	authed.GET("/webhooks", webhookHandler.List)
}
