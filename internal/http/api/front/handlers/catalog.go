package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/storefront/internal/apperr"
	"github.com/router-for-me/storefront/internal/catalog"
	"github.com/router-for-me/storefront/internal/http/api/views"
	"github.com/router-for-me/storefront/internal/http/response"
)

// CatalogHandler serves the public catalog endpoints.
type CatalogHandler struct {
	catalog *catalog.Service
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(catalog *catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListProducts returns every product in store order.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		response.Error(c, err, "Failed to fetch products")
		return
	}
	c.JSON(http.StatusOK, views.Products(products))
}

// FeaturedProducts returns the first products in store order.
func (h *CatalogHandler) FeaturedProducts(c *gin.Context) {
	products, err := h.catalog.FeaturedProducts(c.Request.Context())
	if err != nil {
		response.Error(c, err, "Failed to fetch featured products")
		return
	}
	c.JSON(http.StatusOK, views.Products(products))
}

// GetProduct returns one product.
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.Error(c, err, "Failed to fetch product")
		return
	}
	c.JSON(http.StatusOK, views.Product(product))
}

// ListVariants returns a product's variants.
func (h *CatalogHandler) ListVariants(c *gin.Context) {
	variants, err := h.catalog.ListVariants(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.Error(c, err, "Failed to fetch product variants")
		return
	}
	c.JSON(http.StatusOK, views.Variants(variants))
}

// Pricing returns advisory multi-period prices derived from the base price.
func (h *CatalogHandler) Pricing(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	quotes, err := h.catalog.ProductPricing(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, "Failed to fetch product pricing")
		return
	}
	c.JSON(http.StatusOK, views.PlanQuotes(id, quotes))
}

// Discord returns community stats.
func (h *CatalogHandler) Discord(c *gin.Context) {
	data, err := h.catalog.GetDiscord(c.Request.Context())
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			response.Message(c, http.StatusNotFound, "Discord data not found")
			return
		}
		response.Error(c, err, "Failed to fetch Discord data")
		return
	}
	c.JSON(http.StatusOK, views.Discord(data))
}

// Faq returns FAQ entries in display order.
func (h *CatalogHandler) Faq(c *gin.Context) {
	items, err := h.catalog.ListFaq(c.Request.Context())
	if err != nil {
		response.Error(c, err, "Failed to fetch FAQ items")
		return
	}
	c.JSON(http.StatusOK, views.Faq(items))
}
