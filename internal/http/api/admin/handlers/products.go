package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/storefront/internal/catalog"
	"github.com/router-for-me/storefront/internal/http/api/views"
	"github.com/router-for-me/storefront/internal/http/response"
)

// ProductHandler manages products and their variants.
type ProductHandler struct {
	catalog *catalog.Service
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(catalog *catalog.Service) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

type createProductRequest struct {
	Name              string        `json:"name"`
	Description       string        `json:"description"`
	Price             views.Decimal `json:"price"`
	Period            string        `json:"period"`
	Features          []string      `json:"features"`
	ImageURL          string        `json:"imageUrl"`
	Category          string        `json:"category"`
	IsPopular         bool          `json:"isPopular"`
	IsNew             bool          `json:"isNew"`
	IsBestseller      bool          `json:"isBestseller"`
	SellAuthProductID string        `json:"sellAuthProductId"`
	SellAuthShopID    string        `json:"sellAuthShopId"`
}

// Create inserts a product.
func (h *ProductHandler) Create(c *gin.Context) {
	var body createProductRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		response.Message(c, http.StatusBadRequest, "Name, description, and price are required")
		return
	}
	product, err := h.catalog.CreateProduct(c.Request.Context(), catalog.ProductInput{
		Name:              body.Name,
		Description:       body.Description,
		Price:             body.Price.String(),
		Period:            body.Period,
		Features:          body.Features,
		ImageURL:          body.ImageURL,
		Category:          body.Category,
		IsPopular:         body.IsPopular,
		IsNew:             body.IsNew,
		IsBestseller:      body.IsBestseller,
		SellAuthProductID: body.SellAuthProductID,
		SellAuthShopID:    body.SellAuthShopID,
	})
	if err != nil {
		response.Error(c, err, "Failed to create product")
		return
	}
	c.JSON(http.StatusOK, views.Product(product))
}

type updateProductRequest struct {
	Name              *string        `json:"name"`
	Description       *string        `json:"description"`
	Price             *views.Decimal `json:"price"`
	Period            *string        `json:"period"`
	Features          *[]string      `json:"features"`
	ImageURL          *string        `json:"imageUrl"`
	Category          *string        `json:"category"`
	IsPopular         *bool          `json:"isPopular"`
	IsNew             *bool          `json:"isNew"`
	IsBestseller      *bool          `json:"isBestseller"`
	SellAuthProductID *string        `json:"sellAuthProductId"`
	SellAuthShopID    *string        `json:"sellAuthShopId"`
}

// Update applies a partial product update.
func (h *ProductHandler) Update(c *gin.Context) {
	var body updateProductRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		response.Message(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	patch := catalog.ProductPatch{
		Name:              body.Name,
		Description:       body.Description,
		Period:            body.Period,
		Features:          body.Features,
		ImageURL:          body.ImageURL,
		Category:          body.Category,
		IsPopular:         body.IsPopular,
		IsNew:             body.IsNew,
		IsBestseller:      body.IsBestseller,
		SellAuthProductID: body.SellAuthProductID,
		SellAuthShopID:    body.SellAuthShopID,
	}
	if body.Price != nil {
		price := body.Price.String()
		patch.Price = &price
	}
	product, err := h.catalog.UpdateProduct(c.Request.Context(), strings.TrimSpace(c.Param("id")), patch)
	if err != nil {
		response.Error(c, err, "Failed to update product")
		return
	}
	c.JSON(http.StatusOK, views.Product(product))
}

// Delete removes a product and its variants.
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.catalog.DeleteProduct(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		response.Error(c, err, "Failed to delete product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted successfully"})
}

// ListVariants returns a product's variants.
func (h *ProductHandler) ListVariants(c *gin.Context) {
	variants, err := h.catalog.ListVariants(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.Error(c, err, "Failed to get variants")
		return
	}
	c.JSON(http.StatusOK, views.Variants(variants))
}

type createVariantRequest struct {
	ProductID         string        `json:"productId"`
	Name              string        `json:"name"`
	Period            string        `json:"period"`
	Price             views.Decimal `json:"price"`
	Discount          string        `json:"discount"`
	SellAuthVariantID string        `json:"sellAuthVariantId"`
	IsDefault         bool          `json:"isDefault"`
}

// CreateVariant inserts a variant for an existing product.
func (h *ProductHandler) CreateVariant(c *gin.Context) {
	var body createVariantRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		response.Message(c, http.StatusBadRequest, "Product ID, name, price, and SellAuth variant ID are required")
		return
	}
	variant, err := h.catalog.CreateVariant(c.Request.Context(), catalog.VariantInput{
		ProductID:         body.ProductID,
		Name:              body.Name,
		Period:            body.Period,
		Price:             body.Price.String(),
		Discount:          body.Discount,
		SellAuthVariantID: body.SellAuthVariantID,
		IsDefault:         body.IsDefault,
	})
	if err != nil {
		response.Error(c, err, "Failed to create variant")
		return
	}
	c.JSON(http.StatusOK, views.Variant(variant))
}

// DeleteVariant removes a variant.
func (h *ProductHandler) DeleteVariant(c *gin.Context) {
	if err := h.catalog.DeleteVariant(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		response.Error(c, err, "Failed to delete variant")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Variant deleted successfully"})
}
