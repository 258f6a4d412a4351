// Package catalog manages products, variants, FAQ entries and Discord stats.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/router-for-me/storefront/internal/apperr"
	"github.com/router-for-me/storefront/internal/config"
	"github.com/router-for-me/storefront/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultPeriod = "month"

// Service is the catalog store.
type Service struct {
	db            *gorm.DB
	featuredLimit int
	defaultShopID string
}

// NewService constructs a catalog Service.
func NewService(db *gorm.DB, cfg config.CatalogConfig) *Service {
	limit := cfg.FeaturedLimit
	if limit <= 0 {
		limit = 3
	}
	return &Service{db: db, featuredLimit: limit, defaultShopID: cfg.DefaultShopID}
}

// ProductInput carries fields for a new product.
type ProductInput struct {
	Name              string
	Description       string
	Price             string
	Period            string
	Features          []string
	ImageURL          string
	Category          string
	IsPopular         bool
	IsNew             bool
	IsBestseller      bool
	SellAuthProductID string
	SellAuthShopID    string
}

// ProductPatch carries optional fields for a partial product update.
type ProductPatch struct {
	Name              *string
	Description       *string
	Price             *string
	Period            *string
	Features          *[]string
	ImageURL          *string
	Category          *string
	IsPopular         *bool
	IsNew             *bool
	IsBestseller      *bool
	SellAuthProductID *string
	SellAuthShopID    *string
}

// ListProducts returns every product in store order.
func (s *Service) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if errFind := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&products).Error; errFind != nil {
		return nil, fmt.Errorf("list products: %w", errFind)
	}
	return products, nil
}

// FeaturedProducts returns the first products in store order.
func (s *Service) FeaturedProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if errFind := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Limit(s.featuredLimit).Find(&products).Error; errFind != nil {
		return nil, fmt.Errorf("list featured products: %w", errFind)
	}
	return products, nil
}

// GetProduct loads one product.
func (s *Service) GetProduct(ctx context.Context, id string) (models.Product, error) {
	var product models.Product
	if errFind := s.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return models.Product{}, apperr.NotFound("Product")
		}
		return models.Product{}, fmt.Errorf("load product: %w", errFind)
	}
	return product, nil
}

// CreateProduct validates and inserts a product.
func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (models.Product, error) {
	name := strings.TrimSpace(in.Name)
	description := strings.TrimSpace(in.Description)
	if name == "" || description == "" || strings.TrimSpace(in.Price) == "" {
		return models.Product{}, apperr.Validation("Name, description, and price are required")
	}
	price, errPrice := ParsePrice(in.Price)
	if errPrice != nil {
		return models.Product{}, errPrice
	}
	features, errFeatures := encodeFeatures(in.Features)
	if errFeatures != nil {
		return models.Product{}, errFeatures
	}
	period := strings.TrimSpace(in.Period)
	if period == "" {
		period = defaultPeriod
	}
	shopID := strings.TrimSpace(in.SellAuthShopID)
	if shopID == "" {
		shopID = s.defaultShopID
	}

	product := models.Product{
		Name:              name,
		Description:       description,
		Price:             price,
		Period:            period,
		Features:          features,
		ImageURL:          strings.TrimSpace(in.ImageURL),
		Category:          strings.TrimSpace(in.Category),
		IsPopular:         in.IsPopular,
		IsNew:             in.IsNew,
		IsBestseller:      in.IsBestseller,
		SellAuthProductID: strings.TrimSpace(in.SellAuthProductID),
		SellAuthShopID:    shopID,
	}
	if errCreate := s.db.WithContext(ctx).Create(&product).Error; errCreate != nil {
		return models.Product{}, fmt.Errorf("create product: %w", errCreate)
	}
	return product, nil
}

// UpdateProduct applies the non-nil fields of patch.
func (s *Service) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (models.Product, error) {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return models.Product{}, apperr.Validation("Name cannot be empty")
		}
		updates["name"] = name
	}
	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		if description == "" {
			return models.Product{}, apperr.Validation("Description cannot be empty")
		}
		updates["description"] = description
	}
	if patch.Price != nil {
		price, errPrice := ParsePrice(*patch.Price)
		if errPrice != nil {
			return models.Product{}, errPrice
		}
		updates["price"] = price
	}
	if patch.Period != nil {
		period := strings.TrimSpace(*patch.Period)
		if period == "" {
			period = defaultPeriod
		}
		updates["period"] = period
	}
	if patch.Features != nil {
		features, errFeatures := encodeFeatures(*patch.Features)
		if errFeatures != nil {
			return models.Product{}, errFeatures
		}
		updates["features"] = features
	}
	if patch.ImageURL != nil {
		updates["image_url"] = strings.TrimSpace(*patch.ImageURL)
	}
	if patch.Category != nil {
		updates["category"] = strings.TrimSpace(*patch.Category)
	}
	if patch.IsPopular != nil {
		updates["is_popular"] = *patch.IsPopular
	}
	if patch.IsNew != nil {
		updates["is_new"] = *patch.IsNew
	}
	if patch.IsBestseller != nil {
		updates["is_bestseller"] = *patch.IsBestseller
	}
	if patch.SellAuthProductID != nil {
		updates["sellauth_product_id"] = strings.TrimSpace(*patch.SellAuthProductID)
	}
	if patch.SellAuthShopID != nil {
		shopID := strings.TrimSpace(*patch.SellAuthShopID)
		if shopID == "" {
			shopID = s.defaultShopID
		}
		updates["sellauth_shop_id"] = shopID
	}

	res := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return models.Product{}, fmt.Errorf("update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Product{}, apperr.NotFound("Product")
	}
	return s.GetProduct(ctx, id)
}

// DeleteProduct removes a product and its variants atomically.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if errVariants := tx.Where("product_id = ?", id).Delete(&models.ProductVariant{}).Error; errVariants != nil {
			return fmt.Errorf("delete product variants: %w", errVariants)
		}
		res := tx.Where("id = ?", id).Delete(&models.Product{})
		if res.Error != nil {
			return fmt.Errorf("delete product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("Product")
		}
		return nil
	})
}

// Features decodes the product's feature list.
func Features(p models.Product) []string {
	out := []string{}
	if len(p.Features) == 0 {
		return out
	}
	_ = json.Unmarshal(p.Features, &out)
	return out
}

func encodeFeatures(features []string) (datatypes.JSON, error) {
	cleaned := make([]string, 0, len(features))
	for _, feature := range features {
		if trimmed := strings.TrimSpace(feature); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	raw, errMarshal := json.Marshal(cleaned)
	if errMarshal != nil {
		return nil, fmt.Errorf("encode features: %w", errMarshal)
	}
	return datatypes.JSON(raw), nil
}

// ParsePrice parses a non-negative decimal amount rounded to cents.
func ParsePrice(raw string) (float64, error) {
	value, errParse := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if errParse != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, apperr.Validationf("Invalid price: %q", raw)
	}
	if value < 0 {
		return 0, apperr.Validation("Price cannot be negative")
	}
	return roundCents(value), nil
}

// FormatPrice renders an amount with two decimals.
func FormatPrice(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
