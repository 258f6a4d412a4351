package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/router-for-me/storefront/internal/apperr"
	"github.com/router-for-me/storefront/internal/db"
	"github.com/router-for-me/storefront/internal/models"
	"gorm.io/gorm"
)

// VariantInput carries fields for a new variant.
type VariantInput struct {
	ProductID         string
	Name              string
	Period            string
	Price             string
	Discount          string
	SellAuthVariantID string
	IsDefault         bool
}

// ListVariants returns a product's variants, oldest first.
func (s *Service) ListVariants(ctx context.Context, productID string) ([]models.ProductVariant, error) {
	var variants []models.ProductVariant
	if errFind := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC, id ASC").
		Find(&variants).Error; errFind != nil {
		return nil, fmt.Errorf("list variants: %w", errFind)
	}
	return variants, nil
}

// CreateVariant inserts a variant for an existing product.
// The first variant of a product becomes its default; a new default clears its siblings.
func (s *Service) CreateVariant(ctx context.Context, in VariantInput) (models.ProductVariant, error) {
	productID := strings.TrimSpace(in.ProductID)
	name := strings.TrimSpace(in.Name)
	sellAuthVariantID := strings.TrimSpace(in.SellAuthVariantID)
	if productID == "" || name == "" || strings.TrimSpace(in.Price) == "" || sellAuthVariantID == "" {
		return models.ProductVariant{}, apperr.Validation("Product ID, name, price, and SellAuth variant ID are required")
	}
	price, errPrice := ParsePrice(in.Price)
	if errPrice != nil {
		return models.ProductVariant{}, errPrice
	}
	period := strings.TrimSpace(in.Period)
	if period == "" {
		period = defaultPeriod
	}
	variant := models.ProductVariant{
		ProductID:         productID,
		Name:              name,
		Period:            period,
		Price:             price,
		SellAuthVariantID: sellAuthVariantID,
	}
	if discount := strings.TrimSpace(in.Discount); discount != "" {
		variant.Discount = &discount
	}

	// A concurrent insert can win the single-default index between the count and
	// the insert; the second attempt sees that default and inserts a plain variant.
	var errTx error
	for attempt := 0; attempt < 2; attempt++ {
		variant.ID = ""
		variant.IsDefault = false
		errTx = s.createVariantTx(ctx, &variant, in.IsDefault)
		if !errors.Is(errTx, errDefaultVariantConflict) {
			break
		}
	}
	if errors.Is(errTx, errDefaultVariantConflict) {
		return models.ProductVariant{}, apperr.Validation("Another default variant was saved concurrently; retry")
	}
	if errTx != nil {
		return models.ProductVariant{}, errTx
	}
	return variant, nil
}

var errDefaultVariantConflict = errors.New("default variant conflict")

func (s *Service) createVariantTx(ctx context.Context, variant *models.ProductVariant, makeDefault bool) error {
	productID := variant.ProductID
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if errFind := tx.Select("id").Where("id = ?", productID).First(&product).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Product")
			}
			return fmt.Errorf("load product: %w", errFind)
		}

		var defaults int64
		if errCount := tx.Model(&models.ProductVariant{}).
			Where("product_id = ? AND is_default = ?", productID, true).
			Count(&defaults).Error; errCount != nil {
			return fmt.Errorf("count default variants: %w", errCount)
		}
		switch {
		case defaults == 0:
			variant.IsDefault = true
		case makeDefault:
			if errClear := tx.Model(&models.ProductVariant{}).
				Where("product_id = ? AND is_default = ?", productID, true).
				Update("is_default", false).Error; errClear != nil {
				return fmt.Errorf("clear default variant: %w", errClear)
			}
			variant.IsDefault = true
		}

		return insertVariant(tx, variant)
	})
}

func insertVariant(tx *gorm.DB, variant *models.ProductVariant) error {
	if errCreate := tx.Create(variant).Error; errCreate != nil {
		if variant.IsDefault && db.IsUniqueViolation(errCreate) {
			return errDefaultVariantConflict
		}
		return fmt.Errorf("create variant: %w", errCreate)
	}
	return nil
}

// DeleteVariant removes a variant, promoting the oldest sibling when the default goes.
func (s *Service) DeleteVariant(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var variant models.ProductVariant
		if errFind := tx.Where("id = ?", id).First(&variant).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Variant")
			}
			return fmt.Errorf("load variant: %w", errFind)
		}
		if errDelete := tx.Delete(&variant).Error; errDelete != nil {
			return fmt.Errorf("delete variant: %w", errDelete)
		}
		if !variant.IsDefault {
			return nil
		}

		var next models.ProductVariant
		errNext := tx.Where("product_id = ?", variant.ProductID).Order("created_at ASC, id ASC").First(&next).Error
		if errors.Is(errNext, gorm.ErrRecordNotFound) {
			return nil
		}
		if errNext != nil {
			return fmt.Errorf("load sibling variant: %w", errNext)
		}
		if errPromote := tx.Model(&next).Update("is_default", true).Error; errPromote != nil {
			return fmt.Errorf("promote default variant: %w", errPromote)
		}
		return nil
	})
}
