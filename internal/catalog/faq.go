package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/router-for-me/storefront/internal/apperr"
	"github.com/router-for-me/storefront/internal/models"
)

// FaqInput carries fields for a new FAQ entry.
type FaqInput struct {
	Question string
	Answer   string
	Order    int
}

// ListFaq returns FAQ entries by ascending order.
func (s *Service) ListFaq(ctx context.Context) ([]models.FaqItem, error) {
	var items []models.FaqItem
	if errFind := s.db.WithContext(ctx).Order("sort_order ASC, created_at ASC").Find(&items).Error; errFind != nil {
		return nil, fmt.Errorf("list faq: %w", errFind)
	}
	return items, nil
}

// CreateFaq inserts a FAQ entry.
func (s *Service) CreateFaq(ctx context.Context, in FaqInput) (models.FaqItem, error) {
	item := models.FaqItem{
		Question:  strings.TrimSpace(in.Question),
		Answer:    strings.TrimSpace(in.Answer),
		SortOrder: in.Order,
	}
	if item.Question == "" || item.Answer == "" {
		return models.FaqItem{}, apperr.Validation("Question and answer are required")
	}
	if errCreate := s.db.WithContext(ctx).Create(&item).Error; errCreate != nil {
		return models.FaqItem{}, fmt.Errorf("create faq: %w", errCreate)
	}
	return item, nil
}

// DeleteFaq removes a FAQ entry.
func (s *Service) DeleteFaq(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.FaqItem{})
	if res.Error != nil {
		return fmt.Errorf("delete faq: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("FAQ item")
	}
	return nil
}
