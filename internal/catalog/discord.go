package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/router-for-me/storefront/internal/apperr"
	"github.com/router-for-me/storefront/internal/models"
	"gorm.io/gorm"
)

// DiscordInput carries the community stats to store.
type DiscordInput struct {
	ServerID     string
	MemberCount  int
	OnlineCount  int
	ReferralCode string
	InviteURL    string
}

// GetDiscord returns the stored community stats.
func (s *Service) GetDiscord(ctx context.Context) (models.DiscordData, error) {
	var data models.DiscordData
	if errFind := s.db.WithContext(ctx).Order("updated_at DESC").First(&data).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return models.DiscordData{}, apperr.NotFound("Discord data")
		}
		return models.DiscordData{}, fmt.Errorf("load discord data: %w", errFind)
	}
	return data, nil
}

// UpsertDiscord overwrites the singleton row, creating it on first use.
func (s *Service) UpsertDiscord(ctx context.Context, in DiscordInput) (models.DiscordData, error) {
	if in.MemberCount < 0 || in.OnlineCount < 0 {
		return models.DiscordData{}, apperr.Validation("Counts cannot be negative")
	}
	var out models.DiscordData
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.DiscordData
		errFind := tx.Order("updated_at DESC").First(&existing).Error
		if errFind != nil && !errors.Is(errFind, gorm.ErrRecordNotFound) {
			return fmt.Errorf("load discord data: %w", errFind)
		}
		existing.ServerID = strings.TrimSpace(in.ServerID)
		existing.MemberCount = in.MemberCount
		existing.OnlineCount = in.OnlineCount
		existing.ReferralCode = strings.TrimSpace(in.ReferralCode)
		existing.InviteURL = strings.TrimSpace(in.InviteURL)
		existing.UpdatedAt = time.Now().UTC()
		if errSave := tx.Save(&existing).Error; errSave != nil {
			return fmt.Errorf("save discord data: %w", errSave)
		}
		out = existing
		return nil
	})
	if errTx != nil {
		return models.DiscordData{}, errTx
	}
	return out, nil
}

// UpdateDiscordCounts refreshes only the member and online counts of the stored row.
func (s *Service) UpdateDiscordCounts(ctx context.Context, serverID string, members, online int) error {
	current, errGet := s.GetDiscord(ctx)
	if errGet != nil && !errors.Is(errGet, apperr.ErrNotFound) {
		return errGet
	}
	if serverID == "" {
		serverID = current.ServerID
	}
	_, errUpsert := s.UpsertDiscord(ctx, DiscordInput{
		ServerID:     serverID,
		MemberCount:  members,
		OnlineCount:  online,
		ReferralCode: current.ReferralCode,
		InviteURL:    current.InviteURL,
	})
	return errUpsert
}
