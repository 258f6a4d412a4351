// Package discord refreshes community member counts from the public invite endpoint.
package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/router-for-me/storefront/internal/config"
	log "github.com/sirupsen/logrus"
)

const (
	defaultAPIBaseURL     = "https://discord.com/api/v10"
	defaultRequestTimeout = 15 * time.Second
)

// CountStore persists refreshed counts.
type CountStore interface {
	UpdateDiscordCounts(ctx context.Context, serverID string, members, online int) error
}

// Counts is the subset of an invite lookup the storefront keeps.
type Counts struct {
	ServerID string
	Members  int
	Online   int
}

type inviteResponse struct {
	Guild struct {
		ID string `json:"id"`
	} `json:"guild"`
	ApproximateMemberCount   int `json:"approximate_member_count"`
	ApproximatePresenceCount int `json:"approximate_presence_count"`
}

// Syncer keeps the stored Discord stats in line with the invite endpoint.
type Syncer struct {
	store      CountStore
	client     *resty.Client
	inviteCode string
}

// NewSyncer constructs a syncer; it returns nil when no invite code is configured.
func NewSyncer(store CountStore, cfg config.DiscordConfig) *Syncer {
	code := inviteCodeFrom(cfg.InviteCode)
	if store == nil || code == "" {
		return nil
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}
	return &Syncer{
		store:      store,
		client:     resty.New().SetBaseURL(baseURL).SetTimeout(defaultRequestTimeout),
		inviteCode: code,
	}
}

// Fetch looks up the invite and returns its approximate counts.
func (s *Syncer) Fetch(ctx context.Context) (Counts, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("with_counts", "true").
		Get("/invites/" + url.PathEscape(s.inviteCode))
	if err != nil {
		return Counts{}, fmt.Errorf("discord syncer: request failed: %w", err)
	}
	if resp.IsError() {
		return Counts{}, fmt.Errorf("discord syncer: unexpected status %d", resp.StatusCode())
	}
	var payload inviteResponse
	if errDecode := json.Unmarshal(resp.Body(), &payload); errDecode != nil {
		return Counts{}, fmt.Errorf("discord syncer: decode response: %w", errDecode)
	}
	return Counts{
		ServerID: payload.Guild.ID,
		Members:  payload.ApproximateMemberCount,
		Online:   payload.ApproximatePresenceCount,
	}, nil
}

// SyncOnce fetches the latest counts and stores them.
func (s *Syncer) SyncOnce(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("discord syncer: not configured")
	}
	counts, err := s.Fetch(ctx)
	if err != nil {
		return err
	}
	if errStore := s.store.UpdateDiscordCounts(ctx, counts.ServerID, counts.Members, counts.Online); errStore != nil {
		return fmt.Errorf("discord syncer: store counts: %w", errStore)
	}
	log.WithFields(log.Fields{"members": counts.Members, "online": counts.Online}).Debug("discord syncer: counts refreshed")
	return nil
}

// inviteCodeFrom accepts a bare code or a discord.gg / discord.com/invite URL.
func inviteCodeFrom(raw string) string {
	code := strings.TrimSpace(raw)
	if code == "" {
		return ""
	}
	if u, err := url.Parse(code); err == nil && u.Host != "" {
		code = strings.Trim(u.Path, "/")
		code = strings.TrimPrefix(code, "invite/")
	}
	return strings.Trim(code, "/")
}
