package discord

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/router-for-me/storefront/internal/config"
)

type recordingStore struct {
	serverID        string
	members, online int
	calls           int
}

func (r *recordingStore) UpdateDiscordCounts(_ context.Context, serverID string, members, online int) error {
	r.calls++
	r.serverID, r.members, r.online = serverID, members, online
	return nil
}

func TestSyncOnce_FetchesAndStores(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/invites/kernal" || r.URL.Query().Get("with_counts") != "true" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":"kernal","guild":{"id":"123"},"approximate_member_count":1500,"approximate_presence_count":320}`))
	}))
	defer server.Close()

	store := &recordingStore{}
	syncer := NewSyncer(store, config.DiscordConfig{InviteCode: "https://discord.gg/kernal", APIBaseURL: server.URL})
	if syncer == nil {
		t.Fatalf("expected syncer")
	}
	if err := syncer.SyncOnce(context.Background()); err != nil {
		t.Fatalf("SyncOnce: %v", err)
	}
	if store.calls != 1 || store.serverID != "123" || store.members != 1500 || store.online != 320 {
		t.Fatalf("unexpected stored counts %+v", store)
	}
}

func TestSyncOnce_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	store := &recordingStore{}
	syncer := NewSyncer(store, config.DiscordConfig{InviteCode: "gone", APIBaseURL: server.URL})
	if err := syncer.SyncOnce(context.Background()); err == nil {
		t.Fatalf("expected error for 404")
	}
	if store.calls != 0 {
		t.Fatalf("store must not be touched on failure")
	}
}

func TestInviteCodeFrom(t *testing.T) {
	cases := map[string]string{
		"":                                "",
		"kernal":                          "kernal",
		"https://discord.gg/kernal":       "kernal",
		"https://discord.com/invite/abc/": "abc",
	}
	for in, want := range cases {
		if got := inviteCodeFrom(in); got != want {
			t.Fatalf("inviteCodeFrom(%q) = %q, want %q", in, got, want)
		}
	}
	if NewSyncer(&recordingStore{}, config.DiscordConfig{}) != nil {
		t.Fatalf("expected nil syncer without invite code")
	}
}
