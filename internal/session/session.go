// Package session stores server-side admin sessions keyed by an opaque cookie id.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/router-for-me/storefront/internal/config"
	"github.com/router-for-me/storefront/internal/security"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a session id is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Data is the payload stored per session.
type Data struct {
	AdminID       string    `json:"adminId"`
	AdminUsername string    `json:"adminUsername"`
	IssuedAt      time.Time `json:"issuedAt"`
}

// Store persists session payloads with an absolute TTL.
type Store interface {
	Get(ctx context.Context, id string) (Data, error)
	Set(ctx context.Context, id string, data Data, ttl time.Duration) error
	Destroy(ctx context.Context, id string) error
}

// Purger is implemented by stores that need explicit expiry cleanup.
type Purger interface {
	Purge(ctx context.Context) (int64, error)
}

// NewID returns a fresh 32-byte hex session id.
func NewID() (string, error) {
	id, err := security.GenerateRandomString(32)
	if err != nil {
		return "", fmt.Errorf("session: generate id: %w", err)
	}
	return id, nil
}

// New builds the store selected by cfg.Backend.
func New(cfg config.SessionConfig, conn *gorm.DB) (Store, error) {
	switch cfg.Backend {
	case config.SessionBackendMemory:
		return NewMemoryStore(nil), nil
	case config.SessionBackendRedis:
		if cfg.RedisAddr == "" {
			return nil, errors.New("session: redis backend requires redis-addr")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return NewRedisStore(client, cfg.RedisPrefix), nil
	case config.SessionBackendDatabase, "":
		if conn == nil {
			return nil, errors.New("session: database backend requires a connection")
		}
		return NewGormStore(conn, nil), nil
	default:
		return nil, fmt.Errorf("session: unknown backend %q", cfg.Backend)
	}
}
