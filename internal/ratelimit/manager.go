package ratelimit

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/router-for-me/storefront/internal/config"
	log "github.com/sirupsen/logrus"
)

const redisBreakerDuration = 30 * time.Second

// Option customises a Manager.
type Option func(*Manager)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithRedisClient uses client instead of dialing the configured address.
func WithRedisClient(client *redis.Client) Option {
	return func(m *Manager) {
		if client != nil {
			m.redis = &redisBackend{client: client, prefix: m.prefix}
		}
	}
}

// Manager counts requests in Redis when configured, and in memory otherwise or while Redis is failing.
type Manager struct {
	now    func() time.Time
	prefix string
	memory *memoryBackend
	redis  *redisBackend

	mu           sync.Mutex
	breakerUntil time.Time
}

// NewManager builds a Manager from the ratelimit config section.
func NewManager(cfg config.RateLimitConfig, opts ...Option) *Manager {
	m := &Manager{
		now:    time.Now,
		prefix: strings.TrimSpace(cfg.RedisPrefix),
		memory: newMemoryBackend(),
	}
	if addr := strings.TrimSpace(cfg.RedisAddr); addr != "" {
		db := cfg.RedisDB
		if db < 0 {
			db = 0
		}
		m.redis = &redisBackend{
			client: redis.NewClient(&redis.Options{
				Addr:     addr,
				Password: strings.TrimSpace(cfg.RedisPassword),
				DB:       db,
			}),
			prefix: m.prefix,
		}
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Allow counts one request by clientIP against rule.
// A disabled rule or an unknown client is always allowed.
func (m *Manager) Allow(ctx context.Context, rule Rule, clientIP string) (Result, error) {
	client := normalizeClient(clientIP)
	if m == nil || !rule.Enabled() || client == "" {
		return Result{Allowed: true}, nil
	}
	now := m.now()
	bucket, reset := rule.bucket(client, now)

	if m.redis != nil && !m.breakerOpen(now) {
		count, errHit := m.redis.hit(ctx, bucket, reset)
		if errHit == nil {
			return rule.outcome(count, reset), nil
		}
		m.tripBreaker(errHit, now)
	}
	count, errHit := m.memory.hit(ctx, bucket, reset)
	if errHit != nil {
		return Result{}, errHit
	}
	return rule.outcome(count, reset), nil
}

// PruneMemory drops expired in-memory counters and reports how many were removed.
func (m *Manager) PruneMemory() int {
	if m == nil {
		return 0
	}
	return m.memory.prune(m.now())
}

// Close releases the Redis client, if any.
func (m *Manager) Close() error {
	if m == nil || m.redis == nil {
		return nil
	}
	return m.redis.client.Close()
}

func (m *Manager) breakerOpen(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return now.Before(m.breakerUntil)
}

func (m *Manager) tripBreaker(err error, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if now.Before(m.breakerUntil) {
		return
	}
	m.breakerUntil = now.Add(redisBreakerDuration)
	log.WithError(err).Warn("rate limit: redis unavailable, counting in memory")
}
