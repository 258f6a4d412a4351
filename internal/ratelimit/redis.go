package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisBackend shares counters between instances. Keys expire one second after their window.
type redisBackend struct {
	client *redis.Client
	prefix string
}

func (b *redisBackend) hit(ctx context.Context, bucket string, reset time.Time) (int64, error) {
	key := bucket
	if b.prefix != "" {
		key = b.prefix + ":" + bucket
	}
	var incr *redis.IntCmd
	_, errPipe := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireAt(ctx, key, reset.Add(time.Second))
		return nil
	})
	if errPipe != nil {
		return 0, fmt.Errorf("ratelimit: redis incr: %w", errPipe)
	}
	return incr.Val(), nil
}
