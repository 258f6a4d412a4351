package ratelimit

import (
	"context"
	"sync"
	"time"
)

type memoryCounter struct {
	count int64
	reset time.Time
}

// memoryBackend keeps counters in process; it is also the fallback when Redis is down.
type memoryBackend struct {
	mu       sync.Mutex
	counters map[string]*memoryCounter
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{counters: make(map[string]*memoryCounter)}
}

func (b *memoryBackend) hit(_ context.Context, bucket string, reset time.Time) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	counter := b.counters[bucket]
	if counter == nil {
		counter = &memoryCounter{reset: reset}
		b.counters[bucket] = counter
	}
	counter.count++
	return counter.count, nil
}

// prune drops counters whose window ended at or before now.
func (b *memoryBackend) prune(now time.Time) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	removed := 0
	for bucket, counter := range b.counters {
		if !now.Before(counter.reset) {
			delete(b.counters, bucket)
			removed++
		}
	}
	return removed
}

func (b *memoryBackend) size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.counters)
}
