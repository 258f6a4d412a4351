// Package ratelimit enforces per-client request budgets on abuse-prone endpoints.
package ratelimit

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// Result is the outcome of one counted request.
type Result struct {
	Allowed   bool
	Remaining int
	Reset     time.Time
}

// Rule is a named budget of Limit requests per Window, counted per client.
type Rule struct {
	Name   string
	Limit  int
	Window time.Duration
}

// Enabled reports whether the rule limits anything.
func (r Rule) Enabled() bool {
	return r.Limit > 0 && r.Window > 0
}

// bucket returns the counter key for client in the window containing now, and when that window ends.
func (r Rule) bucket(client string, now time.Time) (string, time.Time) {
	size := r.Window.Nanoseconds()
	if size <= 0 {
		size = int64(time.Second)
	}
	idx := now.UnixNano() / size
	return r.Name + ":" + client + ":" + strconv.FormatInt(idx, 10), time.Unix(0, (idx+1)*size).UTC()
}

// outcome converts a post-increment count into a Result.
func (r Rule) outcome(count int64, reset time.Time) Result {
	if count > int64(r.Limit) {
		return Result{Allowed: false, Remaining: 0, Reset: reset}
	}
	return Result{Allowed: true, Remaining: r.Limit - int(count), Reset: reset}
}

// backend counts hits on a bucket that expires at reset.
type backend interface {
	hit(ctx context.Context, bucket string, reset time.Time) (int64, error)
}

func normalizeClient(clientIP string) string {
	return strings.TrimSpace(clientIP)
}
