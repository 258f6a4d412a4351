package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/storefront/internal/http/response"
	"github.com/router-for-me/storefront/internal/ratelimit"
	log "github.com/sirupsen/logrus"
)

// Allower checks a rule for one client.
type Allower interface {
	Allow(ctx context.Context, rule ratelimit.Rule, clientIP string) (ratelimit.Result, error)
}

// RateLimit rejects requests over rule's per-IP budget with 429 and Retry-After.
// Limiter failures let the request through.
func RateLimit(limiter Allower, rule ratelimit.Rule) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || !rule.Enabled() {
			c.Next()
			return
		}
		res, err := limiter.Allow(c.Request.Context(), rule, c.ClientIP())
		if err != nil {
			log.WithError(err).WithField("rule", rule.Name).Warn("rate limit check failed")
			c.Next()
			return
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(rule.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if !res.Allowed {
			retryAfter := int(math.Ceil(time.Until(res.Reset).Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			log.WithFields(log.Fields{"rule": rule.Name, "client_ip": c.ClientIP()}).Warn("rate limit exceeded")
			response.Message(c, http.StatusTooManyRequests, "too many requests")
			return
		}
		c.Next()
	}
}
