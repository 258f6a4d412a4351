package ratelimit

import (
	"time"

	"github.com/router-for-me/storefront/internal/config"
)

// Rule names, used as the first segment of counter keys.
const (
	RuleLogin   = "login"
	RuleSupport = "support"
)

// LoginRule returns the per-IP admin login budget.
func LoginRule(cfg config.RateLimitConfig) Rule {
	return Rule{Name: RuleLogin, Limit: cfg.LoginPerMinute, Window: time.Minute}
}

// SupportRule returns the per-IP support submission budget.
func SupportRule(cfg config.RateLimitConfig) Rule {
	return Rule{Name: RuleSupport, Limit: cfg.SupportPerMinute, Window: time.Minute}
}
