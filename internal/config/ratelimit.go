package config

import (
	"time"
)

// RateLimitConfig tunes the per-client-IP fixed window limiter that
// fronts every /api route. The defaults allow 100 requests per hour
// from one address, matching the budget the API has always shipped with.
type RateLimitConfig struct {
	Enabled bool          // turn the limiter off entirely (tests, local dev)
	Max     int           // requests allowed per window
	Window  time.Duration // window length
	Prefix  string        // key prefix in Redis
}

// LoadRateLimitConfig reads the limiter settings from environment
// variables, falling back to the defaults.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled: envBool("RATE_LIMIT_ENABLED", true),
		Max:     envInt("RATE_LIMIT_MAX", 100),
		Window:  envDur("RATE_LIMIT_WINDOW", time.Hour),
		Prefix:  envStr("RATE_LIMIT_PREFIX", "rl"),
	}
	if cfg.Max < 1 {
		cfg.Max = 1
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Hour
	}
	return cfg
}
