package config

import (
	"os"
	"time"
)

// RateLimitConfig controls the login attempt limiter. A fixed window of
// MaxAttempts per Window is tracked per client IP; exceeding it yields a
// 429 until the window resets.
type RateLimitConfig struct {
	Enabled     bool
	MaxAttempts int
	Window      time.Duration
	Prefix      string
}

// LoadRateLimitConfig reads the limiter settings from the environment.
// Defaults follow the product rule of 5 login attempts per 15 minutes.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:     envBool("LOGIN_RATE_LIMIT_ENABLED", true),
		MaxAttempts: envInt("LOGIN_RATE_LIMIT_ATTEMPTS", 5),
		Window:      envDur("LOGIN_RATE_LIMIT_WINDOW", 15*time.Minute),
		Prefix:      envStr("LOGIN_RATE_LIMIT_PREFIX", "rl:login"),
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Window <= 0 {
		cfg.Window = 15 * time.Minute
	}
	return cfg
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
