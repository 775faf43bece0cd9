package config

import "time"

// RateLimitConfig tunes the redis token-bucket limiter applied to
// authenticated routes.
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration
    KeyStrategy    string
    Prefix         string
    Debug          bool
}

// LoadRateLimitConfig reads the limiter settings from the environment and
// clamps them to sane values.
func LoadRateLimitConfig() RateLimitConfig {
    cfg := RateLimitConfig{
        Enabled:        envBoolDefault("RATE_LIMIT_ENABLED", true),
        Capacity:       envIntDefault("RATE_LIMIT_CAPACITY", 60),
        RefillTokens:   envIntDefault("RATE_LIMIT_REFILL_TOKENS", 1),
        RefillInterval: envDuration("RATE_LIMIT_REFILL_INTERVAL", time.Second),
        TTL:            envDuration("RATE_LIMIT_TTL", 10*time.Minute),
        KeyStrategy:    envDefault("RATE_LIMIT_KEY_STRATEGY", "ip_user_route"),
        Prefix:         envDefault("RATE_LIMIT_PREFIX", "rl"),
        Debug:          envBoolDefault("RATE_LIMIT_DEBUG", false),
    }
    if cfg.Capacity < 1 {
        cfg.Capacity = 1
    }
    if cfg.RefillTokens < 1 {
        cfg.RefillTokens = 1
    }
    if cfg.RefillInterval <= 0 {
        cfg.RefillInterval = time.Second
    }
    if minTTL := 5 * cfg.RefillInterval; cfg.TTL < minTTL {
        cfg.TTL = minTTL
    }
    return cfg
}
