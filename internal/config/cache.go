package config

import (
    "strings"
    "time"
)

// CacheConfig defines settings for the response cache middleware.  When
// Enabled is false or no Redis client is configured, caching is disabled.
// Methods lists the HTTP methods to cache, TTL the lifetime of entries,
// KeyStrategy which parts of the request contribute to the cache key.
type CacheConfig struct {
    Enabled      bool
    Methods      map[string]bool
    TTL          time.Duration
    KeyStrategy  string
    Prefix       string
    MaxBodyBytes int
}

// LoadCacheConfig builds a CacheConfig from the environment, falling back
// to defaults suited to the labs listing (short TTL, GET only).
func LoadCacheConfig() CacheConfig {
    return CacheConfig{
        Enabled:      envBoolDefault("CACHE_ENABLED", true),
        Methods:      parseMethods(envDefault("CACHE_METHODS", "GET")),
        TTL:          envDuration("CACHE_TTL", 30*time.Second),
        KeyStrategy:  envDefault("CACHE_KEY_STRATEGY", "route_query"),
        Prefix:       envDefault("CACHE_PREFIX", "cache"),
        MaxBodyBytes: envIntDefault("CACHE_MAX_BODY_BYTES", 1<<20),
    }
}

func parseMethods(s string) map[string]bool {
    m := map[string]bool{}
    for _, p := range strings.Split(s, ",") {
        p = strings.TrimSpace(strings.ToUpper(p))
        if p != "" {
            m[p] = true
        }
    }
    return m
}
