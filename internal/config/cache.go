package config

import (
	"strings"
	"time"
)

// CacheConfig defines settings for the response cache middleware that sits in
// front of the public sprint and event catalog.  When Enabled is false or no
// Redis client is configured, caching is disabled.  Methods lists the HTTP
// methods to cache (e.g. GET, HEAD).  TTL defines the lifetime of cache
// entries.  KeyStrategy determines which parts of the request contribute to
// the cache key.  Prefix namespaces the keys so admin mutations can purge
// every catalog entry at once.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	KeyStrategy  string
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.  Defaults
// apply when variables are unset or malformed.
func LoadCacheConfig() CacheConfig {
	methods := map[string]bool{}
	for _, m := range splitList(envStr("CACHE_METHODS", "GET")) {
		methods[strings.ToUpper(m)] = true
	}
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      methods,
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       envStr("CACHE_PREFIX", "catalog"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}
