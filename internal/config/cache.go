package config

import "time"

// CacheConfig tunes the Redis response cache in front of the room and
// service catalogues.  Entries live under Prefix and are dropped on any
// catalogue write, so TTL only bounds staleness after out-of-band edits.
type CacheConfig struct {
	Enabled      bool          // CACHE_ENABLED
	TTL          time.Duration // CACHE_TTL
	Prefix       string        // CACHE_PREFIX
	MaxBodyBytes int           // CACHE_MAX_BODY_BYTES; larger responses are not stored
	VaryQuery    bool          // CACHE_VARY_QUERY; include the query string in the key
}

func LoadCacheConfig() CacheConfig {
	cfg := CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 5*time.Minute),
		Prefix:       envStr("CACHE_PREFIX", "catalogue"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 256<<10),
		VaryQuery:    envBool("CACHE_VARY_QUERY", true),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	return cfg
}
