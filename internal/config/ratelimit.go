package config

import "time"

// RateLimitConfig tunes the Redis token bucket placed in front of the
// login endpoint and the staff API.  A client holds up to Capacity
// tokens and regains one every RefillInterval.
type RateLimitConfig struct {
	Enabled        bool          // RATE_LIMIT_ENABLED
	Capacity       int           // RATE_LIMIT_CAPACITY
	RefillInterval time.Duration // RATE_LIMIT_REFILL_INTERVAL
	Prefix         string        // RATE_LIMIT_PREFIX
}

func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        envBool("RATE_LIMIT_ENABLED", true),
		Capacity:       envInt("RATE_LIMIT_CAPACITY", 60),
		RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
		Prefix:         envStr("RATE_LIMIT_PREFIX", "rl"),
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	return cfg
}

// IdleTTL is how long an untouched bucket is kept: long enough to refill
// completely, after which a fresh bucket is equivalent.
func (c RateLimitConfig) IdleTTL() time.Duration {
	return time.Duration(c.Capacity) * c.RefillInterval
}
