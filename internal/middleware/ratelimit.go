package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/hotel-reservation/internal/config"
)

// takeToken refills the bucket in KEYS[1] for the time elapsed since its
// last update and takes one token.  ARGV: now_ms, capacity, interval_ms,
// ttl_ms.  Returns {allowed, remaining, retry_after_ms}.
var takeToken = redis.NewScript(`
local now, cap, step, ttl = tonumber(ARGV[1]), tonumber(ARGV[2]), tonumber(ARGV[3]), tonumber(ARGV[4])
local b = redis.call('HMGET', KEYS[1], 't', 'at')
local tokens, at = tonumber(b[1]) or cap, tonumber(b[2]) or now
local gained = math.floor((now - at) / step)
if gained > 0 then
  tokens = math.min(cap, tokens + gained)
  at = at + gained * step
end
if tokens >= cap then at = now end
local ok, wait = 0, step - (now - at)
if tokens > 0 then
  ok, wait, tokens = 1, 0, tokens - 1
end
redis.call('HSET', KEYS[1], 't', tokens, 'at', at)
redis.call('PEXPIRE', KEYS[1], ttl)
return {ok, tokens, wait}
`)

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

// NewTokenBucket limits requests per client and route.  Clients are
// identified by user id once authenticated and by IP otherwise.  It is
// a no-op without Redis and lets requests through when Redis fails.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, log logrus.FieldLogger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateKey(cfg.Prefix, c)
			res, err := takeToken.Run(c.Request().Context(), rdb, []string{key},
				time.Now().UnixMilli(), cfg.Capacity, cfg.RefillInterval.Milliseconds(), cfg.IdleTTL().Milliseconds(),
			).Int64Slice()
			if err != nil || len(res) != 3 {
				log.WithError(err).WithField("key", key).Warn("ratelimit: script failed, allowing request")
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(res[1], 10))
			if res[0] == 1 {
				return next(c)
			}
			h.Set("Retry-After", strconv.FormatInt(retryAfterSeconds(res[2]), 10))
			return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "rate limit exceeded"})
		}
	}
}

// retryAfterSeconds rounds a wait in milliseconds up to whole seconds.
func retryAfterSeconds(ms int64) int64 {
	if ms <= 0 {
		return 0
	}
	return (ms + 999) / 1000
}

func rateKey(prefix string, c echo.Context) string {
	who := "ip:" + c.RealIP()
	if _, ok := UserID(c); ok {
		who = "user:" + userKey(c)
	}
	return prefix + ":" + who + ":" + c.Request().Method + " " + c.Path()
}
