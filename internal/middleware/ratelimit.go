package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/command-center/internal/config"
	"github.com/stemsi/command-center/internal/response"
)

// RateLimiter counts requests per client IP in fixed windows stored in
// Redis, so the limit holds across API instances.
type RateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	log    zerolog.Logger
	now    func() time.Time
}

// NewRateLimiter allows `limit` requests per client IP per `window`.
func NewRateLimiter(rdb *redis.Client, limit int, window time.Duration, log zerolog.Logger) *RateLimiter {
	if window < time.Second {
		window = time.Minute
	}
	return &RateLimiter{
		rdb:    rdb,
		limit:  limit,
		window: window,
		log:    log.With().Str("component", "rate_limiter").Logger(),
		now:    time.Now,
	}
}

// Middleware returns a Gin middleware that rate-limits requests by IP.
// Redis failures let the request through.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		now := rl.now()
		windowSecs := int64(rl.window / time.Second)
		windowIdx := now.Unix() / windowSecs
		key := config.CacheKey.LoginAttemptsKey(c.ClientIP(), windowIdx)

		pipe := rl.rdb.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, rl.window)
		if _, err := pipe.Exec(ctx); err != nil {
			rl.log.Warn().Err(err).Msg("Rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		if incr.Val() > int64(rl.limit) {
			retryAfter := (windowIdx+1)*windowSecs - now.Unix()
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			rl.log.Warn().Str("ip", c.ClientIP()).Int64("count", incr.Val()).Msg("Rate limit exceeded")
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}

		c.Next()
	}
}
