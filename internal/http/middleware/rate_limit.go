package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yingxuHou/MeiHuaXinYi/internal/http/response"
)

// RateLimit enforces a fixed-window per-client request cap backed by Redis.
// The window key is the client IP. A Redis outage fails open: limiting is
// protection, not a correctness gate.
func RateLimit(rdb *redis.Client, window time.Duration, max int64, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s", c.ClientIP())

		// INCR and EXPIRE travel in one transaction. The NX expiry arms the
		// window on the first hit and re-arms any key that lost its TTL, so a
		// half-armed window can never outlive its duration.
		pipe := rdb.TxPipeline()
		incr := pipe.Incr(c.Request.Context(), key)
		pipe.ExpireNX(c.Request.Context(), key, window)
		if _, err := pipe.Exec(c.Request.Context()); err != nil {
			logger.Warn("rate limiter unavailable, letting request through", zap.Error(err))
			c.Next()
			return
		}

		if incr.Val() > max {
			response.Fail(c, http.StatusTooManyRequests, response.CodeRateLimitExceeded,
				"too many requests, please try again later", nil)
			return
		}
		c.Next()
	}
}
