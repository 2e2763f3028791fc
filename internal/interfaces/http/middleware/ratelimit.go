package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/techdesk-io/techdesk/internal/infrastructure/ratelimit"
	"github.com/techdesk-io/techdesk/internal/shared/logger"
	"github.com/techdesk-io/techdesk/internal/shared/utils"
)

const rateLimitCheckTimeout = 2 * time.Second

type SubmissionRateLimitMiddleware struct {
	limiter ratelimit.RateLimiter
	limits  ratelimit.Limits
	logger  logger.Interface
}

func NewSubmissionRateLimitMiddleware(
	limiter ratelimit.RateLimiter,
	limits ratelimit.Limits,
	logger logger.Interface,
) *SubmissionRateLimitMiddleware {
	return &SubmissionRateLimitMiddleware{
		limiter: limiter,
		limits:  limits,
		logger:  logger,
	}
}

// LimitByClientIP rejects submissions over the per-client limits with 429.
// When the limiter backend is unavailable the request is let through.
func (m *SubmissionRateLimitMiddleware) LimitByClientIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		key := "submit:" + clientIP

		ctx, cancel := context.WithTimeout(c.Request.Context(), rateLimitCheckTimeout)
		defer cancel()

		allowed, err := m.limiter.Allow(ctx, key, m.limits)
		if err != nil {
			m.logger.Warnw("rate limit check failed, allowing request",
				"error", err,
				"client_ip", clientIP,
			)
			c.Next()
			return
		}

		if !allowed {
			m.logger.Warnw("submission rate limit exceeded",
				"client_ip", clientIP,
				"requests_per_minute", m.limits.RequestsPerMinute,
				"requests_per_hour", m.limits.RequestsPerHour,
			)

			c.Header("Retry-After", strconv.Itoa(int(time.Minute.Seconds())))
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
