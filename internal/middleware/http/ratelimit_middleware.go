package http

import (
	"net/http"

	"gst_billing/internal/limiter"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LimiterSource hands out the limiter for a named policy. *limiter.Manager implements it.
type LimiterSource interface {
	Get(name string) limiter.Limiter
}

// RateLimit creates a rate-limiting middleware for a specific policy.
// Callers are identified by client IP since the API has no authentication.
func RateLimit(limiterManager LimiterSource, policyName string, logger *zap.Logger) gin.HandlerFunc {
	// Get the specific limiter for the policy once.
	l := limiterManager.Get(policyName)
	log := logger.Named("RateLimit").With(zap.String("policy", policyName))

	return func(c *gin.Context) {
		allowed, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Error("failed to check rate limit", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to check rate limit"})
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too Many Requests"})
			return
		}

		c.Next()
	}
}
