package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"afford-tracker/internal/ratelimit"
)

// RateLimiter counts requests per client IP and route. When the limiter
// backend fails the request is let through.
func RateLimiter(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.FullPath() + ":" + c.ClientIP()

		ok, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Printf("rate limiter unavailable: %v", err)
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
