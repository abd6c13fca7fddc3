package middleware

import "github.com/gin-gonic/gin"

// NoCacheMiddleware marks live collection reads as uncacheable; the
// in-memory collection changes out from under any intermediary cache.
func NoCacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
