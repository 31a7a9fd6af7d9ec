package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// APITokenAuth guards management endpoints with a static shared token
// supplied in the X-API-Token header. Comparison is constant time.
func APITokenAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("X-API-Token")
		if header == "" || subtle.ConstantTimeCompare([]byte(header), []byte(token)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "invalid or missing API token",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
