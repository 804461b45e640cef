package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ValidateAPIKey rejects requests whose X-API-KEY header does not match key.
// An empty key rejects everything.
func ValidateAPIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !apiKeyMatches(c, key) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing API key"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func apiKeyMatches(c *gin.Context, key string) bool {
	provided := c.GetHeader("X-API-KEY")
	if key == "" || provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(key)) == 1
}
