package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/auth"
)

const (
	sessionIDKey = "session_id"
	claimsKey    = "claims"
)

// bearerToken reads the Authorization header, falling back to a token query
// parameter for websocket upgrades.
func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return c.Query("token")
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

// RequireSession accepts a guest cart token and stores its session id on the
// context.
func RequireSession(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			c.Abort()
			return
		}

		claims, err := issuer.Parse(tokenString)
		if err != nil || claims.SessionID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			c.Abort()
			return
		}

		c.Set(sessionIDKey, claims.SessionID)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireAdmin lets a request through with either the admin API key or an
// admin JWT.
func RequireAdmin(issuer *auth.Issuer, apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKeyMatches(c, apiKey) {
			c.Set(claimsKey, &auth.Claims{Role: auth.RoleSuperAdmin})
			c.Next()
			return
		}

		tokenString := bearerToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Admin credentials required"})
			c.Abort()
			return
		}
		claims, err := issuer.Parse(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}
		if !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireSuperAdmin must run after RequireAdmin.
func RequireSuperAdmin(c *gin.Context) {
	claims := Claims(c)
	if claims == nil || claims.Role != auth.RoleSuperAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Super admin access required"})
		c.Abort()
		return
	}
	c.Next()
}

// SessionID returns the cart session set by RequireSession.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

// Claims returns the token claims set by RequireSession or RequireAdmin.
func Claims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}
