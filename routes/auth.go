package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/auth"
)

// SetupAuthRoutes registers all “/auth/*” endpoints.
func SetupAuthRoutes(r *gin.Engine, d Deps) {
	authGroup := r.Group("/auth")
	{
		// Guest cart session for a table
		authGroup.POST("/session", auth.CreateGuestSession(d.DB, d.Issuer))

		// Staff sign-in with Google
		authGroup.POST("/google-admin", auth.GoogleAdminLogin(d.DB, d.Verifier, d.Issuer, d.SuperAdminEmail))
	}
}
