package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/junaidrashid-git/cafe-api/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// POST /auth/session
func CreateGuestSession(db *gorm.DB, issuer *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Table string `json:"table"`
		}
		_ = c.ShouldBindJSON(&req)

		sessionID := uuid.NewString()
		token, expiresAt, err := issuer.GuestToken(sessionID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		session := models.GuestSession{
			ID:        sessionID,
			Table:     req.Table,
			UserAgent: c.Request.UserAgent(),
			ExpiresAt: expiresAt,
		}
		if err := db.WithContext(c.Request.Context()).Create(&session).Error; err != nil {
			log.WithError(err).Error("❌ Failed to record guest session")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"session_id": sessionID,
			"token":      token,
			"expires_at": expiresAt,
		})
	}
}
