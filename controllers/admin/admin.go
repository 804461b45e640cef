package adminController

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// GET /admin/admins
func GetAllAdmins(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var admins []models.Admin

		if err := db.WithContext(c.Request.Context()).Order("created_at ASC").Find(&admins).Error; err != nil {
			log.WithError(err).Error("❌ Failed to fetch admins")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch admins"})
			return
		}

		c.JSON(http.StatusOK, admins)
	}
}
