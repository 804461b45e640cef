package adminController

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ApprovalRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func bindApproval(c *gin.Context) (string, bool) {
	var req ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return "", false
	}
	return strings.TrimSpace(req.Email), true
}

// ListPendingAdmins returns all admins awaiting approval.
func ListPendingAdmins(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var pending []models.Admin
		if err := db.WithContext(c.Request.Context()).Where("approved = ?", false).Order("created_at ASC").Find(&pending).Error; err != nil {
			log.WithError(err).Error("❌ Failed to fetch pending admins")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending admins"})
			return
		}
		c.JSON(http.StatusOK, pending)
	}
}

// POST /admin/admins/approve
func ApproveAdmin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := bindApproval(c)
		if !ok {
			return
		}

		res := db.WithContext(c.Request.Context()).Model(&models.Admin{}).Where("email = ?", email).Update("approved", true)
		if res.Error != nil {
			log.WithError(res.Error).Error("❌ Failed to approve admin")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve admin"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Admin not found"})
			return
		}

		log.WithField("email", email).Info("✅ Admin approved")
		c.JSON(http.StatusOK, gin.H{"message": "Admin approved"})
	}
}

// POST /admin/admins/reject
//
// Rejecting removes the registration; the person can sign in again later
// and will be pending once more.
func RejectAdmin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := bindApproval(c)
		if !ok {
			return
		}

		res := db.WithContext(c.Request.Context()).Where("email = ?", email).Delete(&models.Admin{})
		if res.Error != nil {
			log.WithError(res.Error).Error("❌ Failed to reject admin")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject admin"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Admin not found"})
			return
		}

		log.WithField("email", email).Info("🚫 Admin rejected")
		c.JSON(http.StatusOK, gin.H{"message": "Admin rejected"})
	}
}
