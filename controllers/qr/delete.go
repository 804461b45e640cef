package qrcontroller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/models"
	"github.com/junaidrashid-git/cafe-api/uploads"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DELETE /admin/qr/:id
func DeleteQRFileHandler(db *gorm.DB, files *uploads.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || id == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
			return
		}
		db := db.WithContext(c.Request.Context())

		var qr models.TableQR
		if err := db.First(&qr, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "QR file not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query QR file"})
			return
		}

		if err := files.Remove(qr.FileURL); err != nil {
			log.WithError(err).WithField("file", qr.FileName).Error("❌ Failed to delete QR file from disk")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file from disk"})
			return
		}

		if err := db.Delete(&qr).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete QR file record"})
			return
		}

		log.WithField("file", qr.FileName).Info("🗑️ QR file deleted")
		c.JSON(http.StatusOK, gin.H{"message": "QR file deleted successfully"})
	}
}
