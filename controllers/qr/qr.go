package qrcontroller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/models"
	"github.com/junaidrashid-git/cafe-api/uploads"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const qrKind = "qr"

// HandleQRFileUpload stores a table's QR image and records it.
//
// Form fields: file, table_number.
func HandleQRFileUpload(db *gorm.DB, files *uploads.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		table := strings.TrimSpace(c.PostForm("table_number"))
		if table == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "table_number is required"})
			return
		}

		fileName, fileURL, err := files.Save(c, "file", qrKind)
		if errors.Is(err, uploads.ErrNoFile) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
			return
		}
		if err != nil {
			log.WithError(err).Error("❌ Failed to save QR file")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
			return
		}

		qr, err := models.SaveTableQR(db.WithContext(c.Request.Context()), table, fileName, fileURL)
		if err != nil {
			_ = files.Remove(fileURL)
			log.WithError(err).Error("❌ Failed to record QR file")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save QR record"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":  "File uploaded successfully",
			"file_url": fileURL,
			"data":     qr,
		})
	}
}

// GET /admin/qr
func ListQRFiles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		qrs, err := models.GetAllTableQRs(db.WithContext(c.Request.Context()))
		if err != nil {
			log.WithError(err).Error("❌ Failed to list QR files")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list QR files"})
			return
		}
		c.JSON(http.StatusOK, qrs)
	}
}
