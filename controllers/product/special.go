package productcontroller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/models"
	"github.com/junaidrashid-git/cafe-api/uploads"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const specialKind = "specials"

// POST /admin/specials
func CreateSpecial(db *gorm.DB, files *uploads.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimSpace(c.PostForm("name"))
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}
		price, err := formRupees(c, "price")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		imageURL, ok := files.OptionalImage(c, specialKind)
		if !ok {
			return
		}

		special := models.TodaySpecial{Name: name, Price: price, Image: imageURL}
		if err := db.Create(&special).Error; err != nil {
			log.WithError(err).Error("❌ Failed to create special")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create special"})
			return
		}
		log.WithField("special_id", special.ID).Info("⭐ Today's special added")
		c.JSON(http.StatusCreated, special)
	}
}

// PUT /admin/specials/:id
func UpdateSpecial(db *gorm.DB, files *uploads.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var special models.TodaySpecial
		if err := db.First(&special, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Special not found"})
			return
		}

		if v := strings.TrimSpace(c.PostForm("name")); v != "" {
			special.Name = v
		}
		if c.PostForm("price") != "" {
			price, err := formRupees(c, "price")
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			special.Price = price
		}
		imageURL, ok := files.OptionalImage(c, specialKind)
		if !ok {
			return
		}
		if imageURL != "" {
			_ = files.Remove(special.Image)
			special.Image = imageURL
		}

		if err := db.Save(&special).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update special"})
			return
		}
		c.JSON(http.StatusOK, special)
	}
}

// DELETE /admin/specials/:id
func DeleteSpecial(db *gorm.DB, files *uploads.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var special models.TodaySpecial
		if err := db.First(&special, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Special not found"})
			return
		}
		if err := db.Delete(&special).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete special"})
			return
		}
		_ = files.Remove(special.Image)
		c.JSON(http.StatusOK, gin.H{"message": "Special deleted successfully"})
	}
}
