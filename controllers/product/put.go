package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/models"
	"github.com/junaidrashid-git/cafe-api/uploads"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// UpdateItem edits an item. Fields left out keep their value; a "variants"
// field replaces every existing variant.
func UpdateItem(db *gorm.DB, files *uploads.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}

		var item models.MenuItem
		if err := db.Preload("Variants").First(&item, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
			return
		}

		if v := strings.TrimSpace(c.PostForm("name")); v != "" {
			item.Name = v
		}
		if v, ok := c.GetPostForm("description"); ok {
			item.Description = strings.TrimSpace(v)
		}
		if v := c.PostForm("category_id"); v != "" {
			cid, err := strconv.ParseUint(v, 10, 64)
			if err != nil || cid == 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category_id"})
				return
			}
			item.CategoryID = uint(cid)
		}
		if err := applyItemFlags(c, &item); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var newVariants []models.ItemVariant
		if raw, ok := c.GetPostForm("variants"); ok {
			vs, err := parseVariants(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			newVariants = vs
		}

		imageURL, ok := files.OptionalImage(c, itemKind)
		if !ok {
			return
		}
		oldImage := item.Image
		if imageURL != "" {
			item.Image = imageURL
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Omit("Variants").Save(&item).Error; err != nil {
				return err
			}
			if newVariants == nil {
				return nil
			}
			if err := tx.Where("menu_item_id = ?", item.ID).Delete(&models.ItemVariant{}).Error; err != nil {
				return err
			}
			for i := range newVariants {
				newVariants[i].MenuItemID = item.ID
			}
			if err := tx.Create(&newVariants).Error; err != nil {
				return err
			}
			item.Variants = newVariants
			return nil
		})
		if err != nil {
			log.WithError(err).WithField("item_id", id).Error("❌ Failed to update menu item")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update menu item"})
			return
		}
		if imageURL != "" {
			_ = files.Remove(oldImage)
		}

		log.WithField("item_id", id).Info("✏️ Menu item updated")
		c.JSON(http.StatusOK, item)
	}
}

// PATCH /admin/items/:id/flags
//
// Toggles top-selling, recommended, special, out-of-stock or veg without
// touching anything else. Takes a JSON object of booleans.
func UpdateItemFlags(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}

		var input map[string]bool
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		updates := map[string]interface{}{}
		for _, key := range itemFlags {
			if v, ok := input[key]; ok {
				updates[key] = v
			}
		}
		if len(updates) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no flags to update"})
			return
		}

		res := db.Model(&models.MenuItem{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			log.WithError(res.Error).WithField("item_id", id).Error("❌ Failed to update item flags")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item updated", "updated": updates})
	}
}
