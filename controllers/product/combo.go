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

const comboKind = "combos"

// checkItemsExist reports whether every id names a menu item.
func checkItemsExist(db *gorm.DB, ids []int64) (bool, error) {
	if len(ids) == 0 {
		return false, nil
	}
	var n int64
	if err := db.Model(&models.MenuItem{}).Where("id IN ?", ids).Count(&n).Error; err != nil {
		return false, err
	}
	distinct := map[int64]struct{}{}
	for _, id := range ids {
		distinct[id] = struct{}{}
	}
	return n == int64(len(distinct)), nil
}

// POST /admin/combos
//
// Form fields: name, description, price (rupees), item_ids ("1,2,3"), image.
func CreateCombo(db *gorm.DB, files *uploads.Store) gin.HandlerFunc {
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
		ids, err := parseIDList(c.PostForm("item_ids"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		exists, err := checkItemsExist(db, ids)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate items"})
			return
		}
		if !exists {
			c.JSON(http.StatusBadRequest, gin.H{"error": "item_ids must name existing menu items"})
			return
		}

		imageURL, ok := files.OptionalImage(c, comboKind)
		if !ok {
			return
		}
		combo := models.Combo{
			Name:        name,
			Description: strings.TrimSpace(c.PostForm("description")),
			Price:       price,
			Image:       imageURL,
			ItemIDs:     ids,
		}
		if err := db.Create(&combo).Error; err != nil {
			log.WithError(err).Error("❌ Failed to create combo")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create combo"})
			return
		}
		log.WithFields(log.Fields{"combo_id": combo.ID, "items": len(ids)}).Info("🍱 Combo created")
		c.JSON(http.StatusCreated, combo)
	}
}

// PUT /admin/combos/:id
func UpdateCombo(db *gorm.DB, files *uploads.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var combo models.Combo
		if err := db.First(&combo, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Combo not found"})
			return
		}

		if v := strings.TrimSpace(c.PostForm("name")); v != "" {
			combo.Name = v
		}
		if v, ok := c.GetPostForm("description"); ok {
			combo.Description = strings.TrimSpace(v)
		}
		if c.PostForm("price") != "" {
			price, err := formRupees(c, "price")
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			combo.Price = price
		}
		if raw := c.PostForm("item_ids"); raw != "" {
			ids, err := parseIDList(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			exists, err := checkItemsExist(db, ids)
			if err != nil || !exists {
				c.JSON(http.StatusBadRequest, gin.H{"error": "item_ids must name existing menu items"})
				return
			}
			combo.ItemIDs = ids
		}

		imageURL, ok := files.OptionalImage(c, comboKind)
		if !ok {
			return
		}
		if imageURL != "" {
			_ = files.Remove(combo.Image)
			combo.Image = imageURL
		}

		if err := db.Save(&combo).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update combo"})
			return
		}
		c.JSON(http.StatusOK, combo)
	}
}

// DELETE /admin/combos/:id
func DeleteCombo(db *gorm.DB, files *uploads.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var combo models.Combo
		if err := db.First(&combo, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Combo not found"})
			return
		}
		if err := db.Delete(&combo).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete combo"})
			return
		}
		_ = files.Remove(combo.Image)
		c.JSON(http.StatusOK, gin.H{"message": "Combo deleted successfully"})
	}
}
