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

const addonKind = "addons"

// applyAddonScope reads is_global, category_ids and item_ids. A scoped
// add-on must name at least one category or item.
func applyAddonScope(c *gin.Context, addon *models.Addon) (string, bool) {
	global, err := formBool(c, "is_global", addon.IsGlobal)
	if err != nil {
		return err.Error(), false
	}
	addon.IsGlobal = global

	if raw, ok := c.GetPostForm("category_ids"); ok {
		ids, err := parseIDList(raw)
		if err != nil {
			return err.Error(), false
		}
		addon.CategoryIDs = ids
	}
	if raw, ok := c.GetPostForm("item_ids"); ok {
		ids, err := parseIDList(raw)
		if err != nil {
			return err.Error(), false
		}
		addon.ItemIDs = ids
	}
	if !addon.IsGlobal && len(addon.CategoryIDs) == 0 && len(addon.ItemIDs) == 0 {
		return "a scoped add-on needs category_ids or item_ids", false
	}
	return "", true
}

// GET /admin/addons
func GetAllAddons(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var addons []models.Addon
		if err := db.Order("name ASC").Find(&addons).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch add-ons"})
			return
		}
		c.JSON(http.StatusOK, addons)
	}
}

// POST /admin/addons
func CreateAddon(db *gorm.DB, files *uploads.Store) gin.HandlerFunc {
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

		addon := models.Addon{Name: name, Price: price, IsGlobal: true}
		if msg, ok := applyAddonScope(c, &addon); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		imageURL, ok := files.OptionalImage(c, addonKind)
		if !ok {
			return
		}
		addon.Image = imageURL

		if err := db.Create(&addon).Error; err != nil {
			log.WithError(err).Error("❌ Failed to create add-on")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create add-on"})
			return
		}
		log.WithFields(log.Fields{"addon_id": addon.ID, "global": addon.IsGlobal}).Info("➕ Add-on created")
		c.JSON(http.StatusCreated, addon)
	}
}

// PUT /admin/addons/:id
func UpdateAddon(db *gorm.DB, files *uploads.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var addon models.Addon
		if err := db.First(&addon, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Add-on not found"})
			return
		}

		if v := strings.TrimSpace(c.PostForm("name")); v != "" {
			addon.Name = v
		}
		if c.PostForm("price") != "" {
			price, err := formRupees(c, "price")
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			addon.Price = price
		}
		if msg, ok := applyAddonScope(c, &addon); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		imageURL, ok := files.OptionalImage(c, addonKind)
		if !ok {
			return
		}
		if imageURL != "" {
			_ = files.Remove(addon.Image)
			addon.Image = imageURL
		}

		if err := db.Save(&addon).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update add-on"})
			return
		}
		c.JSON(http.StatusOK, addon)
	}
}

// DELETE /admin/addons/:id
func DeleteAddon(db *gorm.DB, files *uploads.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var addon models.Addon
		if err := db.First(&addon, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Add-on not found"})
			return
		}
		if err := db.Delete(&addon).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete add-on"})
			return
		}
		_ = files.Remove(addon.Image)
		c.JSON(http.StatusOK, gin.H{"message": "Add-on deleted successfully"})
	}
}
