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

const itemKind = "items"

// itemFlags are the on/off switches shared by create, update and toggle.
var itemFlags = []string{"is_veg", "is_special", "is_out_of_stock", "is_top_selling", "is_recommended"}

func applyItemFlags(c *gin.Context, item *models.MenuItem) error {
	targets := map[string]*bool{
		"is_veg":          &item.IsVeg,
		"is_special":      &item.IsSpecial,
		"is_out_of_stock": &item.IsOutOfStock,
		"is_top_selling":  &item.IsTopSelling,
		"is_recommended":  &item.IsRecommended,
	}
	for _, key := range itemFlags {
		v, err := formBool(c, key, *targets[key])
		if err != nil {
			return err
		}
		*targets[key] = v
	}
	return nil
}

// CreateItem adds a menu item with its variants and an optional image.
//
// Form fields: category_id, name, description, variants (JSON list of
// {size, variant, price} with price in rupees) and the item flags.
func CreateItem(db *gorm.DB, files *uploads.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimSpace(c.PostForm("name"))
		categoryID, err := strconv.ParseUint(c.PostForm("category_id"), 10, 64)
		if name == "" || err != nil || categoryID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and category_id are required"})
			return
		}
		variants, err := parseVariants(c.PostForm("variants"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		item := models.MenuItem{
			CategoryID:  uint(categoryID),
			Name:        name,
			Description: strings.TrimSpace(c.PostForm("description")),
			IsVeg:       true,
			Variants:    variants,
		}
		if err := applyItemFlags(c, &item); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var category models.Category
		if err := db.First(&category, categoryID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category does not exist"})
			return
		}

		imageURL, ok := files.OptionalImage(c, itemKind)
		if !ok {
			return
		}
		item.Image = imageURL

		if err := db.Create(&item).Error; err != nil {
			_ = files.Remove(imageURL)
			log.WithError(err).Error("❌ Failed to create menu item")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create menu item"})
			return
		}

		log.WithFields(log.Fields{"item_id": item.ID, "name": item.Name, "variants": len(item.Variants)}).Info("🍽️ Menu item created")
		c.JSON(http.StatusCreated, item)
	}
}
