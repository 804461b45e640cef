package productcontroller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/models"
	"github.com/junaidrashid-git/cafe-api/uploads"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const categoryKind = "categories"

type ReorderRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

// POST /admin/categories
func CreateCategory(db *gorm.DB, files *uploads.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimSpace(c.PostForm("name"))
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}
		isAddon, err := formBool(c, "is_addon_category", false)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		order, _ := strconv.Atoi(c.PostForm("display_order"))

		imageURL, ok := files.OptionalImage(c, categoryKind)
		if !ok {
			return
		}

		category := models.Category{
			Name:            name,
			Image:           imageURL,
			DisplayOrder:    order,
			IsAddonCategory: isAddon,
		}
		if err := db.Create(&category).Error; err != nil {
			log.WithError(err).Error("❌ Failed to create category")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
			return
		}

		log.WithFields(log.Fields{"category_id": category.ID, "name": name}).Info("📂 Category created")
		c.JSON(http.StatusCreated, category)
	}
}

// GET /admin/categories
func GetAllCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.Category
		if err := db.Order("display_order ASC, id ASC").Find(&categories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// PUT /admin/categories/:id
func UpdateCategory(db *gorm.DB, files *uploads.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}

		var category models.Category
		if err := db.First(&category, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}

		if v := strings.TrimSpace(c.PostForm("name")); v != "" {
			category.Name = v
		}
		if v := c.PostForm("display_order"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid display_order"})
				return
			}
			category.DisplayOrder = n
		}
		isAddon, err := formBool(c, "is_addon_category", category.IsAddonCategory)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		category.IsAddonCategory = isAddon

		imageURL, ok := files.OptionalImage(c, categoryKind)
		if !ok {
			return
		}
		if imageURL != "" {
			_ = files.Remove(category.Image)
			category.Image = imageURL
		}

		if err := db.Save(&category).Error; err != nil {
			log.WithError(err).WithField("category_id", id).Error("❌ Failed to update category")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

// PUT /admin/categories/reorder
//
// Sets display_order to each id's position in the list.
func ReorderCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ReorderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			for i, id := range req.IDs {
				res := tx.Model(&models.Category{}).Where("id = ?", id).Update("display_order", i)
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return gorm.ErrRecordNotFound
				}
			}
			return nil
		})
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		if err != nil {
			log.WithError(err).Error("❌ Failed to reorder categories")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reorder categories"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Categories reordered"})
	}
}

// DELETE /admin/categories/:id
//
// Items in the category are deleted with it.
func DeleteCategory(db *gorm.DB, files *uploads.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}

		var cat models.Category
		if err := db.Preload("Items").First(&cat, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			for _, item := range cat.Items {
				if err := deleteItemTx(tx, item.ID); err != nil {
					return err
				}
			}
			return tx.Delete(&cat).Error
		})
		if err != nil {
			log.WithError(err).WithField("category_id", id).Error("❌ Failed to delete category")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
			return
		}

		_ = files.Remove(cat.Image)
		for _, item := range cat.Items {
			_ = files.Remove(item.Image)
		}
		log.WithFields(log.Fields{"category_id": id, "items": len(cat.Items)}).Info("🗑️ Category deleted")
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
	}
}
