package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/models"
	"github.com/junaidrashid-git/cafe-api/uploads"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func deleteItemTx(tx *gorm.DB, id uint) error {
	if err := tx.Where("menu_item_id = ?", id).Delete(&models.ItemVariant{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.MenuItem{}, id).Error
}

// DELETE /admin/items/:id
func DeleteItem(db *gorm.DB, files *uploads.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}

		var item models.MenuItem
		if err := db.First(&item, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
			return
		}

		if err := db.Transaction(func(tx *gorm.DB) error { return deleteItemTx(tx, id) }); err != nil {
			log.WithError(err).WithField("item_id", id).Error("❌ Failed to delete menu item")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete menu item"})
			return
		}
		_ = files.Remove(item.Image)

		log.WithField("item_id", id).Info("🗑️ Menu item deleted")
		c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted successfully"})
	}
}
