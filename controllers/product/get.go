package productcontroller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/models"
	"github.com/junaidrashid-git/cafe-api/store"
	log "github.com/sirupsen/logrus"
)

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}

// GET /menu/items/:id
func GetItem(menu MenuReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		item, err := menu.Item(c.Request.Context(), id)
		if err != nil {
			itemLookupFailed(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// GET /menu/items/:id/addons
func GetItemAddons(menu MenuReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		item, err := menu.Item(ctx, id)
		if err != nil {
			itemLookupFailed(c, err)
			return
		}
		addons, err := menu.AddonsFor(ctx, item)
		if err != nil {
			log.WithError(err).WithField("item_id", id).Error("❌ Failed to fetch add-ons")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch add-ons"})
			return
		}
		if addons == nil {
			addons = []models.Addon{}
		}
		c.JSON(http.StatusOK, addons)
	}
}

func itemLookupFailed(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	log.WithError(err).Error("❌ Failed to fetch menu item")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch menu item"})
}
