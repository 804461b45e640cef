package productcontroller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/cart"
	"github.com/junaidrashid-git/cafe-api/models"
	log "github.com/sirupsen/logrus"
)

// MenuReader is the read side of the menu served to customers.
type MenuReader interface {
	Menu(ctx context.Context) ([]models.Category, error)
	AddonCategories(ctx context.Context) ([]models.Category, error)
	Item(ctx context.Context, id uint) (models.MenuItem, error)
	ItemsByIDs(ctx context.Context, ids []uint) ([]models.MenuItem, error)
	AddonsFor(ctx context.Context, item models.MenuItem) ([]models.Addon, error)
	Specials(ctx context.Context) ([]models.TodaySpecial, []models.MenuItem, error)
	Combos(ctx context.Context) ([]models.Combo, error)
}

// ComboView is a combo with the items it bundles and what it saves over
// buying them separately at their default variant prices.
type ComboView struct {
	models.Combo
	Items           []models.MenuItem `json:"items"`
	IndividualTotal int64             `json:"individual_total"`
	Saving          int64             `json:"saving"`
	SavingRupees    string            `json:"saving_rupees"`
}

// GET /menu
func GetMenu(menu MenuReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := menu.Menu(c.Request.Context())
		if err != nil {
			log.WithError(err).Error("❌ Failed to fetch menu")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch menu"})
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// GET /menu/addon-categories
func GetAddonCategories(menu MenuReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := menu.AddonCategories(c.Request.Context())
		if err != nil {
			log.WithError(err).Error("❌ Failed to fetch add-on categories")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch add-on categories"})
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// GET /menu/specials
func GetSpecials(menu MenuReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		specials, items, err := menu.Specials(c.Request.Context())
		if err != nil {
			log.WithError(err).Error("❌ Failed to fetch specials")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch specials"})
			return
		}
		if specials == nil {
			specials = []models.TodaySpecial{}
		}
		if items == nil {
			items = []models.MenuItem{}
		}
		c.JSON(http.StatusOK, gin.H{"specials": specials, "items": items})
	}
}

// GET /menu/combos
func GetCombos(menu MenuReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		combos, err := menu.Combos(ctx)
		if err != nil {
			log.WithError(err).Error("❌ Failed to fetch combos")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch combos"})
			return
		}

		views := make([]ComboView, 0, len(combos))
		for _, combo := range combos {
			ids := make([]uint, 0, len(combo.ItemIDs))
			for _, id := range combo.ItemIDs {
				ids = append(ids, uint(id))
			}
			items, err := menu.ItemsByIDs(ctx, ids)
			if err != nil {
				log.WithError(err).WithField("combo_id", combo.ID).Error("❌ Failed to fetch combo items")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch combos"})
				return
			}
			views = append(views, NewComboView(combo, items))
		}
		c.JSON(http.StatusOK, views)
	}
}

// NewComboView prices a combo against its items. The saving never goes
// below zero.
func NewComboView(combo models.Combo, items []models.MenuItem) ComboView {
	if items == nil {
		items = []models.MenuItem{}
	}
	var individual int64
	for _, it := range items {
		if v, ok := it.DefaultVariant(); ok {
			individual += v.Price
		}
	}
	saving := individual - combo.Price
	if saving < 0 {
		saving = 0
	}
	return ComboView{
		Combo:           combo,
		Items:           items,
		IndividualTotal: individual,
		Saving:          saving,
		SavingRupees:    cart.Paise(saving).Rupees().StringFixed(2),
	}
}
