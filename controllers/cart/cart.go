package cartControllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/cart"
	"github.com/junaidrashid-git/cafe-api/metrics"
	"github.com/junaidrashid-git/cafe-api/middleware"
	"github.com/junaidrashid-git/cafe-api/models"
	"github.com/junaidrashid-git/cafe-api/store"
	log "github.com/sirupsen/logrus"
)

// Catalog is the slice of the menu store the cart handlers read.
type Catalog interface {
	Item(ctx context.Context, id uint) (models.MenuItem, error)
	AddonsByIDs(ctx context.Context, ids []uint) ([]models.Addon, error)
	Combo(ctx context.Context, id uint) (models.Combo, error)
	Special(ctx context.Context, id uint) (models.TodaySpecial, error)
}

type AddItemInput struct {
	ItemID    uint   `json:"item_id" binding:"required"`
	VariantID uint   `json:"variant_id"`
	AddonIDs  []uint `json:"addon_ids"`
}

type QuantityInput struct {
	Quantity *int `json:"quantity" binding:"required,max=999"`
}

type OrderTypeInput struct {
	Takeaway *bool `json:"takeaway" binding:"required"`
}

// GET /cart
func GetCart(sessions *cart.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		var snap cart.Snapshot
		sessions.Do(middleware.SessionID(c), func(e *cart.Engine) {
			snap = e.Snapshot()
		})
		metrics.CartSessionsActive.Set(float64(sessions.Len()))
		c.JSON(http.StatusOK, snap)
	}
}

// POST /cart/items
func AddItem(sessions *cart.Sessions, catalog Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		item, err := catalog.Item(c.Request.Context(), input.ItemID)
		if err != nil {
			lookupFailed(c, err, "Menu item not found")
			return
		}
		if item.IsOutOfStock {
			c.JSON(http.StatusBadRequest, gin.H{"error": item.Name + " is out of stock"})
			return
		}

		variant, ok := item.DefaultVariant()
		if input.VariantID != 0 {
			variant, ok = item.FindVariant(input.VariantID)
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Variant not found for " + item.Name})
			return
		}

		addons, err := resolveAddons(c.Request.Context(), catalog, item, input.AddonIDs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		product := cart.Product{
			ID:         strconv.FormatUint(uint64(item.ID), 10),
			Name:       item.Name,
			ImageURL:   item.Image,
			CategoryID: item.CategoryID,
		}
		cv := cart.Variant{
			ID:    strconv.FormatUint(uint64(variant.ID), 10),
			Size:  variant.Size,
			Label: variant.Variant,
			Price: cart.Paise(variant.Price),
		}
		addAndRespond(c, sessions, product, cv, addons...)
	}
}

// POST /cart/combos/:id
func AddCombo(sessions *cart.Sessions, catalog Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		combo, err := catalog.Combo(c.Request.Context(), id)
		if err != nil {
			lookupFailed(c, err, "Combo not found")
			return
		}

		ref := strconv.FormatUint(uint64(combo.ID), 10)
		product := cart.Product{ID: ref, Name: combo.Name, ImageURL: combo.Image}
		variant := cart.Variant{ID: "combo-" + ref, Label: "Combo", Price: cart.Paise(combo.Price)}
		addAndRespond(c, sessions, product, variant)
	}
}

// POST /cart/specials/:id
func AddSpecial(sessions *cart.Sessions, catalog Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		special, err := catalog.Special(c.Request.Context(), id)
		if err != nil {
			lookupFailed(c, err, "Special not found")
			return
		}

		ref := strconv.FormatUint(uint64(special.ID), 10)
		product := cart.Product{ID: ref, Name: special.Name, ImageURL: special.Image}
		variant := cart.Variant{ID: "special-" + ref, Label: "Today's special", Price: cart.Paise(special.Price)}
		addAndRespond(c, sessions, product, variant)
	}
}

// PUT /cart/items/:key
func UpdateQuantity(sessions *cart.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input QuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		key := c.Param("key")
		mutate(c, sessions, "set_quantity", func(e *cart.Engine) error {
			if limit := e.MaxLineQuantity(); *input.Quantity > limit {
				return fmt.Errorf("quantity cannot exceed %d", limit)
			}
			e.SetQuantity(key, *input.Quantity)
			return nil
		})
	}
}

// DELETE /cart/items/:key
func RemoveItem(sessions *cart.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Param("key")
		mutate(c, sessions, "remove", func(e *cart.Engine) error {
			e.Remove(key)
			return nil
		})
	}
}

// DELETE /cart
func ClearCart(sessions *cart.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		mutate(c, sessions, "clear", func(e *cart.Engine) error {
			e.Clear()
			return nil
		})
	}
}

// PUT /cart/order-type
func SetOrderType(sessions *cart.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input OrderTypeInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		mutate(c, sessions, "order_type", func(e *cart.Engine) error {
			e.SetOrderType(*input.Takeaway)
			return nil
		})
	}
}

func addAndRespond(c *gin.Context, sessions *cart.Sessions, product cart.Product, variant cart.Variant, addons ...cart.Addon) {
	var (
		line cart.LineItem
		snap cart.Snapshot
	)
	sid := middleware.SessionID(c)
	err := sessions.With(sid, func(e *cart.Engine) error {
		limit := e.MaxLineQuantity()
		if existing, ok := e.Item(cart.Key(product.ID, variant.ID)); ok && existing.Quantity >= limit {
			return fmt.Errorf("%s is limited to %d per order", product.Name, limit)
		}
		line = e.Add(product, variant, addons...)
		snap = e.Snapshot()
		return nil
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	metrics.CartMutations.WithLabelValues("add").Inc()
	metrics.CartSessionsActive.Set(float64(sessions.Len()))

	log.WithFields(log.Fields{
		"session_id": sid,
		"key":        line.Key,
		"quantity":   line.Quantity,
	}).Debug("🛒 Item added to cart")
	c.JSON(http.StatusOK, snap)
}

func mutate(c *gin.Context, sessions *cart.Sessions, op string, fn func(*cart.Engine) error) {
	var snap cart.Snapshot
	err := sessions.With(middleware.SessionID(c), func(e *cart.Engine) error {
		if err := fn(e); err != nil {
			return err
		}
		snap = e.Snapshot()
		return nil
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	metrics.CartMutations.WithLabelValues(op).Inc()
	c.JSON(http.StatusOK, snap)
}

func resolveAddons(ctx context.Context, catalog Catalog, item models.MenuItem, ids []uint) ([]cart.Addon, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := catalog.AddonsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Addon, len(found))
	for _, a := range found {
		byID[a.ID] = a
	}

	out := make([]cart.Addon, 0, len(ids))
	for _, id := range ids {
		a, ok := byID[id]
		if !ok {
			return nil, errors.New("unknown add-on " + strconv.FormatUint(uint64(id), 10))
		}
		if !a.AppliesTo(item) {
			return nil, errors.New(a.Name + " cannot be added to " + item.Name)
		}
		out = append(out, cart.Addon{
			ID:    strconv.FormatUint(uint64(a.ID), 10),
			Name:  a.Name,
			Price: cart.Paise(a.Price),
		})
	}
	return out, nil
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}

func lookupFailed(c *gin.Context, err error, notFoundMsg string) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
		return
	}
	log.WithError(err).Error("❌ Catalog lookup failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load menu"})
}
