package store

import (
	"context"
	"fmt"

	"github.com/junaidrashid-git/cafe-api/models"
	"gorm.io/gorm"
)

// Catalog reads the menu for customers and the cart.
type Catalog struct {
	db *gorm.DB
}

func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

func preloadVariants(db *gorm.DB) *gorm.DB {
	return db.Order("item_variants.is_default DESC, item_variants.id ASC")
}

// Menu lists regular categories by display order, each with its items.
func (c *Catalog) Menu(ctx context.Context) ([]models.Category, error) {
	return c.categories(ctx, false)
}

// AddonCategories lists the categories shown as extras on the cart page.
func (c *Catalog) AddonCategories(ctx context.Context) ([]models.Category, error) {
	return c.categories(ctx, true)
}

func (c *Catalog) categories(ctx context.Context, addon bool) ([]models.Category, error) {
	var cats []models.Category
	err := c.db.WithContext(ctx).
		Where("is_addon_category = ?", addon).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("menu_items.id ASC") }).
		Preload("Items.Variants", preloadVariants).
		Order("display_order ASC, id ASC").
		Find(&cats).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// Item loads one menu item with its variants.
func (c *Catalog) Item(ctx context.Context, id uint) (models.MenuItem, error) {
	var item models.MenuItem
	err := c.db.WithContext(ctx).Preload("Variants", preloadVariants).First(&item, id).Error
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("item %d: %w", id, notFound(err))
	}
	return item, nil
}

// ItemsByIDs loads items with variants, in id order.
func (c *Catalog) ItemsByIDs(ctx context.Context, ids []uint) ([]models.MenuItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.MenuItem
	err := c.db.WithContext(ctx).
		Preload("Variants", preloadVariants).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("items by id: %w", err)
	}
	return items, nil
}

// AddonsFor lists add-ons that apply to item: global ones, plus those scoped
// to its category or to the item itself.
func (c *Catalog) AddonsFor(ctx context.Context, item models.MenuItem) ([]models.Addon, error) {
	var addons []models.Addon
	err := c.db.WithContext(ctx).
		Where("is_global = ? OR ? = ANY(category_ids) OR ? = ANY(item_ids)", true, item.CategoryID, item.ID).
		Order("name ASC").
		Find(&addons).Error
	if err != nil {
		return nil, fmt.Errorf("addons for item %d: %w", item.ID, err)
	}
	return addons, nil
}

// AddonsByIDs loads add-ons by id.
func (c *Catalog) AddonsByIDs(ctx context.Context, ids []uint) ([]models.Addon, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var addons []models.Addon
	if err := c.db.WithContext(ctx).Where("id IN ?", ids).Find(&addons).Error; err != nil {
		return nil, fmt.Errorf("addons by id: %w", err)
	}
	return addons, nil
}

// Specials returns today's one-off specials and regular items flagged special.
func (c *Catalog) Specials(ctx context.Context) ([]models.TodaySpecial, []models.MenuItem, error) {
	var specials []models.TodaySpecial
	if err := c.db.WithContext(ctx).Order("created_at DESC").Find(&specials).Error; err != nil {
		return nil, nil, fmt.Errorf("list specials: %w", err)
	}
	var items []models.MenuItem
	err := c.db.WithContext(ctx).
		Preload("Variants", preloadVariants).
		Where("is_special = ?", true).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, nil, fmt.Errorf("list special items: %w", err)
	}
	return specials, items, nil
}

func (c *Catalog) Special(ctx context.Context, id uint) (models.TodaySpecial, error) {
	var s models.TodaySpecial
	if err := c.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return models.TodaySpecial{}, fmt.Errorf("special %d: %w", id, notFound(err))
	}
	return s, nil
}

func (c *Catalog) Combos(ctx context.Context) ([]models.Combo, error) {
	var combos []models.Combo
	if err := c.db.WithContext(ctx).Order("created_at DESC").Find(&combos).Error; err != nil {
		return nil, fmt.Errorf("list combos: %w", err)
	}
	return combos, nil
}

func (c *Catalog) Combo(ctx context.Context, id uint) (models.Combo, error) {
	var combo models.Combo
	if err := c.db.WithContext(ctx).First(&combo, id).Error; err != nil {
		return models.Combo{}, fmt.Errorf("combo %d: %w", id, notFound(err))
	}
	return combo, nil
}
