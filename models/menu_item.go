package models

import "time"

// MenuItem is a dish or drink on the menu. Prices live on its variants.
type MenuItem struct {
	ID            uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID    uint          `gorm:"index;not null" json:"category_id"`
	Name          string        `gorm:"not null" json:"name"`
	Description   string        `json:"description,omitempty"`
	Image         string        `json:"image,omitempty"`
	IsVeg         bool          `gorm:"not null" json:"is_veg"`
	IsSpecial     bool          `gorm:"default:false" json:"is_special"`
	IsOutOfStock  bool          `gorm:"default:false" json:"is_out_of_stock"`
	IsTopSelling  bool          `gorm:"default:false" json:"is_top_selling"`
	IsRecommended bool          `gorm:"default:false" json:"is_recommended"`
	Variants      []ItemVariant `gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE" json:"variants"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// ItemVariant is one priced size/style of a MenuItem. Price is in paise.
type ItemVariant struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	MenuItemID uint   `gorm:"index;not null" json:"menu_item_id"`
	Size       string `json:"size,omitempty"`
	Variant    string `json:"variant,omitempty"`
	Price      int64  `gorm:"not null" json:"price"`
	IsDefault  bool   `gorm:"default:false" json:"is_default"`
}

// DefaultVariant returns the variant flagged default, else the first one.
func (m MenuItem) DefaultVariant() (ItemVariant, bool) {
	for _, v := range m.Variants {
		if v.IsDefault {
			return v, true
		}
	}
	if len(m.Variants) > 0 {
		return m.Variants[0], true
	}
	return ItemVariant{}, false
}

// FindVariant looks a variant up by id.
func (m MenuItem) FindVariant(id uint) (ItemVariant, bool) {
	for _, v := range m.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return ItemVariant{}, false
}
