package models

import (
	"time"

	"github.com/lib/pq"
)

// Addon is an extra that can ride along with a menu item. A global add-on
// applies everywhere; otherwise it is scoped to CategoryIDs and ItemIDs.
type Addon struct {
	ID          uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string        `gorm:"not null" json:"name"`
	Price       int64         `gorm:"not null" json:"price"`
	Image       string        `json:"image,omitempty"`
	IsGlobal    bool          `gorm:"not null" json:"is_global"`
	CategoryIDs pq.Int64Array `gorm:"type:integer[]" json:"category_ids"`
	ItemIDs     pq.Int64Array `gorm:"type:integer[]" json:"item_ids"`
	CreatedAt   time.Time     `json:"created_at"`
}

// AppliesTo reports whether the add-on can be chosen for item.
func (a Addon) AppliesTo(item MenuItem) bool {
	if a.IsGlobal {
		return true
	}
	for _, id := range a.CategoryIDs {
		if uint(id) == item.CategoryID {
			return true
		}
	}
	for _, id := range a.ItemIDs {
		if uint(id) == item.ID {
			return true
		}
	}
	return false
}
