package models

import (
	"time"

	"github.com/lib/pq"
)

// Combo bundles several menu items at a single price in paise.
type Combo struct {
	ID          uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string        `gorm:"not null" json:"name"`
	Description string        `json:"description,omitempty"`
	Price       int64         `gorm:"not null" json:"price"`
	Image       string        `json:"image,omitempty"`
	ItemIDs     pq.Int64Array `gorm:"type:integer[]" json:"item_ids"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// TodaySpecial is a one-off dish that is not part of the regular menu.
type TodaySpecial struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Price     int64     `gorm:"not null" json:"price"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
