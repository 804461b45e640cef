package models

import "time"

type Category struct {
	ID              uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string     `gorm:"unique;not null" json:"name"`
	Image           string     `json:"image,omitempty"`
	DisplayOrder    int        `gorm:"default:0;index" json:"display_order"`
	IsAddonCategory bool       `gorm:"default:false" json:"is_addon_category"`
	Items           []MenuItem `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
