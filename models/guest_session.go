package models

import "time"

// GuestSession records each anonymous cart session token that was issued.
type GuestSession struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Table     string    `json:"table,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
