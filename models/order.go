package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"   // Placed, kitchen has not started
	OrderStatusPreparing OrderStatus = "preparing" // Kitchen is working on it
	OrderStatusReady     OrderStatus = "ready"     // Waiting at the counter
	OrderStatusDelivered OrderStatus = "delivered" // Served and paid
	OrderStatusDeleted   OrderStatus = "deleted"   // Soft-deleted by staff
)

// Valid reports whether s is a status staff may set directly.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady, OrderStatusDelivered:
		return true
	}
	return false
}

// Active is true until the order has been delivered or deleted.
func (s OrderStatus) Active() bool {
	return s != OrderStatusDelivered && s != OrderStatusDeleted
}

// OrderVariant is the variant snapshot stored with each ordered line.
type OrderVariant struct {
	Size    string `json:"size,omitempty"`
	Variant string `json:"variant,omitempty"`
	Price   int64  `json:"price"`
}

type OrderAddon struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// OrderItem is a snapshot of a cart line taken at checkout.
type OrderItem struct {
	Quantity  int          `json:"quantity"`
	Name      string       `json:"name"`
	Variant   OrderVariant `json:"variant"`
	Addons    []OrderAddon `json:"addons,omitempty"`
	LineTotal int64        `json:"line_total"`
}

// Address is who the order is for and where it goes.
type Address struct {
	Name       string `json:"name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	FlatNumber string `json:"flatNumber,omitempty"`
	Table      string `json:"table,omitempty"`
}

// CustomerKey groups orders into one bill: phone, else name, else table.
func (a Address) CustomerKey() string {
	switch {
	case strings.TrimSpace(a.Phone) != "":
		return strings.TrimSpace(a.Phone)
	case strings.TrimSpace(a.Name) != "":
		return strings.TrimSpace(a.Name)
	case strings.TrimSpace(a.Table) != "":
		return "Table " + strings.TrimSpace(a.Table)
	default:
		return "Unknown"
	}
}

// Order amounts are in paise.
type Order struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	OrderRef    string         `gorm:"uniqueIndex;size:40;not null" json:"order_ref"`
	SessionID   string         `gorm:"index" json:"session_id,omitempty"`
	Items       []OrderItem    `gorm:"type:jsonb;serializer:json" json:"items"`
	Address     Address        `gorm:"type:jsonb;serializer:json" json:"address"`
	OrderType   string         `gorm:"type:VARCHAR(20);default:'dine-in'" json:"order_type"`
	Subtotal    int64          `json:"subtotal"`
	Surcharge   int64          `json:"surcharge"`
	TotalAmount int64          `json:"total_amount"`
	Status      OrderStatus    `gorm:"type:VARCHAR(20);default:'pending';index" json:"status"`
	PaymentRef  string         `gorm:"index" json:"payment_ref,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// IsStale flags orders still pending after threshold.
func (o Order) IsStale(now time.Time, threshold time.Duration) bool {
	return o.Status == OrderStatusPending && now.Sub(o.CreatedAt) > threshold
}
