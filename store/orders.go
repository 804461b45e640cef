package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/junaidrashid-git/cafe-api/models"
	"gorm.io/gorm"
)

// Orders persists submitted orders. Soft-deleted rows are hidden by gorm.
type Orders struct {
	db *gorm.DB
}

func NewOrders(db *gorm.DB) *Orders {
	return &Orders{db: db}
}

func (o *Orders) Create(ctx context.Context, order *models.Order) error {
	if err := o.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (o *Orders) Get(ctx context.Context, id uint) (models.Order, error) {
	var order models.Order
	if err := o.db.WithContext(ctx).First(&order, id).Error; err != nil {
		return models.Order{}, fmt.Errorf("order %d: %w", id, notFound(err))
	}
	return order, nil
}

// List returns orders newest first. A non-empty search matches the table,
// phone or name on the order's address.
func (o *Orders) List(ctx context.Context, search string) ([]models.Order, error) {
	q := o.db.WithContext(ctx).Order("created_at DESC")
	if s := strings.TrimSpace(search); s != "" {
		like := "%" + s + "%"
		q = q.Where("address->>'table' ILIKE ? OR address->>'phone' ILIKE ? OR address->>'name' ILIKE ?", like, like, like)
	}
	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus moves an order to status and returns the updated row.
func (o *Orders) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) (models.Order, error) {
	var order models.Order
	err := o.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, id).Error; err != nil {
			return notFound(err)
		}
		order.Status = status
		return tx.Model(&order).Update("status", status).Error
	})
	if err != nil {
		return models.Order{}, fmt.Errorf("update order %d status: %w", id, err)
	}
	return order, nil
}

// SoftDelete marks the order deleted and stamps deleted_at.
func (o *Orders) SoftDelete(ctx context.Context, id uint) error {
	res := o.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     models.OrderStatusDeleted,
			"deleted_at": time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("delete order %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete order %d: %w", id, ErrNotFound)
	}
	return nil
}

// PendingCount counts orders the kitchen still has to deal with.
func (o *Orders) PendingCount(ctx context.Context) (int64, error) {
	var n int64
	err := o.db.WithContext(ctx).Model(&models.Order{}).
		Where("status IN ?", []models.OrderStatus{models.OrderStatusPending, models.OrderStatusPreparing}).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count pending orders: %w", err)
	}
	return n, nil
}

// MarkDelivered settles every listed order and reports how many changed.
func (o *Orders) MarkDelivered(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := o.db.WithContext(ctx).Model(&models.Order{}).
		Where("id IN ?", ids).
		Update("status", models.OrderStatusDelivered)
	if res.Error != nil {
		return 0, fmt.Errorf("mark orders delivered: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// SetPaymentRef tags the orders of a bill with a payment gateway reference.
func (o *Orders) SetPaymentRef(ctx context.Context, ids []uint, ref string) error {
	err := o.db.WithContext(ctx).Model(&models.Order{}).
		Where("id IN ?", ids).
		Update("payment_ref", ref).Error
	if err != nil {
		return fmt.Errorf("set payment ref: %w", err)
	}
	return nil
}

// ByPaymentRef returns the orders tagged with ref.
func (o *Orders) ByPaymentRef(ctx context.Context, ref string) ([]models.Order, error) {
	var orders []models.Order
	if err := o.db.WithContext(ctx).Where("payment_ref = ?", ref).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("orders by payment ref: %w", err)
	}
	return orders, nil
}

// DeliveredSince lists delivered orders created at or after since. A zero
// since means all time.
func (o *Orders) DeliveredSince(ctx context.Context, since time.Time) ([]models.Order, error) {
	q := o.db.WithContext(ctx).
		Where("status = ?", models.OrderStatusDelivered).
		Order("created_at DESC")
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}
	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("delivered orders: %w", err)
	}
	return orders, nil
}

// UnpaidForSession lists a guest session's orders that are not yet settled.
func (o *Orders) UnpaidForSession(ctx context.Context, sessionID string) ([]models.Order, error) {
	var orders []models.Order
	err := o.db.WithContext(ctx).
		Where("session_id = ? AND status IN ?", sessionID, []models.OrderStatus{
			models.OrderStatusPending, models.OrderStatusPreparing, models.OrderStatusReady,
		}).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("unpaid orders: %w", err)
	}
	return orders, nil
}
