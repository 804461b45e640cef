package orderControllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/junaidrashid-git/cafe-api/cart"
	"github.com/junaidrashid-git/cafe-api/metrics"
	"github.com/junaidrashid-git/cafe-api/middleware"
	"github.com/junaidrashid-git/cafe-api/models"
	"github.com/junaidrashid-git/cafe-api/realtime"
	log "github.com/sirupsen/logrus"
)

// OrderStore is where submitted orders go and where the kitchen reads them.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, id uint) (models.Order, error)
	List(ctx context.Context, search string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) (models.Order, error)
	SoftDelete(ctx context.Context, id uint) error
	PendingCount(ctx context.Context) (int64, error)
}

// Broadcaster pushes order events to the admin dashboards.
type Broadcaster interface {
	Broadcast(ev realtime.Event)
}

type CheckoutRequest struct {
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	FlatNumber string `json:"flat_number"`
	Table      string `json:"table"`
}

var errEmptyCart = errors.New("cart is empty")

// Generate unique order reference, e.g. ORD-240501-1A2B3C4D
func generateOrderRef(now time.Time) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "ORD-" + now.Format("060102") + "-" + strings.ToUpper(id[:8])
}

// NewOrder snapshots the cart into a pending order record.
func NewOrder(e *cart.Engine, addr models.Address, sessionID string, now time.Time) models.Order {
	lines := e.Items()
	items := make([]models.OrderItem, 0, len(lines))
	for _, li := range lines {
		item := models.OrderItem{
			Quantity: li.Quantity,
			Name:     li.Product.Name,
			Variant: models.OrderVariant{
				Size:    li.Variant.Size,
				Variant: li.Variant.Label,
				Price:   int64(li.Variant.Price),
			},
			LineTotal: int64(li.Total()),
		}
		for _, a := range li.Addons {
			item.Addons = append(item.Addons, models.OrderAddon{Name: a.Name, Price: int64(a.Price)})
		}
		items = append(items, item)
	}

	return models.Order{
		OrderRef:    generateOrderRef(now),
		SessionID:   sessionID,
		Items:       items,
		Address:     addr,
		OrderType:   e.OrderType(),
		Subtotal:    int64(e.Subtotal()),
		Surcharge:   int64(e.Surcharge()),
		TotalAmount: int64(e.GrandTotal()),
		Status:      models.OrderStatusPending,
		CreatedAt:   now,
	}
}

// POST /checkout
//
// The cart is cleared only after the store accepts the order. A store
// failure leaves the cart as it was and reports the raw error with 502.
func Checkout(sessions *cart.Sessions, orders OrderStore, feed Broadcaster) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		addr := models.Address{
			Name:       strings.TrimSpace(req.Name),
			Phone:      strings.TrimSpace(req.Phone),
			FlatNumber: strings.TrimSpace(req.FlatNumber),
			Table:      strings.TrimSpace(req.Table),
		}
		if addr.Name == "" || addr.Phone == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name and phone are required"})
			return
		}

		sid := middleware.SessionID(c)
		ctx := c.Request.Context()

		var (
			order    models.Order
			storeErr error
		)
		err := sessions.With(sid, func(e *cart.Engine) error {
			if e.IsEmpty() {
				return errEmptyCart
			}
			order = NewOrder(e, addr, sid, time.Now())
			if err := orders.Create(ctx, &order); err != nil {
				storeErr = err
				return err
			}
			e.Clear()
			return nil
		})

		switch {
		case errors.Is(err, errEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
			return
		case storeErr != nil:
			metrics.CheckoutFailures.Inc()
			log.WithFields(log.Fields{"session_id": sid, "order_ref": order.OrderRef}).
				WithError(storeErr).Error("❌ Failed to store order")
			c.JSON(http.StatusBadGateway, gin.H{"error": storeErr.Error()})
			return
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		metrics.OrdersTotal.WithLabelValues(string(models.OrderStatusPending)).Inc()
		log.WithFields(log.Fields{
			"order_id":   order.ID,
			"order_ref":  order.OrderRef,
			"order_type": order.OrderType,
			"total":      order.TotalAmount,
		}).Info("✅ Order placed")

		pending, err := orders.PendingCount(ctx)
		if err != nil {
			log.WithError(err).Warn("Failed to count pending orders")
		}
		feed.Broadcast(realtime.Event{
			Type:         realtime.EventOrderCreated,
			Order:        order,
			PendingCount: pending,
			PlaySound:    true,
		})

		c.JSON(http.StatusCreated, order)
	}
}
