package orderControllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/cart"
	"github.com/junaidrashid-git/cafe-api/metrics"
	"github.com/junaidrashid-git/cafe-api/models"
	"github.com/junaidrashid-git/cafe-api/realtime"
	"github.com/junaidrashid-git/cafe-api/store"
	log "github.com/sirupsen/logrus"
)

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderView is an order as the kitchen dashboard sees it.
type OrderView struct {
	models.Order
	Stale bool `json:"stale"`
}

type OrderListResponse struct {
	Active       []OrderView `json:"active"`
	Completed    []OrderView `json:"completed"`
	PendingCount int64       `json:"pending_count"`
}

func orderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
		return 0, false
	}
	return uint(id), true
}

// GET /admin/orders?search=
func ListOrders(orders OrderStore, staleAfter time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		list, err := orders.List(ctx, c.Query("search"))
		if err != nil {
			log.WithError(err).Error("❌ Failed to list orders")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		pending, err := orders.PendingCount(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		now := time.Now()
		resp := OrderListResponse{
			Active:       []OrderView{},
			Completed:    []OrderView{},
			PendingCount: pending,
		}
		for _, o := range list {
			v := OrderView{Order: o, Stale: o.IsStale(now, staleAfter)}
			if o.Status.Active() {
				resp.Active = append(resp.Active, v)
			} else {
				resp.Completed = append(resp.Completed, v)
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}

// PUT /admin/orders/:orderID/status
func UpdateOrderStatus(orders OrderStore, feed Broadcaster) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := orderID(c)
		if !ok {
			return
		}
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		status := models.OrderStatus(strings.ToLower(strings.TrimSpace(req.Status)))
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order status"})
			return
		}

		ctx := c.Request.Context()
		order, err := orders.UpdateStatus(ctx, id, status)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			log.WithError(err).WithField("order_id", id).Error("❌ Failed to update order status")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order status"})
			return
		}

		metrics.OrdersTotal.WithLabelValues(string(status)).Inc()
		if status == models.OrderStatusDelivered {
			amount, _ := cart.Paise(order.TotalAmount).Rupees().Float64()
			metrics.SalesAmount.Observe(amount)
		}
		log.WithFields(log.Fields{"order_id": id, "status": status}).Info("📦 Order status updated")

		broadcastUpdate(c, orders, feed, realtime.EventOrderUpdated, order)
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully", "order": order})
	}
}

// DELETE /admin/orders/:orderID
func DeleteOrder(orders OrderStore, feed Broadcaster) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := orderID(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()

		order, err := orders.Get(ctx, id)
		if err == nil {
			err = orders.SoftDelete(ctx, id)
		}
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			log.WithError(err).WithField("order_id", id).Error("❌ Failed to delete order")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete order"})
			return
		}

		order.Status = models.OrderStatusDeleted
		metrics.OrdersTotal.WithLabelValues(string(models.OrderStatusDeleted)).Inc()
		log.WithField("order_id", id).Info("🗑️ Order deleted")

		broadcastUpdate(c, orders, feed, realtime.EventOrderDeleted, order)
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
	}
}

func broadcastUpdate(c *gin.Context, orders OrderStore, feed Broadcaster, kind string, order models.Order) {
	pending, err := orders.PendingCount(c.Request.Context())
	if err != nil {
		log.WithError(err).Warn("Failed to count pending orders")
	}
	feed.Broadcast(realtime.Event{Type: kind, Order: order, PendingCount: pending})
}
