package billControllers

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/cart"
	"github.com/junaidrashid-git/cafe-api/metrics"
	"github.com/junaidrashid-git/cafe-api/models"
	"github.com/junaidrashid-git/cafe-api/realtime"
	log "github.com/sirupsen/logrus"
)

// BillStore reads orders for billing and settles them.
type BillStore interface {
	List(ctx context.Context, search string) ([]models.Order, error)
	Get(ctx context.Context, id uint) (models.Order, error)
	MarkDelivered(ctx context.Context, ids []uint) (int64, error)
	PendingCount(ctx context.Context) (int64, error)
}

type Broadcaster interface {
	Broadcast(ev realtime.Event)
}

// Bill is every order one customer has placed, summed.
type Bill struct {
	CustomerKey string         `json:"customer_key"`
	Name        string         `json:"name,omitempty"`
	Phone       string         `json:"phone,omitempty"`
	Table       string         `json:"table,omitempty"`
	Orders      []models.Order `json:"orders"`
	OrderIDs    []uint         `json:"order_ids"`
	Total       int64          `json:"total"`
	TotalRupees string         `json:"total_rupees"`
	LastOrderAt time.Time      `json:"last_order_at"`
}

type BillsResponse struct {
	Unpaid []Bill `json:"unpaid"`
	Paid   []Bill `json:"paid"`
}

type MarkPaidRequest struct {
	OrderIDs []uint `json:"order_ids" binding:"required,min=1"`
}

// GroupBills splits orders into unpaid (not yet delivered) and paid bills,
// one bill per customer key. Deleted orders are ignored. Bills are ordered by
// their most recent order, newest first.
func GroupBills(orders []models.Order) (unpaid, paid []Bill) {
	type groupKey struct {
		customer string
		paid     bool
	}
	groups := map[groupKey]*Bill{}
	var keys []groupKey

	for _, o := range orders {
		if o.Status == models.OrderStatusDeleted {
			continue
		}
		k := groupKey{customer: o.Address.CustomerKey(), paid: o.Status == models.OrderStatusDelivered}
		b, ok := groups[k]
		if !ok {
			b = &Bill{CustomerKey: k.customer}
			groups[k] = b
			keys = append(keys, k)
		}
		if b.Name == "" {
			b.Name = o.Address.Name
		}
		if b.Phone == "" {
			b.Phone = o.Address.Phone
		}
		if b.Table == "" {
			b.Table = o.Address.Table
		}
		b.Orders = append(b.Orders, o)
		b.OrderIDs = append(b.OrderIDs, o.ID)
		b.Total += o.TotalAmount
		if o.CreatedAt.After(b.LastOrderAt) {
			b.LastOrderAt = o.CreatedAt
		}
	}

	unpaid, paid = []Bill{}, []Bill{}
	for _, k := range keys {
		b := groups[k]
		b.TotalRupees = cart.Paise(b.Total).Rupees().StringFixed(2)
		if k.paid {
			paid = append(paid, *b)
		} else {
			unpaid = append(unpaid, *b)
		}
	}
	byRecent := func(bills []Bill) {
		sort.SliceStable(bills, func(i, j int) bool {
			return bills[i].LastOrderAt.After(bills[j].LastOrderAt)
		})
	}
	byRecent(unpaid)
	byRecent(paid)
	return unpaid, paid
}

// GET /admin/bills?search=&paid=
func GetBills(orders BillStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := orders.List(c.Request.Context(), c.Query("search"))
		if err != nil {
			log.WithError(err).Error("❌ Failed to load bills")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		unpaid, paid := GroupBills(list)

		resp := BillsResponse{Unpaid: unpaid, Paid: paid}
		if raw := c.Query("paid"); raw != "" {
			onlyPaid, err := strconv.ParseBool(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "paid must be true or false"})
				return
			}
			if onlyPaid {
				resp.Unpaid = []Bill{}
			} else {
				resp.Paid = []Bill{}
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}

// POST /admin/bills/mark-paid
func MarkPaid(orders BillStore, feed Broadcaster) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MarkPaidRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		n, err := Settle(c.Request.Context(), orders, feed, req.OrderIDs)
		if err != nil {
			log.WithError(err).Error("❌ Failed to mark bill paid")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark orders paid"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Bill marked as paid", "updated": n})
	}
}

// Settle marks ids delivered and tells the dashboards about each order.
func Settle(ctx context.Context, orders BillStore, feed Broadcaster, ids []uint) (int64, error) {
	n, err := orders.MarkDelivered(ctx, ids)
	if err != nil {
		return 0, err
	}
	metrics.OrdersTotal.WithLabelValues(string(models.OrderStatusDelivered)).Add(float64(n))
	log.WithFields(log.Fields{"order_ids": ids, "updated": n}).Info("💰 Bill settled")

	pending, err := orders.PendingCount(ctx)
	if err != nil {
		log.WithError(err).Warn("Failed to count pending orders")
	}
	for _, id := range ids {
		o, err := orders.Get(ctx, id)
		if err != nil {
			log.WithError(err).WithField("order_id", id).Warn("Settled order could not be reloaded")
			continue
		}
		amount, _ := cart.Paise(o.TotalAmount).Rupees().Float64()
		metrics.SalesAmount.Observe(amount)
		feed.Broadcast(realtime.Event{Type: realtime.EventOrderUpdated, Order: o, PendingCount: pending})
	}
	return n, nil
}
