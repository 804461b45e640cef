package orderControllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/auth"
	"github.com/junaidrashid-git/cafe-api/cart"
	"github.com/junaidrashid-git/cafe-api/middleware"
	"github.com/junaidrashid-git/cafe-api/models"
	"github.com/junaidrashid-git/cafe-api/realtime"
	"github.com/junaidrashid-git/cafe-api/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrders struct {
	mu        sync.Mutex
	orders    map[uint]models.Order
	nextID    uint
	createErr error
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{orders: map[uint]models.Order{}, nextID: 1}
}

func (f *fakeOrders) Create(_ context.Context, o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	o.ID = f.nextID
	f.nextID++
	f.orders[o.ID] = *o
	return nil
}

func (f *fakeOrders) Get(_ context.Context, id uint) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok || o.Status == models.OrderStatusDeleted {
		return models.Order{}, store.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrders) List(_ context.Context, _ string) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for id := uint(1); id < f.nextID; id++ {
		if o, ok := f.orders[id]; ok && o.Status != models.OrderStatusDeleted {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id uint, s models.OrderStatus) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return models.Order{}, store.ErrNotFound
	}
	o.Status = s
	f.orders[id] = o
	return o, nil
}

func (f *fakeOrders) SoftDelete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return store.ErrNotFound
	}
	o.Status = models.OrderStatusDeleted
	f.orders[id] = o
	return nil
}

func (f *fakeOrders) PendingCount(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, o := range f.orders {
		if o.Status == models.OrderStatusPending || o.Status == models.OrderStatusPreparing {
			n++
		}
	}
	return n, nil
}

type recorder struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (r *recorder) Broadcast(ev realtime.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

var (
	latte   = cart.Product{ID: "1", Name: "Latte"}
	regular = cart.Variant{ID: "10", Size: "Regular", Price: 10000}
	shot    = cart.Addon{ID: "100", Name: "Extra shot", Price: 2000}
)

type harness struct {
	router   *gin.Engine
	sessions *cart.Sessions
	orders   *fakeOrders
	feed     *recorder
	token    string
}

func setup(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	issuer := auth.NewIssuer("test-secret", time.Hour, time.Hour)
	token, _, err := issuer.GuestToken("session-1")
	require.NoError(t, err)

	h := &harness{
		sessions: cart.NewSessions(cart.DefaultFeeSchedule(), cart.DefaultToastTTL),
		orders:   newFakeOrders(),
		feed:     &recorder{},
		token:    token,
	}

	r := gin.New()
	r.POST("/checkout", middleware.RequireSession(issuer), Checkout(h.sessions, h.orders, h.feed))
	admin := r.Group("/admin/orders")
	admin.GET("", ListOrders(h.orders, 10*time.Minute))
	admin.PUT("/:orderID/status", UpdateOrderStatus(h.orders, h.feed))
	admin.DELETE("/:orderID", DeleteOrder(h.orders, h.feed))
	h.router = r
	return h
}

func (h *harness) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.token)
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) fillCart(t *testing.T, takeaway bool) {
	t.Helper()
	require.NoError(t, h.sessions.With("session-1", func(e *cart.Engine) error {
		e.SetOrderType(takeaway)
		e.Add(latte, regular, shot)
		e.Add(latte, regular, shot)
		return nil
	}))
}

func TestCheckout_Success(t *testing.T) {
	h := setup(t)
	h.fillCart(t, true)

	w := h.do(t, http.MethodPost, "/checkout", gin.H{"name": " Asha ", "phone": "98450", "table": "4"})
	require.Equal(t, http.StatusCreated, w.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Regexp(t, regexp.MustCompile(`^ORD-\d{6}-[0-9A-F]{8}$`), order.OrderRef)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, cart.OrderTypeTakeaway, order.OrderType)
	assert.Equal(t, int64(24000), order.Subtotal)
	assert.Equal(t, int64(1000), order.Surcharge)
	assert.Equal(t, int64(25000), order.TotalAmount)
	assert.Equal(t, "Asha", order.Address.Name)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, "Regular", order.Items[0].Variant.Size)
	assert.Equal(t, []models.OrderAddon{{Name: "Extra shot", Price: 2000}}, order.Items[0].Addons)

	h.sessions.Do("session-1", func(e *cart.Engine) {
		assert.True(t, e.IsEmpty())
		assert.False(t, e.Takeaway())
	})

	require.Len(t, h.feed.events, 1)
	ev := h.feed.events[0]
	assert.Equal(t, realtime.EventOrderCreated, ev.Type)
	assert.True(t, ev.PlaySound)
	assert.Equal(t, int64(1), ev.PendingCount)
}

func TestCheckout_EmptyCart(t *testing.T) {
	h := setup(t)

	w := h.do(t, http.MethodPost, "/checkout", gin.H{"name": "Asha", "phone": "9876543210"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Cart is empty"}`, w.Body.String())
	assert.Empty(t, h.orders.orders)
	assert.Empty(t, h.feed.events)
}

func TestCheckout_RequiresCustomer(t *testing.T) {
	cases := []struct {
		name string
		body gin.H
	}{
		{"missing both", gin.H{"table": "4"}},
		{"missing phone", gin.H{"name": "Asha"}},
		{"blank name", gin.H{"name": "   ", "phone": "9876543210"}},
		{"blank phone", gin.H{"name": "Asha", "phone": "\t"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := setup(t)
			h.fillCart(t, false)

			w := h.do(t, http.MethodPost, "/checkout", tc.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, h.orders.orders)
			assert.Empty(t, h.feed.events)
			h.sessions.Do("session-1", func(e *cart.Engine) {
				assert.Equal(t, 2, e.TotalItemCount())
			})
		})
	}
}

func TestCheckout_StoreFailureKeepsCart(t *testing.T) {
	h := setup(t)
	h.fillCart(t, false)
	h.orders.createErr = errors.New("insert order: connection refused")

	w := h.do(t, http.MethodPost, "/checkout", gin.H{"name": "Asha", "phone": "9876543210", "table": "2"})

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"error":"insert order: connection refused"}`, w.Body.String())
	assert.Empty(t, h.feed.events)
	h.sessions.Do("session-1", func(e *cart.Engine) {
		assert.Equal(t, 2, e.TotalItemCount())
	})
}

func TestListOrders_SplitsAndFlagsStale(t *testing.T) {
	h := setup(t)
	now := time.Now()
	h.orders.orders = map[uint]models.Order{
		1: {ID: 1, Status: models.OrderStatusPending, CreatedAt: now.Add(-15 * time.Minute)},
		2: {ID: 2, Status: models.OrderStatusPreparing, CreatedAt: now.Add(-30 * time.Minute)},
		3: {ID: 3, Status: models.OrderStatusDelivered, CreatedAt: now.Add(-time.Hour)},
		4: {ID: 4, Status: models.OrderStatusPending, CreatedAt: now},
	}
	h.orders.nextID = 5

	w := h.do(t, http.MethodGet, "/admin/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp OrderListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Active, 3)
	require.Len(t, resp.Completed, 1)
	assert.Equal(t, int64(3), resp.PendingCount)

	stale := map[uint]bool{}
	for _, v := range resp.Active {
		stale[v.ID] = v.Stale
	}
	assert.Equal(t, map[uint]bool{1: true, 2: false, 4: false}, stale)
}

func TestUpdateOrderStatus(t *testing.T) {
	h := setup(t)
	h.orders.orders[1] = models.Order{ID: 1, Status: models.OrderStatusPending}
	h.orders.nextID = 2

	w := h.do(t, http.MethodPut, "/admin/orders/1/status", gin.H{"status": "Preparing"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.OrderStatusPreparing, h.orders.orders[1].Status)
	require.Len(t, h.feed.events, 1)
	assert.Equal(t, realtime.EventOrderUpdated, h.feed.events[0].Type)
	assert.False(t, h.feed.events[0].PlaySound)

	w = h.do(t, http.MethodPut, "/admin/orders/1/status", gin.H{"status": "deleted"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(t, http.MethodPut, "/admin/orders/9/status", gin.H{"status": "ready"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(t, http.MethodPut, "/admin/orders/x/status", gin.H{"status": "ready"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteOrder(t *testing.T) {
	h := setup(t)
	h.orders.orders[1] = models.Order{ID: 1, Status: models.OrderStatusPending}
	h.orders.nextID = 2

	w := h.do(t, http.MethodDelete, "/admin/orders/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.OrderStatusDeleted, h.orders.orders[1].Status)
	require.Len(t, h.feed.events, 1)
	assert.Equal(t, realtime.EventOrderDeleted, h.feed.events[0].Type)
	assert.Equal(t, int64(0), h.feed.events[0].PendingCount)

	w = h.do(t, http.MethodDelete, "/admin/orders/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewOrder_CarriesCombosWithoutAddons(t *testing.T) {
	e := cart.NewEngine(cart.DefaultFeeSchedule(), cart.DefaultToastTTL)
	e.Add(cart.Product{ID: "5", Name: "Breakfast"}, cart.Variant{ID: "combo-5", Label: "Combo", Price: 25000})

	o := NewOrder(e, models.Address{Table: "3"}, "s", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))

	assert.Contains(t, o.OrderRef, "ORD-240501-")
	require.Len(t, o.Items, 1)
	assert.Empty(t, o.Items[0].Addons)
	assert.Equal(t, "Combo", o.Items[0].Variant.Variant)
	assert.Equal(t, int64(25000), o.TotalAmount)
	assert.Equal(t, cart.OrderTypeDineIn, o.OrderType)
}
