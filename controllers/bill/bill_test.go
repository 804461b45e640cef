package billControllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/models"
	"github.com/junaidrashid-git/cafe-api/realtime"
	"github.com/junaidrashid-git/cafe-api/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	orders map[uint]models.Order
}

func (f *fakeStore) List(context.Context, string) ([]models.Order, error) {
	var out []models.Order
	for id := uint(1); id <= uint(len(f.orders)); id++ {
		out = append(out, f.orders[id])
	}
	return out, nil
}

func (f *fakeStore) Get(_ context.Context, id uint) (models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return models.Order{}, store.ErrNotFound
	}
	return o, nil
}

func (f *fakeStore) MarkDelivered(_ context.Context, ids []uint) (int64, error) {
	var n int64
	for _, id := range ids {
		if o, ok := f.orders[id]; ok {
			o.Status = models.OrderStatusDelivered
			f.orders[id] = o
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) PendingCount(context.Context) (int64, error) { return 0, nil }

type recorder struct{ events []realtime.Event }

func (r *recorder) Broadcast(ev realtime.Event) { r.events = append(r.events, ev) }

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func sampleOrders() map[uint]models.Order {
	return map[uint]models.Order{
		1: {ID: 1, Address: models.Address{Name: "Asha", Phone: "98450"}, TotalAmount: 12000, Status: models.OrderStatusPending, CreatedAt: base},
		2: {ID: 2, Address: models.Address{Phone: " 98450 ", Table: "4"}, TotalAmount: 5050, Status: models.OrderStatusReady, CreatedAt: base.Add(time.Minute)},
		3: {ID: 3, Address: models.Address{Table: "7"}, TotalAmount: 3000, Status: models.OrderStatusPending, CreatedAt: base.Add(2 * time.Minute)},
		4: {ID: 4, Address: models.Address{Name: "Asha", Phone: "98450"}, TotalAmount: 9000, Status: models.OrderStatusDelivered, CreatedAt: base.Add(-time.Hour)},
		5: {ID: 5, Address: models.Address{}, TotalAmount: 1000, Status: models.OrderStatusDeleted, CreatedAt: base},
	}
}

func TestGroupBills(t *testing.T) {
	var list []models.Order
	orders := sampleOrders()
	for id := uint(1); id <= 5; id++ {
		list = append(list, orders[id])
	}

	unpaid, paid := GroupBills(list)

	require.Len(t, unpaid, 2)
	assert.Equal(t, "Table 7", unpaid[0].CustomerKey)
	assert.Equal(t, "98450", unpaid[1].CustomerKey)
	assert.Equal(t, []uint{1, 2}, unpaid[1].OrderIDs)
	assert.Equal(t, int64(17050), unpaid[1].Total)
	assert.Equal(t, "170.50", unpaid[1].TotalRupees)
	assert.Equal(t, "Asha", unpaid[1].Name)
	assert.Equal(t, "4", unpaid[1].Table)

	require.Len(t, paid, 1)
	assert.Equal(t, []uint{4}, paid[0].OrderIDs)
}

func setup(st *fakeStore, feed *recorder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/bills", GetBills(st))
	r.POST("/admin/bills/mark-paid", MarkPaid(st, feed))
	return r
}

func TestGetBills_PaidFilter(t *testing.T) {
	r := setup(&fakeStore{orders: sampleOrders()}, &recorder{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/bills?paid=false", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp BillsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Unpaid, 2)
	assert.Empty(t, resp.Paid)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/bills?paid=maybe", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarkPaid(t *testing.T) {
	st := &fakeStore{orders: sampleOrders()}
	feed := &recorder{}
	r := setup(st, feed)

	body, _ := json.Marshal(gin.H{"order_ids": []uint{1, 2}})
	req := httptest.NewRequest(http.MethodPost, "/admin/bills/mark-paid", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.OrderStatusDelivered, st.orders[1].Status)
	assert.Equal(t, models.OrderStatusDelivered, st.orders[2].Status)
	require.Len(t, feed.events, 2)
	assert.Equal(t, realtime.EventOrderUpdated, feed.events[0].Type)

	req = httptest.NewRequest(http.MethodPost, "/admin/bills/mark-paid", bytes.NewReader([]byte(`{"order_ids":[]}`)))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
