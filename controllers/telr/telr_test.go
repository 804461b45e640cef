package telrControllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/auth"
	"github.com/junaidrashid-git/cafe-api/cart"
	"github.com/junaidrashid-git/cafe-api/middleware"
	"github.com/junaidrashid-git/cafe-api/models"
	"github.com/junaidrashid-git/cafe-api/payment"
	"github.com/junaidrashid-git/cafe-api/realtime"
	"github.com/junaidrashid-git/cafe-api/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	orders map[uint]models.Order
}

func (f *fakeStore) List(context.Context, string) ([]models.Order, error) { return nil, nil }

func (f *fakeStore) Get(_ context.Context, id uint) (models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return models.Order{}, store.ErrNotFound
	}
	return o, nil
}

func (f *fakeStore) MarkDelivered(_ context.Context, ids []uint) (int64, error) {
	for _, id := range ids {
		o := f.orders[id]
		o.Status = models.OrderStatusDelivered
		f.orders[id] = o
	}
	return int64(len(ids)), nil
}

func (f *fakeStore) PendingCount(context.Context) (int64, error) { return 0, nil }

func (f *fakeStore) UnpaidForSession(_ context.Context, sid string) ([]models.Order, error) {
	var out []models.Order
	for id := uint(1); id <= uint(len(f.orders)); id++ {
		o := f.orders[id]
		if o.SessionID == sid && o.Status != models.OrderStatusDelivered {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeStore) SetPaymentRef(_ context.Context, ids []uint, ref string) error {
	for _, id := range ids {
		o := f.orders[id]
		o.PaymentRef = ref
		f.orders[id] = o
	}
	return nil
}

func (f *fakeStore) ByPaymentRef(_ context.Context, ref string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.PaymentRef == ref {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakeGateway struct {
	got payment.Request
	err error
}

func (g *fakeGateway) CreatePayment(_ context.Context, req payment.Request) (payment.Link, error) {
	g.got = req
	if g.err != nil {
		return payment.Link{}, g.err
	}
	return payment.Link{URL: "https://pay.example/p/1", Ref: "TELR-1"}, nil
}

type recorder struct{ events []realtime.Event }

func (r *recorder) Broadcast(ev realtime.Event) { r.events = append(r.events, ev) }

func newStore() *fakeStore {
	return &fakeStore{orders: map[uint]models.Order{
		1: {ID: 1, SessionID: "s-1", Address: models.Address{Name: "Asha", Table: "4"}, TotalAmount: 12000, Status: models.OrderStatusReady},
		2: {ID: 2, SessionID: "s-1", Address: models.Address{Table: "4"}, TotalAmount: 3050, Status: models.OrderStatusPending},
		3: {ID: 3, SessionID: "s-2", TotalAmount: 9000, Status: models.OrderStatusPending},
	}}
}

func payRequest(t *testing.T, r *gin.Engine, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/bills/pay", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPayBill(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer := auth.NewIssuer("secret", time.Hour, time.Hour)
	token, _, err := issuer.GuestToken("s-1")
	require.NoError(t, err)

	st := newStore()
	gw := &fakeGateway{}
	r := gin.New()
	r.POST("/bills/pay", middleware.RequireSession(issuer), PayBill(st, gw))

	w := payRequest(t, r, token, `{"email":"asha@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp PayBillResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "https://pay.example/p/1", resp.URL)
	assert.Equal(t, "TELR-1", resp.Ref)
	assert.Equal(t, []uint{1, 2}, resp.OrderIDs)
	assert.Equal(t, "150.50", resp.AmountRupee)
	assert.True(t, strings.HasPrefix(resp.CartID, "BILL-"))

	assert.Equal(t, cart.Paise(15050), gw.got.Amount)
	assert.Equal(t, "Asha", gw.got.Name)
	assert.Equal(t, resp.CartID, st.orders[1].PaymentRef)
	assert.Equal(t, resp.CartID, st.orders[2].PaymentRef)
	assert.Empty(t, st.orders[3].PaymentRef)
}

func TestPayBill_Errors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer := auth.NewIssuer("secret", time.Hour, time.Hour)

	t.Run("nothing to pay", func(t *testing.T) {
		token, _, _ := issuer.GuestToken("s-9")
		r := gin.New()
		r.POST("/bills/pay", middleware.RequireSession(issuer), PayBill(newStore(), &fakeGateway{}))
		assert.Equal(t, http.StatusBadRequest, payRequest(t, r, token, `{}`).Code)
	})

	t.Run("gateway not configured", func(t *testing.T) {
		token, _, _ := issuer.GuestToken("s-1")
		r := gin.New()
		r.POST("/bills/pay", middleware.RequireSession(issuer), PayBill(newStore(), &fakeGateway{err: payment.ErrNotConfigured}))
		assert.Equal(t, http.StatusServiceUnavailable, payRequest(t, r, token, `{}`).Code)
	})

	t.Run("gateway down", func(t *testing.T) {
		token, _, _ := issuer.GuestToken("s-1")
		st := newStore()
		r := gin.New()
		r.POST("/bills/pay", middleware.RequireSession(issuer), PayBill(st, &fakeGateway{err: errors.New("circuit open")}))
		assert.Equal(t, http.StatusBadGateway, payRequest(t, r, token, `{}`).Code)
		assert.Empty(t, st.orders[1].PaymentRef)
	})
}

func webhook(r *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/payment/webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTelrWebhook(t *testing.T) {
	gin.SetMode(gin.TestMode)
	st := newStore()
	st.orders[1] = func(o models.Order) models.Order { o.PaymentRef = "BILL-1"; return o }(st.orders[1])
	st.orders[2] = func(o models.Order) models.Order { o.PaymentRef = "BILL-1"; return o }(st.orders[2])
	feed := &recorder{}

	const secret = "hook-secret"
	r := gin.New()
	r.POST("/payment/webhook", middleware.TelrWebhookAuth(secret, false), TelrWebhookHandler(st, feed))

	signed := func(form url.Values) url.Values {
		form.Set("tran_check", payment.Signature(secret, form))
		return form
	}

	declined := signed(url.Values{"tran_cartid": {"BILL-1"}, "tran_status": {"D"}})
	w := webhook(r, declined)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.OrderStatusReady, st.orders[1].Status)

	forged := url.Values{"tran_cartid": {"BILL-1"}, "tran_status": {"A"}, "tran_check": {"deadbeef"}}
	assert.Equal(t, http.StatusForbidden, webhook(r, forged).Code)

	unknown := signed(url.Values{"tran_cartid": {"BILL-404"}, "tran_status": {"A"}})
	assert.Equal(t, http.StatusNotFound, webhook(r, unknown).Code)

	approved := signed(url.Values{"tran_cartid": {"BILL-1"}, "tran_status": {"A"}, "tran_ref": {"T123"}, "tran_amount": {"150.50"}})
	w = webhook(r, approved)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.OrderStatusDelivered, st.orders[1].Status)
	assert.Equal(t, models.OrderStatusDelivered, st.orders[2].Status)
	assert.Equal(t, models.OrderStatusPending, st.orders[3].Status)
	assert.Len(t, feed.events, 2)
}

func TestTelrWebhook_AmountMustMatchBill(t *testing.T) {
	gin.SetMode(gin.TestMode)
	st := newStore()
	st.orders[1] = func(o models.Order) models.Order { o.PaymentRef = "BILL-1"; return o }(st.orders[1])
	st.orders[2] = func(o models.Order) models.Order { o.PaymentRef = "BILL-1"; return o }(st.orders[2])
	feed := &recorder{}

	const secret = "hook-secret"
	r := gin.New()
	r.POST("/payment/webhook", middleware.TelrWebhookAuth(secret, false), TelrWebhookHandler(st, feed))

	cases := []struct {
		name   string
		amount string
		code   int
	}{
		{"short payment", "1.00", http.StatusConflict},
		{"overpayment", "150.51", http.StatusConflict},
		{"missing amount", "", http.StatusBadRequest},
		{"garbage amount", "lots", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := url.Values{"tran_cartid": {"BILL-1"}, "tran_status": {"A"}, "tran_amount": {tc.amount}}
			form.Set("tran_check", payment.Signature(secret, form))

			w := webhook(r, form)

			assert.Equal(t, tc.code, w.Code)
			assert.Equal(t, models.OrderStatusReady, st.orders[1].Status)
			assert.Equal(t, models.OrderStatusPending, st.orders[2].Status)
			assert.Empty(t, feed.events)
		})
	}
}
