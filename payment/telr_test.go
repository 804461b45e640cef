package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTelrServer(t *testing.T, status int, body string, seen *map[string]interface{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCreatePayment(t *testing.T) {
	var seen map[string]interface{}
	srv := newTelrServer(t, http.StatusOK, `{"order":{"ref":"T123","url":"https://pay.example/T123"}}`, &seen)

	c := NewClient(Config{StoreID: 42, AuthKey: "key", APIURL: srv.URL, Sandbox: true, Currency: "INR"})
	link, err := c.CreatePayment(context.Background(), Request{CartID: "BILL-1", Amount: 29000, Description: "Table 4", Name: "Asha"})
	require.NoError(t, err)

	assert.Equal(t, "https://pay.example/T123", link.URL)
	assert.Equal(t, "T123", link.Ref)

	order := seen["order"].(map[string]interface{})
	assert.Equal(t, "290.00", order["amount"])
	assert.Equal(t, "BILL-1", order["cartid"])
	assert.Equal(t, float64(1), order["test"])
	assert.Equal(t, "create", seen["method"])
}

func TestCreatePayment_GatewayError(t *testing.T) {
	srv := newTelrServer(t, http.StatusOK, `{"error":{"code":"E01","message":"Invalid store"}}`, nil)

	c := NewClient(Config{StoreID: 42, AuthKey: "key", APIURL: srv.URL})
	_, err := c.CreatePayment(context.Background(), Request{CartID: "B", Amount: 100})
	assert.EqualError(t, err, "telr error: Invalid store")
}

func TestCreatePayment_NotConfigured(t *testing.T) {
	c := NewClient(Config{})
	_, err := c.CreatePayment(context.Background(), Request{Amount: 100})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestCreatePayment_BreakerOpens(t *testing.T) {
	srv := newTelrServer(t, http.StatusBadGateway, `upstream down`, nil)
	c := NewClient(Config{StoreID: 1, AuthKey: "key", APIURL: srv.URL})

	for i := 0; i < 3; i++ {
		_, err := c.CreatePayment(context.Background(), Request{CartID: "B", Amount: 100})
		require.ErrorContains(t, err, "telr API error (502)")
	}

	_, err := c.CreatePayment(context.Background(), Request{CartID: "B", Amount: 100})
	assert.ErrorContains(t, err, "circuit breaker telr is open")
}

func TestVerifySignature(t *testing.T) {
	form := url.Values{
		"tran_store":  {"42"},
		"tran_ref":    {"T123"},
		"tran_cartid": {"BILL-1"},
		"tran_status": {"A"},
	}
	form.Set("tran_check", Signature("s3cret", form))

	assert.True(t, VerifySignature("s3cret", form))
	assert.False(t, VerifySignature("other", form))
	assert.True(t, Approved(form))

	form.Del("tran_check")
	assert.False(t, VerifySignature("s3cret", form))
}
