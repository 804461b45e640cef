package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/junaidrashid-git/cafe-api/cart"
	"github.com/junaidrashid-git/cafe-api/metrics"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const circuitName = "telr"

// ErrNotConfigured is returned when no Telr store credentials are set.
var ErrNotConfigured = errors.New("telr configuration missing")

type Config struct {
	StoreID    int
	AuthKey    string
	APIURL     string
	Sandbox    bool
	Currency   string
	SuccessURL string
	FailureURL string
	CancelURL  string
	Timeout    time.Duration
}

// Request describes one hosted-payment page to create.
type Request struct {
	CartID      string
	Amount      cart.Paise
	Description string
	Name        string
	Email       string
	Phone       string
}

// Link is where the customer is sent to pay, plus Telr's order reference.
type Link struct {
	URL string `json:"payment_url"`
	Ref string `json:"order_ref"`
}

type telrResponse struct {
	Order struct {
		Ref string `json:"ref"`
		URL string `json:"url"`
	} `json:"order"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Client creates Telr hosted payments. Calls go through a circuit breaker so
// a failing gateway is not hammered while bills pile up.
type Client struct {
	cfg     Config
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		cfg: cfg,
		http: resty.New().
			SetTimeout(cfg.Timeout).
			SetRetryCount(0).
			SetHeader("Accept", "application/json"),
		breaker: NewCircuitBreaker(circuitName),
	}
}

// CreatePayment asks Telr for a payment page for req.
func (c *Client) CreatePayment(ctx context.Context, req Request) (Link, error) {
	if c.cfg.StoreID == 0 || c.cfg.AuthKey == "" || c.cfg.APIURL == "" {
		return Link{}, ErrNotConfigured
	}
	if req.Amount <= 0 {
		return Link{}, fmt.Errorf("payment amount must be positive, got %d", req.Amount)
	}

	testMode := 0
	if c.cfg.Sandbox {
		testMode = 1
	}
	payload := map[string]interface{}{
		"method":  "create",
		"store":   c.cfg.StoreID,
		"authkey": c.cfg.AuthKey,
		"order": map[string]interface{}{
			"cartid":      req.CartID,
			"test":        testMode,
			"amount":      req.Amount.Rupees().StringFixed(2),
			"currency":    c.cfg.Currency,
			"description": req.Description,
		},
		"customer": map[string]interface{}{
			"name":  req.Name,
			"email": req.Email,
			"phone": req.Phone,
		},
		"return": map[string]string{
			"authorised": c.cfg.SuccessURL,
			"declined":   c.cfg.FailureURL,
			"cancelled":  c.cfg.CancelURL,
		},
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		var out telrResponse
		resp, err := c.http.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(payload).
			SetResult(&out).
			Post(c.cfg.APIURL)
		if err != nil {
			return nil, fmt.Errorf("failed to reach Telr: %w", err)
		}
		if resp.StatusCode() != http.StatusOK {
			return nil, fmt.Errorf("telr API error (%d): %s", resp.StatusCode(), resp.String())
		}
		return &out, nil
	})
	if err != nil {
		metrics.CircuitBreakerFailures.WithLabelValues(circuitName).Inc()
		return Link{}, FormatError(circuitName, err)
	}

	out := result.(*telrResponse)
	if out.Error != nil {
		return Link{}, fmt.Errorf("telr error: %s", out.Error.Message)
	}
	if out.Order.URL == "" {
		return Link{}, errors.New("telr returned empty payment URL")
	}

	log.WithFields(log.Fields{"cart_id": req.CartID, "ref": out.Order.Ref}).Info("💳 Telr payment created")
	return Link{URL: out.Order.URL, Ref: out.Order.Ref}, nil
}
