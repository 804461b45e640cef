package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal tracks total HTTP requests
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration tracks HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// OrdersTotal counts orders by the status they moved into
	OrdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_total",
			Help: "Total number of orders by status transition",
		},
		[]string{"status"},
	)

	// CheckoutFailures counts checkouts the order store rejected
	CheckoutFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_failures_total",
			Help: "Checkouts that failed to store the order",
		},
	)

	// CartMutations counts cart engine operations
	CartMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_mutations_total",
			Help: "Cart operations by kind",
		},
		[]string{"op"},
	)

	CartSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cart_sessions_active",
			Help: "Cart sessions currently held in memory",
		},
	)

	OrderFeedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "order_feed_clients",
			Help: "Connected admin order feed websockets",
		},
	)

	// CircuitBreakerState tracks circuit breaker state (0=closed, 1=open, 2=half-open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"circuit_name"},
	)

	CircuitBreakerFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of circuit breaker failures",
		},
		[]string{"circuit_name"},
	)

	// SalesAmount observes delivered order totals in rupees
	SalesAmount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "order_amount_rupees",
			Help:    "Order grand totals in rupees",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000},
		},
	)
)

// PrometheusMiddleware records request count and latency per route.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		RequestsTotal.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
