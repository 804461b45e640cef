package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(PrometheusMiddleware())
	r.GET("/menu", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", Handler())

	before := testutil.ToFloat64(RequestsTotal.WithLabelValues("GET", "/menu", "200"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/menu", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, before+1, testutil.ToFloat64(RequestsTotal.WithLabelValues("GET", "/menu", "200")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "http_requests_total"))
}
