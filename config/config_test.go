package config

import (
	"os"
	"testing"
	"time"

	"github.com/junaidrashid-git/cafe-api/cart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unset(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TAKEAWAY_FEE_TIERS", "1:500,4:1500")
	t.Setenv("CART_IDLE_TTL", "2h")
	t.Setenv("CORS_ORIGINS", "https://cafe.example, http://localhost:3000")
	unset(t, "TOAST_TTL", "CHECKOUT_RATE_PER_MIN", "MAX_LINE_QUANTITY", "DATABASE_URL")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, cart.FeeSchedule{{MinItems: 1, Fee: 500}, {MinItems: 4, Fee: 1500}}, cfg.FeeSchedule)
	assert.Equal(t, 2*time.Hour, cfg.CartIdleTTL)
	assert.Equal(t, 2500*time.Millisecond, cfg.ToastTTL)
	assert.Equal(t, 6, cfg.CheckoutRatePerMin)
	assert.Equal(t, cart.DefaultMaxLineQuantity, cfg.MaxLineQuantity)
	assert.Equal(t, []string{"https://cafe.example", "http://localhost:3000"}, cfg.AllowedOrigins())
}

func TestLoad_DefaultFeeTiers(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	unset(t, "TAKEAWAY_FEE_TIERS", "CHECKOUT_RATE_PER_MIN")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cart.DefaultFeeSchedule(), cfg.FeeSchedule)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing jwt secret", func(t *testing.T) {
		unset(t, "JWT_SECRET", "TAKEAWAY_FEE_TIERS", "CHECKOUT_RATE_PER_MIN")
		_, err := Load()
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("bad fee tiers", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("TAKEAWAY_FEE_TIERS", "one:1000")
		unset(t, "CHECKOUT_RATE_PER_MIN")
		_, err := Load()
		assert.ErrorContains(t, err, "TAKEAWAY_FEE_TIERS")
	})

	t.Run("non-positive line cap", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("MAX_LINE_QUANTITY", "0")
		unset(t, "TAKEAWAY_FEE_TIERS", "CHECKOUT_RATE_PER_MIN")
		_, err := Load()
		assert.ErrorContains(t, err, "MAX_LINE_QUANTITY")
	})
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "cafe", DBPassword: "pw", DBName: "menu", DBPort: "5433", DBSSLMode: "disable"}
	assert.Equal(t, "host=db user=cafe password=pw dbname=menu port=5433 sslmode=disable", cfg.DSN())

	cfg.DatabaseURL = "postgres://u:p@h/db"
	assert.Equal(t, "postgres://u:p@h/db", cfg.DSN())
}

func TestTelrSandbox(t *testing.T) {
	assert.True(t, (&Config{TelrMode: "Sandbox"}).TelrSandbox())
	assert.True(t, (&Config{TelrMode: "dev"}).TelrSandbox())
	assert.False(t, (&Config{TelrMode: "live"}).TelrSandbox())
}
