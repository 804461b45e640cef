package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/junaidrashid-git/cafe-api/cart"
)

// Config is everything the server reads from the environment.
type Config struct {
	Port     string `env:"PORT,default=8080"`
	LogLevel string `env:"LOG_LEVEL,default=info"`
	GinMode  string `env:"GIN_MODE,default=release"`

	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST,default=localhost"`
	DBPort      string `env:"DB_PORT,default=5432"`
	DBUser      string `env:"DB_USER,default=postgres"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBName      string `env:"DB_NAME,default=cafe"`
	DBSSLMode   string `env:"DB_SSLMODE,default=disable"`

	JWTSecret       string        `env:"JWT_SECRET"`
	SessionTTL      time.Duration `env:"SESSION_TTL,default=24h"`
	AdminTokenTTL   time.Duration `env:"ADMIN_TOKEN_TTL,default=1440h"`
	AdminAPIKey     string        `env:"ADMIN_API_KEY"`
	SuperAdminEmail string        `env:"SUPER_ADMIN_EMAIL"`

	FirebaseCredentialsJSON string `env:"FIREBASE_CREDENTIALS_JSON"`
	FirebaseProjectID       string `env:"FIREBASE_PROJECT_ID"`

	CORSOrigins    string `env:"CORS_ORIGINS,default=*"`
	UploadsDir     string `env:"UPLOADS_DIR,default=uploads"`
	BackupDir      string `env:"BACKUP_DIR,default=backup/uploads"`
	BackupSchedule string `env:"BACKUP_SCHEDULE,default=0 2 * * *"`
	BackupKeepDays int    `env:"BACKUP_KEEP_DAYS,default=4"`

	TakeawayFeeTiers   string        `env:"TAKEAWAY_FEE_TIERS"`
	ToastTTL           time.Duration `env:"TOAST_TTL,default=2500ms"`
	CartIdleTTL        time.Duration `env:"CART_IDLE_TTL,default=6h"`
	CartSweepSchedule  string        `env:"CART_SWEEP_SCHEDULE,default=@every 15m"`
	CheckoutRatePerMin int           `env:"CHECKOUT_RATE_PER_MIN,default=6"`
	MaxLineQuantity    int           `env:"MAX_LINE_QUANTITY,default=99"`
	StaleOrderAfter    time.Duration `env:"STALE_ORDER_AFTER,default=10m"`

	RedisURL     string `env:"REDIS_URL"`
	RedisChannel string `env:"REDIS_ORDERS_CHANNEL,default=cafe:orders"`

	TelrStoreID       int           `env:"TELR_STORE_ID"`
	TelrAuthKey       string        `env:"TELR_AUTH_KEY"`
	TelrAPIURL        string        `env:"TELR_API_URL,default=https://secure.telr.com/gateway/order.json"`
	TelrMode          string        `env:"TELR_MODE,default=sandbox"`
	TelrCurrency      string        `env:"TELR_CURRENCY,default=INR"`
	TelrSuccessURL    string        `env:"TELR_SUCCESS_URL"`
	TelrFailureURL    string        `env:"TELR_FAILURE_URL"`
	TelrCancelURL     string        `env:"TELR_CANCEL_URL"`
	TelrWebhookSecret string        `env:"TELR_WEBHOOK_SECRET"`
	TelrTimeout       time.Duration `env:"TELR_TIMEOUT,default=15s"`

	// Parsed from TakeawayFeeTiers by Load; empty means the default tiers.
	FeeSchedule cart.FeeSchedule
}

// Load reads a .env file when present, then decodes the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) finish() error {
	fees, err := cart.ParseFeeSchedule(c.TakeawayFeeTiers)
	if err != nil {
		return fmt.Errorf("TAKEAWAY_FEE_TIERS: %w", err)
	}
	c.FeeSchedule = fees

	if c.CheckoutRatePerMin <= 0 {
		return fmt.Errorf("CHECKOUT_RATE_PER_MIN must be positive, got %d", c.CheckoutRatePerMin)
	}
	if c.MaxLineQuantity <= 0 {
		return fmt.Errorf("MAX_LINE_QUANTITY must be positive, got %d", c.MaxLineQuantity)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	return nil
}

// DSN returns DATABASE_URL, or a key/value DSN built from the DB_* parts.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// TelrSandbox reports whether Telr runs in test mode.
func (c *Config) TelrSandbox() bool {
	mode := strings.ToLower(c.TelrMode)
	return mode == "sandbox" || mode == "dev"
}

func (c *Config) FirebaseEnabled() bool {
	return c.FirebaseCredentialsJSON != "" && c.FirebaseProjectID != ""
}

func (c *Config) TelrEnabled() bool {
	return c.TelrStoreID != 0 && c.TelrAuthKey != ""
}
