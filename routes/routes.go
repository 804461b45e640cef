package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/auth"
	"github.com/junaidrashid-git/cafe-api/cart"
	"github.com/junaidrashid-git/cafe-api/middleware"
	"github.com/junaidrashid-git/cafe-api/payment"
	"github.com/junaidrashid-git/cafe-api/realtime"
	"github.com/junaidrashid-git/cafe-api/store"
	"github.com/junaidrashid-git/cafe-api/uploads"
	"gorm.io/gorm"
)

// Deps is everything the route groups hand to their controllers.
type Deps struct {
	DB       *gorm.DB
	Issuer   *auth.Issuer
	Verifier auth.IDTokenVerifier
	Sessions *cart.Sessions
	Catalog  *store.Catalog
	Orders   *store.Orders
	Hub      *realtime.Hub
	Files    *uploads.Store
	Telr     *payment.Client
	Checkout *middleware.RateLimiter

	AdminAPIKey       string
	SuperAdminEmail   string
	StaleOrderAfter   time.Duration
	TelrWebhookSecret string
	TelrSandbox       bool
}

// SetupRoutes is the single entry-point that wires up every route group.
func SetupRoutes(r *gin.Engine, d Deps) {
	// 1️⃣ Public auth routes (no middleware)
	SetupAuthRoutes(r, d)

	// 2️⃣ Menu, cart and checkout for guests
	SetupUserRoutes(r, d)

	// 3️⃣ Admin routes (API key or admin JWT)
	SetupAdminRoutes(r, d)

	// order feed and status management
	SetupOrderRoutes(r, d)

	// telr payment routes
	SetupTelrRoutes(r, d)
}
