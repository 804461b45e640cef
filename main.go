package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/auth"
	"github.com/junaidrashid-git/cafe-api/cart"
	"github.com/junaidrashid-git/cafe-api/config"
	"github.com/junaidrashid-git/cafe-api/logging"
	"github.com/junaidrashid-git/cafe-api/metrics"
	"github.com/junaidrashid-git/cafe-api/middleware"
	"github.com/junaidrashid-git/cafe-api/payment"
	"github.com/junaidrashid-git/cafe-api/realtime"
	"github.com/junaidrashid-git/cafe-api/routes"
	"github.com/junaidrashid-git/cafe-api/store"
	"github.com/junaidrashid-git/cafe-api/uploads"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	logging.Setup(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	log.Info("✅ Starting application...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(cfg.DSN())
	if err != nil {
		log.Fatalf("❌ DB connection failed: %v", err)
	}

	hub := realtime.NewHub()
	defer hub.Close()
	if cfg.RedisURL != "" {
		bridge, err := realtime.NewRedisBridge(cfg.RedisURL, cfg.RedisChannel, hub)
		if err != nil {
			log.Fatalf("❌ Redis bridge: %v", err)
		}
		defer bridge.Close()
		hub.SetPublisher(bridge)
		go func() {
			if err := bridge.Run(ctx); err != nil {
				log.WithError(err).Error("❌ Redis order feed stopped")
			}
		}()
	}

	deps := routes.Deps{
		DB:       db,
		Issuer:   auth.NewIssuer(cfg.JWTSecret, cfg.SessionTTL, cfg.AdminTokenTTL),
		Sessions: cart.NewSessions(cfg.FeeSchedule, cfg.ToastTTL),
		Catalog:  store.NewCatalog(db),
		Orders:   store.NewOrders(db),
		Hub:      hub,
		Files:    uploads.NewStore(cfg.UploadsDir),
		Telr: payment.NewClient(payment.Config{
			StoreID:    cfg.TelrStoreID,
			AuthKey:    cfg.TelrAuthKey,
			APIURL:     cfg.TelrAPIURL,
			Sandbox:    cfg.TelrSandbox(),
			Currency:   cfg.TelrCurrency,
			SuccessURL: cfg.TelrSuccessURL,
			FailureURL: cfg.TelrFailureURL,
			CancelURL:  cfg.TelrCancelURL,
			Timeout:    cfg.TelrTimeout,
		}),
		Checkout: middleware.NewPerMinuteLimiter(cfg.CheckoutRatePerMin, cfg.CheckoutRatePerMin),

		AdminAPIKey:       cfg.AdminAPIKey,
		SuperAdminEmail:   cfg.SuperAdminEmail,
		StaleOrderAfter:   cfg.StaleOrderAfter,
		TelrWebhookSecret: cfg.TelrWebhookSecret,
		TelrSandbox:       cfg.TelrSandbox(),
	}
	deps.Sessions.SetMaxLineQuantity(cfg.MaxLineQuantity)
	if cfg.FirebaseEnabled() {
		verifier, err := auth.NewFirebaseVerifier(ctx, cfg.FirebaseCredentialsJSON, cfg.FirebaseProjectID)
		if err != nil {
			log.Fatalf("❌ Firebase init failed: %v", err)
		}
		deps.Verifier = verifier
	} else {
		log.Warn("⚠️ Firebase not configured, Google admin sign-in disabled")
	}
	if !cfg.TelrEnabled() {
		log.Warn("⚠️ Telr not configured, online bill payment disabled")
	}

	// Gin setup
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), metrics.PrometheusMiddleware())

	// Allow image uploads up to 32 MB in memory
	r.MaxMultipartMemory = 32 << 20

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Serve uploaded images
	r.Static(uploads.PublicPrefix, cfg.UploadsDir)
	r.GET("/metrics", metrics.Handler())

	routes.SetupRoutes(r, deps)

	jobs, err := scheduleJobs(cfg, deps)
	if err != nil {
		log.Fatalf("❌ Failed to schedule background jobs: %v", err)
	}
	jobs.Start()
	defer func() { <-jobs.Stop().Done() }()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Infof("🚀 Server running on port %s...", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("🛑 Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("❌ Graceful shutdown failed")
	}
}

// scheduleJobs registers the upload backup and the idle cart sweep.
func scheduleJobs(cfg *config.Config, d routes.Deps) (*cron.Cron, error) {
	c := cron.New()

	retention := time.Duration(cfg.BackupKeepDays) * 24 * time.Hour
	if _, err := c.AddFunc(cfg.BackupSchedule, func() {
		if err := uploads.Backup(cfg.UploadsDir, cfg.BackupDir, retention); err != nil {
			log.WithError(err).Error("❌ Failed to back up uploads")
		}
	}); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc(cfg.CartSweepSchedule, func() {
		dropped := d.Sessions.Sweep(cfg.CartIdleTTL)
		limiters := d.Checkout.Cleanup(cfg.CartIdleTTL)
		metrics.CartSessionsActive.Set(float64(d.Sessions.Len()))
		if dropped > 0 || limiters > 0 {
			log.WithFields(log.Fields{"carts": dropped, "limiters": limiters}).Info("🧹 Idle carts swept")
		}
	}); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"backup": cfg.BackupSchedule, "sweep": cfg.CartSweepSchedule}).Info("⏳ Background jobs scheduled")
	return c, nil
}
