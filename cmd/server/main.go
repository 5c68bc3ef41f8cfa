package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"taxiye/internal/app"
	"taxiye/internal/config"
	"taxiye/internal/geocode"
	"taxiye/internal/handler"
	"taxiye/internal/logging"
	"taxiye/internal/payments"
	internalRedis "taxiye/internal/redis"
	"taxiye/internal/repository/postgres"
	"taxiye/internal/ridesim"
	"taxiye/internal/service"
	"taxiye/internal/verify"
	"taxiye/internal/ws"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	logger := logging.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg, logger)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config, logger *slog.Logger) *http.Server {
	// Initialize Redis stores.
	cacheStore := internalRedis.NewCacheStore(redisClient)
	otpLimiter := internalRedis.NewRateLimiter(redisClient, cfg.OTP.RateLimit, cfg.OTP.RateLimitWindow)

	// Initialize repositories.
	userRepo := postgres.NewUserRepository(db)
	addressRepo := postgres.NewAddressRepository(db)
	tripRepo := postgres.NewTripRepository(db)
	walletRepo := postgres.NewWalletRepository(db)
	couponRepo := postgres.NewCouponRepository(db)

	// Payment provider: Stripe when configured, otherwise the mock.
	var psp payments.PSP
	if cfg.Payments.StripeAPIKey != "" {
		psp = payments.NewStripePSP(cfg.Payments.StripeAPIKey)
		log.Println("Payments: Stripe")
	} else {
		psp = payments.NewMockPSP()
		log.Println("Payments: mock provider")
	}

	// Geocoding is optional; without an endpoint addresses stay plain text.
	var geocoder geocode.Geocoder
	if cfg.Geocode.Endpoint != "" {
		geocoder = geocode.NewHTTPGeocoder(cfg.Geocode.Endpoint)
	}

	// Verification codes are delivered by the dev collaborator, which logs
	// them instead of calling an SMS/email gateway.
	collab := verify.NewDevCollaborator(logger)

	registry := ws.NewRegistry(logger)

	// Initialize services.
	notificationService := service.NewNotificationService(logger)
	profileService := service.NewProfileService(userRepo, cacheStore, logger)
	verificationService := service.NewVerificationService(userRepo, collab, otpLimiter, cacheStore, notificationService, logger)
	addressService := service.NewAddressService(addressRepo, geocoder, logger)
	walletService := service.NewWalletService(walletRepo, psp, notificationService, logger)
	tripService := service.NewTripService(tripRepo, cacheStore, logger)
	couponService := service.NewCouponService(couponRepo, userRepo)
	rideService := service.NewRideService(ridesim.Config{
		StepPercent:  cfg.Ride.StepPercent,
		TickInterval: cfg.Ride.TickInterval,
		SettleDelay:  cfg.Ride.SettleDelay,
	}, tripService, walletService, couponService, notificationService, registry, logger)

	// Initialize handlers.
	profileHandler := handler.NewProfileHandler(profileService, verificationService)
	addressHandler := handler.NewAddressHandler(addressService)
	rideHandler := handler.NewRideHandler(rideService)
	walletHandler := handler.NewWalletHandler(walletService)
	tripHandler := handler.NewTripHandler(tripService)
	couponHandler := handler.NewCouponHandler(couponService)
	wsHandler := handler.NewWSHandler(registry, logger)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		ProfileHandler: profileHandler,
		AddressHandler: addressHandler,
		RideHandler:    rideHandler,
		WalletHandler:  walletHandler,
		TripHandler:    tripHandler,
		CouponHandler:  couponHandler,
		WSHandler:      wsHandler,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
