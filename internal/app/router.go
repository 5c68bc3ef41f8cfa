package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"taxiye/internal/handler"
	"taxiye/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	ProfileHandler *handler.ProfileHandler
	AddressHandler *handler.AddressHandler
	RideHandler    *handler.RideHandler
	WalletHandler  *handler.WalletHandler
	TripHandler    *handler.TripHandler
	CouponHandler  *handler.CouponHandler
	WSHandler      *handler.WSHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.MetricsMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check and metrics.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// User routes.
		users := v1.Group("/users")
		{
			users.POST("/register", deps.ProfileHandler.Register)
			users.GET("/:id/profile", deps.ProfileHandler.GetProfile)
			users.PATCH("/:id/profile", deps.ProfileHandler.UpdateProfile)

			// Phone-change verification flow.
			users.POST("/:id/phone-change", deps.ProfileHandler.StartPhoneChange)
			users.POST("/:id/phone-change/resend", deps.ProfileHandler.ResendPhoneChangeCodes)
			users.POST("/:id/phone-change/verify", deps.ProfileHandler.VerifyPhoneChange)
			users.DELETE("/:id/phone-change", deps.ProfileHandler.AbandonPhoneChange)

			// Saved addresses.
			users.POST("/:id/addresses", deps.AddressHandler.Save)
			users.GET("/:id/addresses", deps.AddressHandler.List)
			users.DELETE("/:id/addresses/:addressID", deps.AddressHandler.Delete)

			// Simulated ride lifecycle.
			users.POST("/:id/rides", deps.RideHandler.Start)
			users.GET("/:id/rides/active", deps.RideHandler.Status)
			users.DELETE("/:id/rides/active", deps.RideHandler.Cancel)
			users.GET("/:id/rides/ws", deps.WSHandler.Stream)

			// Wallet.
			users.GET("/:id/wallet", deps.WalletHandler.Get)
			users.POST("/:id/wallet/topup", deps.WalletHandler.TopUp)
			users.GET("/:id/wallet/transactions", deps.WalletHandler.ListTransactions)

			// Trip history.
			users.GET("/:id/trips", deps.TripHandler.History)
			users.GET("/:id/trips/:tripID", deps.TripHandler.Get)
		}

		// Coupon and referral routes.
		v1.GET("/coupons/:code", deps.CouponHandler.Check)
		v1.POST("/referrals/validate", deps.CouponHandler.ValidateReferral)
	}

	return router
}
