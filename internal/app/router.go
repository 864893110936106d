package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"wanderwise/internal/handler"
	"wanderwise/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	TripHandler          *handler.TripHandler
	QuoteHandler         *handler.QuoteHandler
	PaymentMethodHandler *handler.PaymentMethodHandler
	ChargeHandler        *handler.ChargeHandler
	CheckoutHandler      *handler.CheckoutHandler
	RedisClient          *redis.Client
	NewRelicApp          *newrelic.Application
	JWTSecret            string
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes: everything behind the verified-identity boundary.
	v1 := router.Group("/v1")
	v1.Use(middleware.AuthMiddleware(deps.JWTSecret))
	{
		// Tier catalog and quotes.
		v1.GET("/tiers", deps.QuoteHandler.GetTiers)
		v1.POST("/quotes", deps.QuoteHandler.Quote)

		// Trip routes.
		trips := v1.Group("/trips")
		{
			trips.POST("", deps.TripHandler.CreateTrip)
			trips.GET("", deps.TripHandler.GetAll)
			trips.GET("/:id", deps.TripHandler.GetTrip)
			trips.POST("/:id/quote", deps.QuoteHandler.QuoteTrip)
			trips.GET("/:id/payments", deps.TripHandler.GetPayments)
		}

		// Payment method lifecycle.
		paymentMethods := v1.Group("/payment-methods")
		{
			paymentMethods.POST("", deps.PaymentMethodHandler.Attach)
			paymentMethods.GET("", deps.PaymentMethodHandler.Get)
		}

		// Settlement paths.
		v1.POST("/charges", deps.ChargeHandler.Charge)
		v1.POST("/checkout-sessions", deps.CheckoutHandler.CreateSession)
	}

	return router
}
