package http

import (
	"github.com/gin-gonic/gin"

	"github.com/aislemate/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		v1.POST("/shopping-list", handler.BuildShoppingList)
		v1.POST("/match", handler.MatchIngredients)

		deals := v1.Group("/deals")
		{
			deals.GET("", handler.ListDeals)
			deals.GET("/aisle/:aisle", handler.ListAisleDeals)
		}
	}

	return router
}
