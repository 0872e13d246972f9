// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"stocklens/internal/core/dialect"
	"stocklens/internal/domain/analytics"
	"stocklens/internal/infrastructure/http/v1/handlers"
	"stocklens/internal/infrastructure/http/v1/middleware"
	"stocklens/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Analytics is the domain service behind every reporting endpoint.
	Analytics *analytics.Service

	// Storage is the active backend, probed by the readiness check.
	Storage handlers.Pinger

	// Dialect names the active storage backend for /health/info.
	Dialect dialect.Dialect

	// Logger for request logging.
	Logger *logger.Logger
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Storage, cfg.Dialect)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()
	analyticsHandler := handlers.NewAnalyticsHandler(base, cfg.Analytics)

	api := router.Group("/api/v1")
	{
		a := api.Group("/analytics")
		{
			a.GET("/financial/summary", analyticsHandler.GetFinancialSummary)
			a.GET("/monthly-movement", analyticsHandler.GetMonthlyMovement)
			a.GET("/daily-valuation", analyticsHandler.GetDailyValuation)
			a.GET("/price-trend", analyticsHandler.GetPriceTrend)
			a.GET("/stock-per-supplier", analyticsHandler.GetStockPerSupplier)
			a.GET("/item-update-frequency", analyticsHandler.GetItemUpdateFrequency)
			a.GET("/low-stock", analyticsHandler.GetLowStock)
			a.GET("/low-stock/count", analyticsHandler.GetLowStockCount)
			a.GET("/dashboard", analyticsHandler.GetDashboard)
		}
	}

	return router
}
