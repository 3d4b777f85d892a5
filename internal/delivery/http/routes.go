package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/freshtrack/backend/config"
	"github.com/freshtrack/backend/internal/auth"
	"github.com/freshtrack/backend/internal/domain"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, tokens *auth.TokenManager) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))

	// Operational endpoints
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", handler.Register)
			authGroup.POST("/login", handler.Login)
		}

		// Everything below requires a valid bearer token
		authed := v1.Group("")
		authed.Use(AuthMiddleware(tokens))
		{
			scan := authed.Group("/scan")
			{
				scan.POST("/label", handler.ScanLabel)
				// Confirming a scan is just recording the chosen date
				scan.POST("/confirm", handler.CreateItem)
			}

			items := authed.Group("/items")
			{
				items.POST("", handler.CreateItem)
				items.GET("", handler.ListItems)
				items.GET("/alerts", handler.Alerts)
				items.GET("/export", handler.ExportItems)
				items.GET("/:id", handler.GetItem)
				items.PUT("/:id", handler.UpdateItem)
				items.DELETE("/:id", handler.DeleteItem)
			}

			nutrition := authed.Group("/nutrition")
			{
				nutrition.GET("/barcode/:code", handler.LookupBarcode)
				nutrition.POST("/search", handler.SearchNutrition)
			}

			retail := authed.Group("/retail")
			retail.Use(RequireRole(domain.RoleRetailer))
			{
				retail.POST("/discounts", handler.CreateDiscount)
				retail.GET("/discounts", handler.ListDiscounts)
				retail.PATCH("/discounts/:id/toggle", handler.ToggleDiscount)
				retail.POST("/route/:id", handler.RouteItem)
				retail.POST("/route/:id/confirm", handler.ConfirmRouting)
			}
		}
	}

	return router
}
