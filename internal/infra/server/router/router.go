// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ecovekt/backend/internal/infra/metrics"
	"github.com/ecovekt/backend/internal/integration/entrypoint/controller"
	"github.com/ecovekt/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine               *gin.Engine
	healthController     *controller.HealthController
	documentController   *controller.DocumentController
	pendingController    *controller.PendingController
	catalogController    *controller.CatalogController
	statisticsController *controller.StatisticsController
	submitRateLimiter    *middleware.RateLimiter
	authMiddleware       *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	documentController *controller.DocumentController,
	pendingController *controller.PendingController,
	catalogController *controller.CatalogController,
	statisticsController *controller.StatisticsController,
	submitRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:     healthController,
		documentController:   documentController,
		pendingController:    pendingController,
		catalogController:    catalogController,
		statisticsController: statisticsController,
		submitRateLimiter:    submitRateLimiter,
		authMiddleware:       authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check and metrics endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
	r.engine.GET("/metrics", gin.WrapH(metrics.Handler()))
}

// setupAPIRoutes configures the main API routes. Every API route requires
// authentication.
func (r *Router) setupAPIRoutes() {
	if r.authMiddleware == nil {
		return
	}

	v1 := r.engine.Group("/api/v1")
	v1.Use(r.authMiddleware.Authenticate())
	{
		if r.documentController != nil {
			documents := v1.Group("/collections/:collection/documents")
			{
				documents.POST("", r.documentController.Add)
				documents.GET("", r.documentController.List)
				documents.GET("/:id", r.documentController.Get)
				documents.PUT("/:id", r.documentController.Set)
			}
		}

		if r.pendingController != nil {
			pending := v1.Group("/pending")
			{
				pending.POST("/entries", r.pendingController.Append)
				pending.GET("/groups", r.pendingController.Groups)
				pending.DELETE("/groups", r.pendingController.DeleteGroup)
				pending.DELETE("/groups/:key", r.pendingController.DeleteGroup)
				pending.GET("/last", r.pendingController.Last)
				if r.submitRateLimiter != nil {
					pending.POST("/submit", r.submitRateLimiter.Middleware(), r.pendingController.Submit)
				} else {
					pending.POST("/submit", r.pendingController.Submit)
				}
			}
		}

		if r.catalogController != nil {
			v1.GET("/waste-categories", r.catalogController.List)
			v1.GET("/me/selected-waste", r.catalogController.GetSelection)
			v1.PUT("/me/selected-waste", r.catalogController.UpdateSelection)
		}

		if r.statisticsController != nil {
			v1.GET("/me/statistics", r.statisticsController.Get)
		}
	}
}
