package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/hermanjons/OrderScout-sub000/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, auth *middleware.Authenticator) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		// Latest order snapshots (public read access)
		v1.GET("/orders/latest", handler.ListLatestOrders)

		v1.POST("/orders/:order_number/printed", auth.Require(middleware.ScopeOrdersPrint), handler.MarkOrderPrinted)

		// Registers the credentials order-sync fetches with
		v1.PUT("/accounts", auth.Require(middleware.ScopeAccountsWrite), handler.UpsertAccount)
	}
}
