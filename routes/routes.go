package routes

import (
	"trimly/handlers"
	"trimly/middleware"
	"trimly/services/tenant"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires all endpoints. Every /api/v1 route passes the tenant
// guard; there is no unauthenticated path into the engine.
func RegisterRoutes(r *gin.Engine, bookingHandler *handlers.BookingHandler, resolver tenant.Resolver) {
	r.GET("/health", handlers.Health)

	api := r.Group("/api/v1")
	api.Use(middleware.TenantMiddleware(resolver))
	{
		api.GET("/availability", bookingHandler.GetAvailability)

		reservations := api.Group("/reservations")
		{
			reservations.POST("/hold", bookingHandler.CreateHold)
			reservations.POST("/:id/confirm", bookingHandler.Confirm)
			reservations.POST("/:id/cancel", bookingHandler.Cancel)
			reservations.POST("/:id/complete", bookingHandler.Complete)
			reservations.GET("", bookingHandler.ListReservations)
		}

		api.GET("/resources/:id/day", bookingHandler.GetResourceDay)
	}
}
