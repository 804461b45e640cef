package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/junaidrashid-git/cafe-api/controllers/order"
	"github.com/junaidrashid-git/cafe-api/middleware"
)

// SetupOrderRoutes registers the kitchen side of orders.
func SetupOrderRoutes(r *gin.Engine, d Deps) {
	orders := r.Group("/admin/orders")
	orders.Use(middleware.RequireAdmin(d.Issuer, d.AdminAPIKey))
	{
		// Active and completed orders with the pending badge
		orders.GET("", orderControllers.ListOrders(d.Orders, d.StaleOrderAfter))

		// websocket endpoint for real-time order updates
		orders.GET("/ws", orderControllers.OrderWebSocketHandler(d.Hub))

		// pending → preparing → ready → delivered
		orders.PUT("/:orderID/status", orderControllers.UpdateOrderStatus(d.Orders, d.Hub))

		// Soft delete
		orders.DELETE("/:orderID", orderControllers.DeleteOrder(d.Orders, d.Hub))
	}
}
