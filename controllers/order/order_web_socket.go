package orderControllers

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/realtime"
)

// GET /admin/orders/ws
func OrderWebSocketHandler(hub *realtime.Hub) gin.HandlerFunc {
	return hub.ServeWS
}
