package routes

import (
	"github.com/gin-gonic/gin"
	telrControllers "github.com/junaidrashid-git/cafe-api/controllers/telr"
	"github.com/junaidrashid-git/cafe-api/middleware"
)

func SetupTelrRoutes(r *gin.Engine, d Deps) {
	// Online settlement of the caller's open bill
	r.POST("/bills/pay",
		middleware.RequireSession(d.Issuer),
		telrControllers.PayBill(d.Orders, d.Telr),
	)

	payment := r.Group("/payment")
	{
		// Webhook endpoint: middleware handles sandbox/prod verification
		payment.POST("/webhook",
			middleware.TelrWebhookAuth(d.TelrWebhookSecret, d.TelrSandbox),
			telrControllers.TelrWebhookHandler(d.Orders, d.Hub),
		)
	}
}
