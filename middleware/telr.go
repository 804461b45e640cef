package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/payment"
	log "github.com/sirupsen/logrus"
)

// TelrWebhookAuth verifies the Telr notification signature. Sandbox mode
// skips the check.
func TelrWebhookAuth(secret string, sandbox bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sandbox {
			log.Debug("Sandbox mode: skipping Telr webhook signature verification")
			c.Next()
			return
		}
		if secret == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "webhook secret not configured"})
			c.Abort()
			return
		}

		if err := c.Request.ParseForm(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse form for signature verification"})
			c.Abort()
			return
		}

		if c.Request.PostForm.Get("tran_check") == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "missing tran_check signature"})
			c.Abort()
			return
		}
		if !payment.VerifySignature(secret, c.Request.PostForm) {
			log.WithField("cart_id", c.Request.PostForm.Get("tran_cartid")).Warn("Invalid Telr webhook signature")
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid webhook signature"})
			c.Abort()
			return
		}

		c.Next()
	}
}
