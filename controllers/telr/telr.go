package telrControllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	billControllers "github.com/junaidrashid-git/cafe-api/controllers/bill"
	"github.com/junaidrashid-git/cafe-api/cart"
	"github.com/junaidrashid-git/cafe-api/middleware"
	"github.com/junaidrashid-git/cafe-api/models"
	"github.com/junaidrashid-git/cafe-api/payment"
	log "github.com/sirupsen/logrus"
)

// PaymentCreator opens a hosted payment page.
type PaymentCreator interface {
	CreatePayment(ctx context.Context, req payment.Request) (payment.Link, error)
}

// PaymentStore is what the Telr handlers need from the order store.
type PaymentStore interface {
	billControllers.BillStore
	UnpaidForSession(ctx context.Context, sessionID string) ([]models.Order, error)
	SetPaymentRef(ctx context.Context, ids []uint, ref string) error
	ByPaymentRef(ctx context.Context, ref string) ([]models.Order, error)
}

type PayBillRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone"`
}

type PayBillResponse struct {
	payment.Link
	CartID      string `json:"cart_id"`
	OrderIDs    []uint `json:"order_ids"`
	Amount      int64  `json:"amount"`
	AmountRupee string `json:"amount_rupees"`
}

func newBillCartID() string {
	return "BILL-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

// POST /bills/pay
//
// Opens a Telr payment page for every unsettled order of the caller's
// session and tags those orders with the bill's cart id.
func PayBill(orders PaymentStore, gateway PaymentCreator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input PayBillRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
			return
		}

		ctx := c.Request.Context()
		sid := middleware.SessionID(c)
		unpaid, err := orders.UnpaidForSession(ctx, sid)
		if err != nil {
			log.WithError(err).Error("❌ Failed to load unpaid orders")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load bill"})
			return
		}
		if len(unpaid) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to pay"})
			return
		}

		var (
			total int64
			ids   = make([]uint, 0, len(unpaid))
		)
		for _, o := range unpaid {
			total += o.TotalAmount
			ids = append(ids, o.ID)
		}
		name, phone := input.Name, input.Phone
		if name == "" {
			name = unpaid[0].Address.Name
		}
		if phone == "" {
			phone = unpaid[0].Address.Phone
		}

		cartID := newBillCartID()
		link, err := gateway.CreatePayment(ctx, payment.Request{
			CartID:      cartID,
			Amount:      cart.Paise(total),
			Description: "Cafe bill " + unpaid[0].Address.CustomerKey(),
			Name:        name,
			Email:       input.Email,
			Phone:       phone,
		})
		if err != nil {
			if errors.Is(err, payment.ErrNotConfigured) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
				return
			}
			log.WithError(err).WithField("cart_id", cartID).Error("❌ Telr payment request failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		if err := orders.SetPaymentRef(ctx, ids, cartID); err != nil {
			log.WithError(err).WithField("cart_id", cartID).Error("❌ Failed to tag orders with payment ref")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record payment"})
			return
		}

		log.WithFields(log.Fields{"cart_id": cartID, "telr_ref": link.Ref, "amount": total}).Info("💳 Telr payment created")
		c.JSON(http.StatusOK, PayBillResponse{
			Link:        link,
			CartID:      cartID,
			OrderIDs:    ids,
			Amount:      total,
			AmountRupee: cart.Paise(total).Rupees().StringFixed(2),
		})
	}
}

// POST /payment/webhook
//
// The signature is checked by middleware.TelrWebhookAuth before this runs.
// An approved payment settles the bill only when tran_amount equals the sum
// of the tagged orders.
func TelrWebhookHandler(orders PaymentStore, feed billControllers.Broadcaster) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse form"})
			return
		}
		form := c.Request.PostForm
		cartID := form.Get("tran_cartid")
		if cartID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing tran_cartid"})
			return
		}

		logger := log.WithFields(log.Fields{"cart_id": cartID, "tran_ref": form.Get("tran_ref")})
		if !payment.Approved(form) {
			logger.WithField("tran_status", form.Get("tran_status")).Info("Telr payment not approved")
			c.JSON(http.StatusOK, gin.H{"message": "Payment not successful"})
			return
		}

		ctx := c.Request.Context()
		tagged, err := orders.ByPaymentRef(ctx, cartID)
		if err != nil {
			logger.WithError(err).Error("❌ Failed to load bill orders")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load bill"})
			return
		}
		if len(tagged) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "no orders for cart id"})
			return
		}

		var due int64
		ids := make([]uint, 0, len(tagged))
		for _, o := range tagged {
			due += o.TotalAmount
			ids = append(ids, o.ID)
		}
		paid, err := cart.ParseRupees(form.Get("tran_amount"))
		if err != nil {
			logger.WithError(err).Warn("⚠️ Telr callback without a usable amount")
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tran_amount"})
			return
		}
		if int64(paid) != due {
			logger.WithFields(log.Fields{"paid": int64(paid), "due": due}).Warn("⚠️ Telr amount does not match bill, not settling")
			c.JSON(http.StatusConflict, gin.H{"error": "amount does not match bill"})
			return
		}
		if _, err := billControllers.Settle(ctx, orders, feed, ids); err != nil {
			logger.WithError(err).Error("❌ Failed to settle paid bill")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to settle bill", "details": err.Error()})
			return
		}

		logger.Info("✅ Telr payment settled bill")
		c.JSON(http.StatusOK, gin.H{"message": "Bill paid"})
	}
}
