package stripewebhooks

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"clubmanager/database"
	"clubmanager/internal/domain/payments"
	stripestatus "clubmanager/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
)

// StripeWebhook handles card payments for invoices. Signature checking
// is Stripe's own scheme; everything after verification funnels into the
// same reconciler as PayFast and Yoco.
func StripeWebhook(c *gin.Context) {
	endpointSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	if endpointSecret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_WEBHOOK_SECRET not configured"})
		return
	}

	payload, err := readStripeBody(c, 65536)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		endpointSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		fmt.Println("❌ Stripe signature verification failed:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	switch event.Type {
	case "checkout.session.completed", "checkout.session.expired":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse session"})
			return
		}
		handleCheckoutSession(c, event.ID, &session, payload)
		return

	default:
		// Acknowledge unknown events to avoid retries
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}
}

func handleCheckoutSession(c *gin.Context, eventID string, session *stripe.CheckoutSession, payload []byte) {
	invoiceID, err1 := parseUintField(session.Metadata, "invoice_id")
	clubID, err2 := parseUintField(session.Metadata, "club_id")
	paymentID, err3 := parseUintField(session.Metadata, "payment_id")
	if err1 != nil || err2 != nil || err3 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing correlation metadata"})
		return
	}

	notification := payments.Notification{
		Provider:  payments.MethodStripe,
		EventID:   eventID,
		PaymentID: paymentID,
		ClubID:    clubID,
		InvoiceID: invoiceID,
		Status:    payments.MapGatewayStatus(string(session.PaymentStatus), stripestatus.StatusMap),
		Reason:    string(session.Status),
		Amount:    decimal.NewFromInt(session.AmountTotal).Div(decimal.NewFromInt(100)),
		Metadata: map[string]string{
			"stripe_session_id": session.ID,
			"stripe_status":     string(session.Status),
			"payment_status":    string(session.PaymentStatus),
		},
		Payload: string(payload),
	}
	// An expired checkout cancels the attempt, not the invoice.
	if string(session.Status) == "expired" {
		notification.Status = payments.StatusCancelled
	}

	outcome, err := payments.Reconcile(database.DB, notification)
	if err != nil {
		if errors.Is(err, payments.ErrPaymentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		fmt.Println("❌ Stripe webhook reconcile error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process event"})
		return
	}

	if outcome.Duplicate {
		c.JSON(http.StatusOK, gin.H{"status": "duplicate"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}

func parseUintField(fields map[string]string, key string) (uint, error) {
	raw := fields[key]
	if raw == "" {
		return 0, fmt.Errorf("missing %s", key)
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
