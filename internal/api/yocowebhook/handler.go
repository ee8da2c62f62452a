package yocowebhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"clubmanager/config"
	"clubmanager/database"
	"clubmanager/internal/domain/payments"
	"clubmanager/internal/infra/yoco"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type yocoEvent struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Payload struct {
		ID       string            `json:"id"`
		Status   string            `json:"status"`
		Amount   int64             `json:"amount"` // cents
		Currency string            `json:"currency"`
		Metadata map[string]string `json:"metadata"`
	} `json:"payload"`
}

// HandleWebhook consumes Yoco payment events. Same retry contract as the
// other gateways: 5xx on internal failure so Yoco redelivers.
func HandleWebhook(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, 65536))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	if !yoco.VerifyWebhook(
		config.YOCO_WEBHOOK_SECRET,
		c.GetHeader("webhook-id"),
		c.GetHeader("webhook-timestamp"),
		c.GetHeader("webhook-signature"),
		body,
	) {
		fmt.Println("❌ Yoco webhook signature verification failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	var event yocoEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed event"})
		return
	}

	mapped, ok := yoco.StatusMap[event.Type]
	if !ok {
		// Acknowledge unknown events to avoid retries
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	meta := event.Payload.Metadata
	invoiceID, err1 := parseUintField(meta, "invoice_id")
	clubID, err2 := parseUintField(meta, "club_id")
	paymentID, err3 := parseUintField(meta, "payment_id")
	if err1 != nil || err2 != nil || err3 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing correlation metadata"})
		return
	}

	notification := payments.Notification{
		Provider:  payments.MethodYoco,
		EventID:   event.Payload.ID,
		PaymentID: paymentID,
		ClubID:    clubID,
		InvoiceID: invoiceID,
		Status:    mapped,
		Reason:    event.Payload.Status,
		Amount:    decimal.NewFromInt(event.Payload.Amount).Div(decimal.NewFromInt(100)),
		Metadata: map[string]string{
			"yoco_event_id":   event.ID,
			"yoco_payment_id": event.Payload.ID,
			"yoco_status":     event.Payload.Status,
		},
		Payload: string(body),
	}

	outcome, err := payments.Reconcile(database.DB, notification)
	if err != nil {
		if errors.Is(err, payments.ErrPaymentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		fmt.Println("❌ Yoco webhook reconcile error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process event"})
		return
	}

	if outcome.Duplicate {
		c.JSON(http.StatusOK, gin.H{"status": "duplicate"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "received"})
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
