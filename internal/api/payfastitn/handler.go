package payfastitn

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"clubmanager/config"
	"clubmanager/database"
	"clubmanager/internal/domain/payments"
	"clubmanager/internal/infra/payfast"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// HandleITN consumes PayFast's Instant Transaction Notification. PayFast
// expects a bare 200 once we accept the notification and will redeliver
// on any 5xx, so internal failures must be 500 here, never 4xx.
func HandleITN(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed form body"})
		return
	}
	fields := flattenForm(c.Request.PostForm)

	if !payfast.VerifySignature(fields, config.PAYFAST_PASSPHRASE) {
		fmt.Println("❌ PayFast ITN signature verification failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	if fields["merchant_id"] != config.PAYFAST_MERCHANT_ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Merchant mismatch"})
		return
	}

	// Server-to-server confirmation with PayFast itself.
	if config.PAYFAST_VALIDATE_ITN {
		if err := payfast.ValidateWithHost(config.PAYFAST_HOST, fields); err != nil {
			fmt.Println("❌ PayFast ITN validate failed:", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Notification rejected by PayFast"})
			return
		}
	}

	invoiceID, err1 := parseUintField(fields, "custom_str1")
	clubID, err2 := parseUintField(fields, "custom_str2")
	paymentID, err3 := parseUintField(fields, "custom_str3")
	if err1 != nil || err2 != nil || err3 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing correlation fields"})
		return
	}

	pfPaymentID := fields["pf_payment_id"]
	if pfPaymentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing pf_payment_id"})
		return
	}

	amount, _ := decimal.NewFromString(fields["amount_gross"])

	notification := payments.Notification{
		Provider:  payments.MethodPayfast,
		EventID:   pfPaymentID,
		PaymentID: paymentID,
		ClubID:    clubID,
		InvoiceID: invoiceID,
		Status:    payments.MapGatewayStatus(fields["payment_status"], payfast.StatusMap),
		Reason:    fields["reason"],
		Amount:    amount,
		Metadata: map[string]string{
			"pf_payment_id":  pfPaymentID,
			"payment_status": fields["payment_status"],
			"amount_gross":   fields["amount_gross"],
			"amount_fee":     fields["amount_fee"],
			"amount_net":     fields["amount_net"],
		},
		Payload: c.Request.PostForm.Encode(),
	}

	outcome, err := payments.Reconcile(database.DB, notification)
	if err != nil {
		if errors.Is(err, payments.ErrPaymentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		// 5xx so PayFast's retry mechanism redelivers.
		fmt.Println("❌ PayFast ITN reconcile error:", err)
		c.String(http.StatusInternalServerError, "ERROR")
		return
	}

	if outcome.Duplicate {
		fmt.Println("ℹ️ PayFast ITN redelivery ignored:", pfPaymentID)
	}
	c.String(http.StatusOK, "OK")
}

func flattenForm(form url.Values) map[string]string {
	fields := make(map[string]string, len(form))
	for k := range form {
		fields[k] = form.Get(k)
	}
	return fields
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
