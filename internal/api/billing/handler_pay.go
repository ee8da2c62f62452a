package billing

import (
	"fmt"
	"net/http"
	"os"

	"clubmanager/config"
	"clubmanager/database"
	"clubmanager/internal/domain/invoices"
	"clubmanager/internal/domain/payments"
	"clubmanager/internal/infra/payfast"
	"clubmanager/internal/infra/yoco"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
)

// POST /invoices/:id/pay: creates a PENDING payment and hands back the
// gateway URL the payer must be redirected to. The reconciler picks the
// payment up again when the gateway's notification arrives.
func PayInvoice(c *gin.Context) {
	clubID := c.GetUint("club_id")
	userID := c.GetUint("user_id")

	var input struct {
		Gateway string `json:"gateway" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var inv invoices.Invoice
	if err := database.DB.Where("id = ? AND club_id = ? AND payer_id = ?",
		c.Param("id"), clubID, userID).First(&inv).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}
	if inv.Status == invoices.StatusPaid {
		c.JSON(http.StatusConflict, gin.H{"error": "Invoice is already paid"})
		return
	}
	if inv.Status == invoices.StatusCancelled {
		c.JSON(http.StatusConflict, gin.H{"error": "Invoice is cancelled"})
		return
	}
	if !inv.Total.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invoice total must be positive"})
		return
	}

	invoiceID := inv.ID
	payment := payments.Payment{
		ClubID:    clubID,
		PayerID:   userID,
		InvoiceID: &invoiceID,
		Amount:    inv.Total,
		Method:    input.Gateway,
		Status:    payments.StatusPending,
		Reference: uuid.NewString(),
	}

	var payURL string
	switch input.Gateway {
	case payments.MethodPayfast:
		if config.PAYFAST_MERCHANT_ID == "" || config.PAYFAST_MERCHANT_KEY == "" {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "PayFast not configured"})
			return
		}
		if err := database.DB.Create(&payment).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment"})
			return
		}
		payURL = payfast.BuildRedirectURL(payfast.CheckoutParams{
			MerchantID:  config.PAYFAST_MERCHANT_ID,
			MerchantKey: config.PAYFAST_MERCHANT_KEY,
			Passphrase:  config.PAYFAST_PASSPHRASE,
			Host:        config.PAYFAST_HOST,
			ReturnURL:   config.APP_URL + "/invoices/" + fmt.Sprint(inv.ID) + "?paid=1",
			CancelURL:   config.APP_URL + "/invoices/" + fmt.Sprint(inv.ID) + "?cancelled=1",
			NotifyURL:   config.APP_URL + "/webhooks/payfast",
			Amount:      inv.Total,
			ItemName:    "Invoice " + inv.Number,
			InvoiceID:   inv.ID,
			ClubID:      clubID,
			PaymentID:   payment.ID,
		})

	case payments.MethodYoco:
		if config.YOCO_SECRET_KEY == "" {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Yoco not configured"})
			return
		}
		if err := database.DB.Create(&payment).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment"})
			return
		}
		checkout, err := yoco.CreateCheckout(
			config.YOCO_SECRET_KEY,
			inv.Total,
			config.APP_URL+"/invoices/"+fmt.Sprint(inv.ID)+"?paid=1",
			config.APP_URL+"/invoices/"+fmt.Sprint(inv.ID)+"?cancelled=1",
			correlationMetadata(inv.ID, clubID, payment.ID),
		)
		if err != nil {
			fmt.Println("❌ Yoco checkout error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Yoco checkout"})
			return
		}
		payURL = checkout.RedirectURL

	case payments.MethodStripe:
		stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
		if stripe.Key == "" {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe not configured"})
			return
		}
		if err := database.DB.Create(&payment).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment"})
			return
		}
		params := &stripe.CheckoutSessionParams{
			SuccessURL: stripe.String(config.APP_URL + "/invoices/" + fmt.Sprint(inv.ID) + "?paid=1"),
			CancelURL:  stripe.String(config.APP_URL + "/invoices/" + fmt.Sprint(inv.ID) + "?cancelled=1"),
			Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
			LineItems: []*stripe.CheckoutSessionLineItemParams{
				{
					PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
						Currency:   stripe.String("zar"),
						UnitAmount: stripe.Int64(inv.Total.Mul(decimalHundred).IntPart()),
						ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
							Name: stripe.String("Invoice " + inv.Number),
						},
					},
					Quantity: stripe.Int64(1),
				},
			},
			ClientReferenceID: stripe.String(payment.Reference),
			Metadata:          correlationMetadata(inv.ID, clubID, payment.ID),
		}
		s, err := checkoutsession.New(params)
		if err != nil {
			fmt.Println("❌ Stripe checkout error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
			return
		}
		payURL = s.URL

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown gateway"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payment_id": payment.ID,
		"reference":  payment.Reference,
		"url":        payURL,
	})
}

var decimalHundred = decimal.NewFromInt(100)

func correlationMetadata(invoiceID, clubID, paymentID uint) map[string]string {
	return map[string]string{
		"invoice_id": fmt.Sprint(invoiceID),
		"club_id":    fmt.Sprint(clubID),
		"payment_id": fmt.Sprint(paymentID),
	}
}
