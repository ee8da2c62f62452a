package payfast

import (
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
)

// CheckoutParams carries everything needed to send a payer to PayFast's
// hosted payment page. The custom_str fields come back verbatim in the
// ITN and are our only correlation with the originating payment.
type CheckoutParams struct {
	MerchantID  string
	MerchantKey string
	Passphrase  string
	Host        string

	ReturnURL string
	CancelURL string
	NotifyURL string

	Amount   decimal.Decimal
	ItemName string

	InvoiceID uint
	ClubID    uint
	PaymentID uint
}

// BuildRedirectURL assembles the signed hosted-checkout URL.
func BuildRedirectURL(p CheckoutParams) string {
	fields := map[string]string{
		"merchant_id":  p.MerchantID,
		"merchant_key": p.MerchantKey,
		"return_url":   p.ReturnURL,
		"cancel_url":   p.CancelURL,
		"notify_url":   p.NotifyURL,
		"amount":       p.Amount.StringFixed(2),
		"item_name":    p.ItemName,
		"custom_str1":  fmt.Sprint(p.InvoiceID),
		"custom_str2":  fmt.Sprint(p.ClubID),
		"custom_str3":  fmt.Sprint(p.PaymentID),
	}
	fields["signature"] = Signature(fields, p.Passphrase)

	q := url.Values{}
	for k, v := range fields {
		q.Set(k, v)
	}
	return fmt.Sprintf("https://%s/eng/process?%s", p.Host, q.Encode())
}
