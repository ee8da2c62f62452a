package payfast

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func itnFields() map[string]string {
	return map[string]string{
		"m_payment_id":   "ref-0001",
		"pf_payment_id":  "1089250",
		"payment_status": "COMPLETE",
		"amount_gross":   "650.00",
		"amount_fee":     "-14.95",
		"amount_net":     "635.05",
		"merchant_id":    "10000100",
		"custom_str1":    "42",
		"custom_str2":    "7",
		"custom_str3":    "13",
		"email_address":  "jo@example.com",
	}
}

func TestVerifySignatureRoundTrip(t *testing.T) {
	fields := itnFields()
	fields["signature"] = Signature(fields, "jt7NOE43FZPn")
	assert.True(t, VerifySignature(fields, "jt7NOE43FZPn"))
}

func TestVerifySignatureTamperedField(t *testing.T) {
	fields := itnFields()
	fields["signature"] = Signature(fields, "jt7NOE43FZPn")

	fields["amount_gross"] = "1.00"
	assert.False(t, VerifySignature(fields, "jt7NOE43FZPn"))
}

func TestVerifySignatureWrongPassphrase(t *testing.T) {
	fields := itnFields()
	fields["signature"] = Signature(fields, "jt7NOE43FZPn")
	assert.False(t, VerifySignature(fields, "different"))
}

func TestVerifySignatureMissing(t *testing.T) {
	assert.False(t, VerifySignature(itnFields(), "jt7NOE43FZPn"))
}

func TestSignatureSkipsEmptyFields(t *testing.T) {
	fields := itnFields()
	want := Signature(fields, "")

	// PayFast omits empty fields from the signature base string, so a
	// blank extra field must not change the result.
	fields["name_first"] = ""
	assert.Equal(t, want, Signature(fields, ""))
}

func TestSignatureNoPassphrase(t *testing.T) {
	fields := itnFields()
	assert.NotEqual(t, Signature(fields, ""), Signature(fields, "jt7NOE43FZPn"))
}

func TestBuildRedirectURL(t *testing.T) {
	u := BuildRedirectURL(CheckoutParams{
		MerchantID:  "10000100",
		MerchantKey: "46f0cd694581a",
		Passphrase:  "jt7NOE43FZPn",
		Host:        "sandbox.payfast.co.za",
		Amount:      decimal.NewFromInt(650),
		ItemName:    "Invoice INV-1-202405-0001",
		ReturnURL:   "https://app.example.com/billing/return",
		CancelURL:   "https://app.example.com/billing/cancel",
		NotifyURL:   "https://app.example.com/webhooks/payfast",
		InvoiceID:   42,
		ClubID:      7,
		PaymentID:   13,
	})
	assert.Contains(t, u, "https://sandbox.payfast.co.za/eng/process?")
	assert.Contains(t, u, "amount=650.00")
	assert.Contains(t, u, "custom_str1=42")
	assert.Contains(t, u, "custom_str3=13")
	assert.Contains(t, u, "signature=")
}
