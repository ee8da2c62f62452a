package yoco

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const checkoutEndpoint = "https://payments.yoco.com/api/checkouts"

// CheckoutRequest creates a hosted Yoco checkout. Amounts are in cents;
// metadata carries our correlation ids back through the webhook.
type CheckoutRequest struct {
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	SuccessURL  string            `json:"successUrl,omitempty"`
	CancelURL   string            `json:"cancelUrl,omitempty"`
	FailureURL  string            `json:"failureUrl,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type CheckoutResponse struct {
	ID          string `json:"id"`
	RedirectURL string `json:"redirectUrl"`
	Status      string `json:"status"`
}

// CreateCheckout calls Yoco's checkout API with the secret key.
func CreateCheckout(secretKey string, amount decimal.Decimal, successURL, cancelURL string, metadata map[string]string) (*CheckoutResponse, error) {
	req := CheckoutRequest{
		Amount:     amount.Mul(decimal.NewFromInt(100)).IntPart(),
		Currency:   "ZAR",
		SuccessURL: successURL,
		CancelURL:  cancelURL,
		Metadata:   metadata,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequest(http.MethodPost, checkoutEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+secretKey)

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("yoco checkout call failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("yoco checkout returned %d: %s", resp.StatusCode, string(respBody))
	}

	var out CheckoutResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("yoco checkout response malformed: %w", err)
	}
	return &out, nil
}
