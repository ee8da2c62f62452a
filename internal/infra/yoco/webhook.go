package yoco

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"clubmanager/internal/domain/payments"
)

// StatusMap translates Yoco webhook event types.
var StatusMap = map[string]string{
	"payment.succeeded": payments.StatusCompleted,
	"payment.failed":    payments.StatusFailed,
	"payment.cancelled": payments.StatusCancelled,
}

// WebhookSignature computes the expected signature for one delivery:
// base64 HMAC-SHA256 over "{id}.{timestamp}.{body}" with the endpoint
// secret (the "whsec_" prefix stripped, remainder base64-decoded).
func WebhookSignature(secret, webhookID, timestamp string, body []byte) string {
	key := decodeSecret(secret)
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(webhookID + "." + timestamp + "."))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifyWebhook checks the webhook-signature header, which may carry
// several space-separated "v1,<sig>" entries, in constant time.
func VerifyWebhook(secret, webhookID, timestamp, signatureHeader string, body []byte) bool {
	if webhookID == "" || timestamp == "" || signatureHeader == "" {
		return false
	}
	expected := WebhookSignature(secret, webhookID, timestamp, body)
	for _, part := range strings.Fields(signatureHeader) {
		supplied := part
		if i := strings.IndexByte(part, ','); i >= 0 {
			supplied = part[i+1:]
		}
		if subtle.ConstantTimeCompare([]byte(expected), []byte(supplied)) == 1 {
			return true
		}
	}
	return false
}

func decodeSecret(secret string) []byte {
	trimmed := strings.TrimPrefix(secret, "whsec_")
	if decoded, err := base64.StdEncoding.DecodeString(trimmed); err == nil {
		return decoded
	}
	return []byte(trimmed)
}
