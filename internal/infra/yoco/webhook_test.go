package yoco

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testSecret = "whsec_dGVzdC1zaWduaW5nLWtleQ=="

func TestVerifyWebhook(t *testing.T) {
	body := []byte(`{"type":"payment.succeeded","payload":{"id":"p_123"}}`)
	sig := WebhookSignature(testSecret, "evt_1", "1714650000", body)

	assert.True(t, VerifyWebhook(testSecret, "evt_1", "1714650000", "v1,"+sig, body))
}

func TestVerifyWebhookMultipleEntries(t *testing.T) {
	body := []byte(`{"type":"payment.succeeded"}`)
	sig := WebhookSignature(testSecret, "evt_1", "1714650000", body)

	header := "v1,bm90LXRoaXMtb25l v1," + sig
	assert.True(t, VerifyWebhook(testSecret, "evt_1", "1714650000", header, body))
}

func TestVerifyWebhookRejectsTampering(t *testing.T) {
	body := []byte(`{"type":"payment.succeeded"}`)
	sig := WebhookSignature(testSecret, "evt_1", "1714650000", body)

	// Body swapped after signing.
	assert.False(t, VerifyWebhook(testSecret, "evt_1", "1714650000", "v1,"+sig, []byte(`{"type":"payment.failed"}`)))
	// Timestamp swapped (replay with a stale signature).
	assert.False(t, VerifyWebhook(testSecret, "evt_1", "1714650999", "v1,"+sig, body))
	// Wrong secret.
	other := "whsec_" + base64.StdEncoding.EncodeToString([]byte("another-key"))
	assert.False(t, VerifyWebhook(other, "evt_1", "1714650000", "v1,"+sig, body))
}

func TestVerifyWebhookMissingHeaders(t *testing.T) {
	body := []byte(`{}`)
	assert.False(t, VerifyWebhook(testSecret, "", "1714650000", "v1,abc", body))
	assert.False(t, VerifyWebhook(testSecret, "evt_1", "", "v1,abc", body))
	assert.False(t, VerifyWebhook(testSecret, "evt_1", "1714650000", "", body))
}
