package payfast

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"clubmanager/internal/domain/payments"
)

// StatusMap translates PayFast's payment_status vocabulary. Anything
// unrecognized stays PENDING rather than being dropped.
var StatusMap = map[string]string{
	"COMPLETE":  payments.StatusCompleted,
	"FAILED":    payments.StatusFailed,
	"CANCELLED": payments.StatusCancelled,
	"PENDING":   payments.StatusPending,
}

// Signature computes the ITN signature: MD5 over the url-encoded,
// key-sorted, non-empty fields (the signature field itself excluded),
// with the merchant passphrase appended when configured.
func Signature(fields map[string]string, passphrase string) string {
	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		if k == "signature" || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(encode(fields[k]))
	}
	if passphrase != "" {
		b.WriteString("&passphrase=")
		b.WriteString(encode(passphrase))
	}

	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// VerifySignature compares the supplied signature in constant time.
func VerifySignature(fields map[string]string, passphrase string) bool {
	supplied := strings.ToLower(fields["signature"])
	if supplied == "" {
		return false
	}
	expected := Signature(fields, passphrase)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(supplied)) == 1
}

// PayFast uses PHP-style urlencoding: spaces become '+' and hex escapes
// are uppercased, which url.QueryEscape already produces.
func encode(v string) string {
	return url.QueryEscape(v)
}

// ValidateWithHost posts the received fields back to PayFast's validate
// endpoint and requires the literal body "VALID".
func ValidateWithHost(host string, fields map[string]string) error {
	form := url.Values{}
	for k, v := range fields {
		if k == "signature" {
			continue
		}
		form.Set(k, v)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.PostForm(fmt.Sprintf("https://%s/eng/query/validate", host), form)
	if err != nil {
		return fmt.Errorf("payfast validate call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		return fmt.Errorf("payfast validate read failed: %w", err)
	}
	if strings.TrimSpace(string(body)) != "VALID" {
		return fmt.Errorf("payfast validate rejected notification: %q", strings.TrimSpace(string(body)))
	}
	return nil
}
