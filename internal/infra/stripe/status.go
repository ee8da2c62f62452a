package stripe

import "clubmanager/internal/domain/payments"

// Stripe checkout payment_status normalization, used only by the
// stripe webhook handler.
var StatusMap = map[string]string{
	"paid":                payments.StatusCompleted,
	"complete":            payments.StatusCompleted,
	"unpaid":              payments.StatusPending,
	"no_payment_required": payments.StatusCompleted,
	"expired":             payments.StatusCancelled,
}
