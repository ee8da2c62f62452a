package payments

import (
	"errors"
	"fmt"
	"time"

	"clubmanager/internal/domain/invoices"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrPaymentNotFound = errors.New("payment not found")

// Notification is a gateway callback normalized to our vocabulary. Each
// gateway handler verifies its own signature scheme and builds one of
// these; the reconciler is gateway-agnostic from here on.
type Notification struct {
	Provider string
	EventID  string // gateway transaction/event id, the dedupe key

	PaymentID uint
	ClubID    uint
	InvoiceID uint // 0 when the payment stands alone

	Status string // already mapped to our status constants
	Reason string // gateway's human-readable reason, kept for the audit trail
	Amount decimal.Decimal

	Metadata map[string]string
	Payload  string
}

// Outcome reports what the reconciler did with a notification.
type Outcome struct {
	Duplicate bool
	Applied   string // status written to the payment, "" if none
}

// Reconcile applies one verified gateway notification: dedupe by event
// id, guarded status transition, invoice settlement, audit row. Any
// error returned here must surface as a 5xx so the gateway redelivers.
func Reconcile(db *gorm.DB, n Notification) (Outcome, error) {
	var existing WebhookEvent
	err := db.Where("provider = ? AND provider_event_id = ?", n.Provider, n.EventID).
		First(&existing).Error
	if err == nil && existing.ProcessedAt != nil {
		return Outcome{Duplicate: true}, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		existing = WebhookEvent{
			Provider:        n.Provider,
			ProviderEventID: n.EventID,
			Payload:         n.Payload,
			SignatureValid:  true,
		}
		if err := db.Create(&existing).Error; err != nil {
			return Outcome{}, fmt.Errorf("failed to record webhook event: %w", err)
		}
	} else if err != nil {
		return Outcome{}, fmt.Errorf("webhook event lookup failed: %w", err)
	}

	var payment Payment
	q := db.Where("id = ? AND club_id = ?", n.PaymentID, n.ClubID)
	if n.InvoiceID != 0 {
		q = q.Where("invoice_id = ?", n.InvoiceID)
	}
	if err := q.First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Outcome{}, ErrPaymentNotFound
		}
		return Outcome{}, fmt.Errorf("payment lookup failed: %w", err)
	}

	outcome := Outcome{}
	err = db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		already := payment.Status == n.Status
		if err := payment.Transition(n.Status); err != nil {
			// A terminal payment never moves again; acknowledge so the
			// gateway stops redelivering (COMPLETED is never downgraded).
			return markEventProcessed(tx, &existing, now)
		}

		payment.GatewayTransactionID = &n.EventID
		payment.MergeMetadata(n.Metadata)
		if TerminalStatus(n.Status) {
			payment.ProcessedAt = &now
		}
		if err := tx.Save(&payment).Error; err != nil {
			return fmt.Errorf("failed to update payment: %w", err)
		}

		if !already {
			outcome.Applied = n.Status
			switch n.Status {
			case StatusCompleted:
				if err := settleInvoice(tx, &payment, now); err != nil {
					return err
				}
				if err := appendActivity(tx, payment.ID, ActivityCompleted,
					fmt.Sprintf("payment completed via %s (%s)", n.Provider, n.EventID)); err != nil {
					return err
				}
			case StatusFailed:
				// Invoice stays payable; only the attempt failed.
				if err := appendActivity(tx, payment.ID, ActivityFailed,
					fmt.Sprintf("payment failed via %s: %s", n.Provider, n.Reason)); err != nil {
					return err
				}
			case StatusCancelled:
				if err := appendActivity(tx, payment.ID, ActivityCancelled,
					fmt.Sprintf("payment cancelled via %s", n.Provider)); err != nil {
					return err
				}
			}
		}

		// Only a terminal outcome consumes the event id. Gateways reuse
		// the same transaction id when the status progresses, so closing
		// the event on a PENDING notification would make the later
		// COMPLETE look like a redelivery and lose the settlement.
		if TerminalStatus(n.Status) {
			return markEventProcessed(tx, &existing, now)
		}
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	return outcome, nil
}

func settleInvoice(tx *gorm.DB, payment *Payment, at time.Time) error {
	if payment.InvoiceID == nil {
		return nil
	}
	var inv invoices.Invoice
	if err := tx.First(&inv, *payment.InvoiceID).Error; err != nil {
		return fmt.Errorf("invoice lookup failed: %w", err)
	}
	inv.MarkPaid(payment.Amount, at)
	if err := tx.Save(&inv).Error; err != nil {
		return fmt.Errorf("failed to mark invoice paid: %w", err)
	}
	return nil
}

func appendActivity(tx *gorm.DB, paymentID uint, activityType, detail string) error {
	activity := PaymentActivity{
		PaymentID: paymentID,
		Type:      activityType,
		Detail:    detail,
	}
	if err := tx.Create(&activity).Error; err != nil {
		return fmt.Errorf("failed to append payment activity: %w", err)
	}
	return nil
}

func markEventProcessed(tx *gorm.DB, event *WebhookEvent, at time.Time) error {
	return tx.Model(event).Update("processed_at", at).Error
}

// MapGatewayStatus translates a gateway's free-text status into our
// enum. Unrecognized strings map to PENDING rather than being dropped.
func MapGatewayStatus(raw string, table map[string]string) string {
	if mapped, ok := table[raw]; ok {
		return mapped
	}
	return StatusPending
}
