package payments

import (
	"errors"
	"time"

	"clubmanager/internal/domain/clubs"
	"clubmanager/internal/domain/invoices"
	"clubmanager/internal/domain/users"

	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
	StatusCancelled = "CANCELLED"
)

const (
	MethodPayfast = "payfast"
	MethodYoco    = "yoco"
	MethodStripe  = "stripe"
	MethodEFT     = "eft"
	MethodCash    = "cash"
)

const (
	ActivityCreated   = "created"
	ActivityCompleted = "completed"
	ActivityFailed    = "failed"
	ActivityCancelled = "cancelled"
)

var ErrInvalidTransition = errors.New("payment status transition not allowed")

// Payment is one attempt to settle an invoice (InvoiceID nil for
// standalone payments such as cash taken at the front desk).
type Payment struct {
	ID     uint `gorm:"primaryKey"`
	ClubID uint `gorm:"not null;index"`
	Club   clubs.Club

	PayerID uint `gorm:"not null;index"`
	Payer   users.User

	InvoiceID *uint `gorm:"index"`
	Invoice   *invoices.Invoice

	Amount decimal.Decimal `gorm:"type:numeric;not null"`
	Method string          `gorm:"type:varchar(20);not null"`
	Status string          `gorm:"type:varchar(20);not null;default:'PENDING'"`

	// Our correlation token, embedded in gateway custom fields.
	Reference string `gorm:"not null;uniqueIndex:idx_payments_reference"`

	// Gateway-side identifiers, filled in by the reconciler.
	GatewayTransactionID *string `gorm:"index"`
	ProcessedAt          *time.Time

	// Gateway diagnostic fields, merged (never replaced) across
	// notifications so history survives redelivery.
	Metadata map[string]string `gorm:"serializer:json"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TerminalStatus reports whether s is an end state of the payment
// lifecycle. Terminal payments never move again.
func TerminalStatus(s string) bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// CanTransition enforces the one-directional lifecycle: only a PENDING
// payment may move, and only to a terminal status.
func (p *Payment) CanTransition(to string) bool {
	return p.Status == StatusPending && TerminalStatus(to)
}

// Transition applies a status change or returns ErrInvalidTransition.
// A no-op transition (already in the target status) is not an error so
// redelivered notifications stay harmless.
func (p *Payment) Transition(to string) error {
	if p.Status == to {
		return nil
	}
	if !p.CanTransition(to) {
		return ErrInvalidTransition
	}
	p.Status = to
	return nil
}

// MergeMetadata folds gateway fields into the payment without dropping
// anything recorded by earlier notifications.
func (p *Payment) MergeMetadata(fields map[string]string) {
	if p.Metadata == nil {
		p.Metadata = make(map[string]string, len(fields))
	}
	for k, v := range fields {
		p.Metadata[k] = v
	}
}

// PaymentActivity is the append-only audit trail for payment state
// changes. Rows are never updated or deleted.
type PaymentActivity struct {
	ID        uint `gorm:"primaryKey"`
	PaymentID uint `gorm:"not null;index"`
	Payment   Payment

	Type   string `gorm:"type:varchar(20);not null"`
	Detail string

	CreatedAt time.Time
}

// WebhookEvent stores every gateway notification with a uniqueness key
// on (provider, provider_event_id). ProcessedAt is only set once a
// terminal status has been applied: PayFast reuses the same transaction
// id across status-progression notifications, so a PENDING notification
// must leave the event open for the COMPLETE that follows it.
type WebhookEvent struct {
	ID              uint   `gorm:"primaryKey"`
	Provider        string `gorm:"type:varchar(20);not null;uniqueIndex:idx_webhook_events_provider_event,priority:1"`
	ProviderEventID string `gorm:"not null;uniqueIndex:idx_webhook_events_provider_event,priority:2"`
	Payload         string `gorm:"type:text"`
	SignatureValid  bool
	ProcessedAt     *time.Time
	ProcessingError string

	CreatedAt time.Time
}
