package invoices

import (
	"errors"
	"time"

	"clubmanager/internal/domain/clubs"
	"clubmanager/internal/domain/members"
	"clubmanager/internal/domain/users"

	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "PENDING"
	StatusPaid      = "PAID"
	StatusOverdue   = "OVERDUE"
	StatusCancelled = "CANCELLED"
)

const (
	ItemMonthlyFee   = "monthly_fee"
	ItemDiscount     = "discount"
	ItemOnceOff      = "once_off"
	ItemRegistration = "registration"
)

var ErrNotEditable = errors.New("invoice is not editable in its current status")

// Invoice bills one payer for one (club, month, year). The composite
// unique index is the real duplicate-period guard; the application check
// before insert only produces a friendlier error.
type Invoice struct {
	ID     uint `gorm:"primaryKey"`
	ClubID uint `gorm:"not null;uniqueIndex:idx_invoices_period,priority:1"`
	Club   clubs.Club

	PayerID uint `gorm:"not null;uniqueIndex:idx_invoices_period,priority:2"`
	Payer   users.User

	Month int `gorm:"not null;uniqueIndex:idx_invoices_period,priority:4"`
	Year  int `gorm:"not null;uniqueIndex:idx_invoices_period,priority:3"`

	Number string `gorm:"not null;uniqueIndex:idx_invoices_number"`
	Status string `gorm:"type:varchar(20);not null;default:'PENDING'"`

	DueDate  time.Time
	Subtotal decimal.Decimal `gorm:"type:numeric;not null"`
	Discount decimal.Decimal `gorm:"type:numeric;not null"`
	Total    decimal.Decimal `gorm:"type:numeric;not null"`

	PaidAt     *time.Time
	PaidAmount *decimal.Decimal `gorm:"type:numeric"`

	Items []InvoiceItem `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type InvoiceItem struct {
	ID        uint `gorm:"primaryKey"`
	InvoiceID uint `gorm:"not null;index"`

	Description string          `gorm:"not null"`
	Amount      decimal.Decimal `gorm:"type:numeric;not null"`
	Quantity    int             `gorm:"not null;default:1"`
	ItemType    string          `gorm:"type:varchar(30);not null;default:'monthly_fee'"`

	// Set when the line charges for a specific member.
	MemberID *uint
	Member   *members.Member

	CreatedAt time.Time
}

func (i *InvoiceItem) LineTotal() decimal.Decimal {
	return i.Amount.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Editable reports whether line items and the discount may still change.
// Paid and cancelled invoices are immutable to item edits.
func (inv *Invoice) Editable() bool {
	return inv.Status == StatusPending || inv.Status == StatusOverdue
}

// RecomputeTotals re-derives subtotal and total from the current items
// and discount. Total always equals subtotal minus discount.
func (inv *Invoice) RecomputeTotals() error {
	if !inv.Editable() {
		return ErrNotEditable
	}
	subtotal := decimal.Zero
	for _, item := range inv.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	inv.Subtotal = subtotal
	inv.Total = subtotal.Sub(inv.Discount)
	return nil
}

// MarkPaid records settlement. Idempotent in value: re-marking a paid
// invoice with the same amount leaves it unchanged.
func (inv *Invoice) MarkPaid(amount decimal.Decimal, at time.Time) {
	inv.Status = StatusPaid
	inv.PaidAt = &at
	inv.PaidAmount = &amount
}
