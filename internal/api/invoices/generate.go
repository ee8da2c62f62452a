package invoices

import (
	"errors"
	"fmt"
	"time"

	"clubmanager/internal/domain/fees"
	"clubmanager/internal/domain/invoices"
	"clubmanager/internal/domain/members"
	"clubmanager/internal/domain/users"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrDuplicatePeriod  = errors.New("an invoice already exists for this payer and period")
	ErrNothingToInvoice = errors.New("nothing to invoice for this payer")
)

// PayerResult is one payer's outcome in a club-wide run. Partial failure
// is the expected mode: one payer's duplicate or empty invoice never
// aborts the batch.
type PayerResult struct {
	PayerID   uint   `json:"payer_id"`
	PayerName string `json:"payer_name"`
	InvoiceID uint   `json:"invoice_id,omitempty"`
	Number    string `json:"number,omitempty"`
	Error     string `json:"error,omitempty"`
}

// GenerateForPayer builds one invoice for one payer and period: one
// monthly-fee line per billable member, amounts from the fee resolver,
// zero-fee members skipped. The unique period index is the real
// duplicate guard; the pre-check only improves the error message.
func GenerateForPayer(db *gorm.DB, clubID, payerID uint, month, year int, dueDate time.Time) (*invoices.Invoice, error) {
	var existing invoices.Invoice
	err := db.Where("club_id = ? AND payer_id = ? AND month = ? AND year = ?",
		clubID, payerID, month, year).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicatePeriod
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var kids []members.Member
	if err := db.Where("club_id = ? AND guardian_id = ?", clubID, payerID).
		Order("id").Find(&kids).Error; err != nil {
		return nil, err
	}

	var items []invoices.InvoiceItem
	for i := range kids {
		if !kids[i].IsBillable() {
			continue
		}
		res := fees.EffectiveFee(db, &kids[i], month, year)
		if res.Amount.IsZero() {
			continue
		}
		desc := fmt.Sprintf("Monthly fee %04d-%02d: %s %s", year, month, kids[i].FirstName, kids[i].LastName)
		if res.Note != "" {
			desc += " (" + res.Note + ")"
		}
		memberID := kids[i].ID
		items = append(items, invoices.InvoiceItem{
			Description: desc,
			Amount:      res.Amount,
			Quantity:    1,
			ItemType:    invoices.ItemMonthlyFee,
			MemberID:    &memberID,
		})
	}
	if len(items) == 0 {
		return nil, ErrNothingToInvoice
	}

	number, err := invoices.NextNumber(db, clubID, month, year)
	if err != nil {
		return nil, err
	}

	inv := invoices.Invoice{
		ClubID:   clubID,
		PayerID:  payerID,
		Month:    month,
		Year:     year,
		Number:   number,
		Status:   invoices.StatusPending,
		DueDate:  dueDate,
		Discount: decimal.Zero,
		Items:    items,
	}
	if err := inv.RecomputeTotals(); err != nil {
		return nil, err
	}

	if err := db.Create(&inv).Error; err != nil {
		// A concurrent run may have won the unique period index.
		var check invoices.Invoice
		if dbErr := db.Where("club_id = ? AND payer_id = ? AND month = ? AND year = ?",
			clubID, payerID, month, year).First(&check).Error; dbErr == nil {
			return nil, ErrDuplicatePeriod
		}
		return nil, err
	}
	return &inv, nil
}

// GenerateForClub runs GenerateForPayer over every guardian with at
// least one billable member and collects per-payer results.
func GenerateForClub(db *gorm.DB, clubID uint, month, year int, dueDate time.Time) ([]PayerResult, error) {
	var payers []users.User
	err := db.Where("club_id = ? AND role = ? AND id IN (?)",
		clubID, users.RoleGuardian,
		db.Model(&members.Member{}).Select("guardian_id").
			Where("club_id = ? AND status IN ?", clubID, members.BillableStatuses)).
		Order("id").Find(&payers).Error
	if err != nil {
		return nil, err
	}

	results := make([]PayerResult, 0, len(payers))
	for _, payer := range payers {
		r := PayerResult{PayerID: payer.ID, PayerName: payer.Name + " " + payer.Lastname}
		inv, err := GenerateForPayer(db, clubID, payer.ID, month, year, dueDate)
		if err != nil {
			r.Error = err.Error()
		} else {
			r.InvoiceID = inv.ID
			r.Number = inv.Number
		}
		results = append(results, r)
	}
	return results, nil
}
