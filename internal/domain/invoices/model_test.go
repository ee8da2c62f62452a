package invoices

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecomputeTotals(t *testing.T) {
	inv := Invoice{
		Status:   StatusPending,
		Discount: decimal.NewFromInt(50),
		Items: []InvoiceItem{
			{Amount: decimal.NewFromInt(650), Quantity: 1},
			{Amount: decimal.NewFromInt(200), Quantity: 2},
		},
	}

	require.NoError(t, inv.RecomputeTotals())
	assert.True(t, inv.Subtotal.Equal(decimal.NewFromInt(1050)), "subtotal %s", inv.Subtotal)
	assert.True(t, inv.Total.Equal(decimal.NewFromInt(1000)), "total %s", inv.Total)

	// Total tracks subtotal minus discount after every mutation.
	inv.Items = inv.Items[:1]
	inv.Discount = decimal.NewFromInt(100)
	require.NoError(t, inv.RecomputeTotals())
	assert.True(t, inv.Total.Equal(decimal.NewFromInt(550)))
}

func TestRecomputeTotalsRejectsPaid(t *testing.T) {
	inv := Invoice{Status: StatusPaid, Items: []InvoiceItem{{Amount: decimal.NewFromInt(100), Quantity: 1}}}
	assert.ErrorIs(t, inv.RecomputeTotals(), ErrNotEditable)

	inv.Status = StatusCancelled
	assert.ErrorIs(t, inv.RecomputeTotals(), ErrNotEditable)

	// Overdue invoices are still collectible, so still editable.
	inv.Status = StatusOverdue
	assert.NoError(t, inv.RecomputeTotals())
}

func TestMarkPaid(t *testing.T) {
	inv := Invoice{Status: StatusPending, Total: decimal.NewFromInt(650)}
	at := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)

	inv.MarkPaid(decimal.NewFromInt(650), at)

	assert.Equal(t, StatusPaid, inv.Status)
	require.NotNil(t, inv.PaidAt)
	assert.True(t, inv.PaidAt.Equal(at))
	require.NotNil(t, inv.PaidAmount)
	assert.True(t, inv.PaidAmount.Equal(decimal.NewFromInt(650)))
}
