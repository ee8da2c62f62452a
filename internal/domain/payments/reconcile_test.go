package payments

import (
	"testing"
	"time"

	"clubmanager/internal/domain/clubs"
	"clubmanager/internal/domain/invoices"
	"clubmanager/internal/domain/members"
	"clubmanager/internal/domain/users"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&clubs.Club{}, &users.User{}, &members.Member{},
		&invoices.Invoice{}, &invoices.InvoiceItem{},
		&Payment{}, &PaymentActivity{}, &WebhookEvent{},
	))
	return db
}

func seedPendingPayment(t *testing.T, db *gorm.DB) (*invoices.Invoice, *Payment) {
	t.Helper()

	club := clubs.Club{Name: "Tumble Tots", Slug: "tumble-tots", IsActive: true}
	require.NoError(t, db.Create(&club).Error)

	payer := users.User{Name: "Jo", Lastname: "Smith", Email: "jo@example.com", Role: users.RoleGuardian, ClubID: &club.ID}
	require.NoError(t, db.Create(&payer).Error)

	inv := invoices.Invoice{
		ClubID: club.ID, PayerID: payer.ID, Month: 5, Year: 2024,
		Number: "INV-1-202405-0001", Status: invoices.StatusPending,
		DueDate:  time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC),
		Subtotal: decimal.NewFromInt(650), Discount: decimal.Zero, Total: decimal.NewFromInt(650),
	}
	require.NoError(t, db.Create(&inv).Error)

	invID := inv.ID
	payment := Payment{
		ClubID: club.ID, PayerID: payer.ID, InvoiceID: &invID,
		Amount: decimal.NewFromInt(650), Method: MethodPayfast,
		Status: StatusPending, Reference: "ref-0001",
	}
	require.NoError(t, db.Create(&payment).Error)

	return &inv, &payment
}

func completedNotification(inv *invoices.Invoice, p *Payment) Notification {
	return Notification{
		Provider:  MethodPayfast,
		EventID:   "pf-100",
		PaymentID: p.ID,
		ClubID:    p.ClubID,
		InvoiceID: inv.ID,
		Status:    StatusCompleted,
		Amount:    p.Amount,
		Metadata:  map[string]string{"payment_status": "COMPLETE"},
	}
}

func TestReconcileCompletedSettlesInvoice(t *testing.T) {
	db := newTestDB(t)
	inv, payment := seedPendingPayment(t, db)

	outcome, err := Reconcile(db, completedNotification(inv, payment))
	require.NoError(t, err)
	assert.False(t, outcome.Duplicate)
	assert.Equal(t, StatusCompleted, outcome.Applied)

	var gotPayment Payment
	require.NoError(t, db.First(&gotPayment, payment.ID).Error)
	assert.Equal(t, StatusCompleted, gotPayment.Status)
	require.NotNil(t, gotPayment.GatewayTransactionID)
	assert.Equal(t, "pf-100", *gotPayment.GatewayTransactionID)
	assert.NotNil(t, gotPayment.ProcessedAt)
	assert.Equal(t, "COMPLETE", gotPayment.Metadata["payment_status"])

	var gotInvoice invoices.Invoice
	require.NoError(t, db.First(&gotInvoice, inv.ID).Error)
	assert.Equal(t, invoices.StatusPaid, gotInvoice.Status)
	require.NotNil(t, gotInvoice.PaidAmount)
	assert.True(t, gotInvoice.PaidAmount.Equal(decimal.NewFromInt(650)))

	// Exactly one "completed" activity row.
	var activity []PaymentActivity
	require.NoError(t, db.Where("payment_id = ?", payment.ID).Find(&activity).Error)
	require.Len(t, activity, 1)
	assert.Equal(t, ActivityCompleted, activity[0].Type)
}

func TestReconcilePendingThenCompletedSameTransaction(t *testing.T) {
	db := newTestDB(t)
	inv, payment := seedPendingPayment(t, db)

	// PayFast reuses the same pf_payment_id across status-progression
	// notifications: first PENDING, later COMPLETE.
	n := completedNotification(inv, payment)
	n.Status = StatusPending

	outcome, err := Reconcile(db, n)
	require.NoError(t, err)
	assert.False(t, outcome.Duplicate)

	var gotPayment Payment
	require.NoError(t, db.First(&gotPayment, payment.ID).Error)
	assert.Equal(t, StatusPending, gotPayment.Status)
	assert.Nil(t, gotPayment.ProcessedAt)

	n.Status = StatusCompleted
	outcome, err = Reconcile(db, n)
	require.NoError(t, err)
	assert.False(t, outcome.Duplicate)
	assert.Equal(t, StatusCompleted, outcome.Applied)

	var gotInvoice invoices.Invoice
	require.NoError(t, db.First(&gotInvoice, inv.ID).Error)
	assert.Equal(t, invoices.StatusPaid, gotInvoice.Status)

	var activity []PaymentActivity
	require.NoError(t, db.Where("payment_id = ?", payment.ID).Find(&activity).Error)
	require.Len(t, activity, 1)
	assert.Equal(t, ActivityCompleted, activity[0].Type)
}

func TestReconcileRedeliveryIsDeduped(t *testing.T) {
	db := newTestDB(t)
	inv, payment := seedPendingPayment(t, db)
	n := completedNotification(inv, payment)

	_, err := Reconcile(db, n)
	require.NoError(t, err)

	// Same gateway event again: acknowledged, nothing re-applied.
	outcome, err := Reconcile(db, n)
	require.NoError(t, err)
	assert.True(t, outcome.Duplicate)

	var activityCount int64
	db.Model(&PaymentActivity{}).Where("payment_id = ?", payment.ID).Count(&activityCount)
	assert.EqualValues(t, 1, activityCount)
}

func TestReconcileFailureLeavesInvoicePayable(t *testing.T) {
	db := newTestDB(t)
	inv, payment := seedPendingPayment(t, db)

	n := completedNotification(inv, payment)
	n.EventID = "pf-101"
	n.Status = StatusFailed
	n.Reason = "insufficient funds"

	outcome, err := Reconcile(db, n)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, outcome.Applied)

	var gotInvoice invoices.Invoice
	require.NoError(t, db.First(&gotInvoice, inv.ID).Error)
	assert.Equal(t, invoices.StatusPending, gotInvoice.Status)

	var activity []PaymentActivity
	require.NoError(t, db.Where("payment_id = ?", payment.ID).Find(&activity).Error)
	require.Len(t, activity, 1)
	assert.Equal(t, ActivityFailed, activity[0].Type)
	assert.Contains(t, activity[0].Detail, "insufficient funds")
}

func TestReconcileNeverDowngradesCompleted(t *testing.T) {
	db := newTestDB(t)
	inv, payment := seedPendingPayment(t, db)

	_, err := Reconcile(db, completedNotification(inv, payment))
	require.NoError(t, err)

	// A late FAILED event for a different gateway id is acknowledged
	// without touching the settled payment.
	late := completedNotification(inv, payment)
	late.EventID = "pf-102"
	late.Status = StatusFailed

	outcome, err := Reconcile(db, late)
	require.NoError(t, err)
	assert.Equal(t, "", outcome.Applied)

	var gotPayment Payment
	require.NoError(t, db.First(&gotPayment, payment.ID).Error)
	assert.Equal(t, StatusCompleted, gotPayment.Status)

	var gotInvoice invoices.Invoice
	require.NoError(t, db.First(&gotInvoice, inv.ID).Error)
	assert.Equal(t, invoices.StatusPaid, gotInvoice.Status)
}

func TestReconcileUnknownPayment(t *testing.T) {
	db := newTestDB(t)
	inv, payment := seedPendingPayment(t, db)

	n := completedNotification(inv, payment)
	n.PaymentID = payment.ID + 99

	_, err := Reconcile(db, n)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}
