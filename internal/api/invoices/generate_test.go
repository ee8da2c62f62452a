package invoices

import (
	"testing"
	"time"

	"clubmanager/internal/domain/clubs"
	"clubmanager/internal/domain/fees"
	domain "clubmanager/internal/domain/invoices"
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
		&clubs.Club{}, &clubs.LevelFee{}, &users.User{}, &members.Member{},
		&fees.FeeAdjustment{}, &domain.Invoice{}, &domain.InvoiceItem{},
	))
	return db
}

func seedClub(t *testing.T, db *gorm.DB) (clubs.Club, users.User) {
	t.Helper()

	club := clubs.Club{Name: "Tumble Tots", Slug: "tumble-tots", IsActive: true}
	require.NoError(t, db.Create(&club).Error)
	require.NoError(t, db.Create(&clubs.LevelFee{
		ClubID: club.ID, LevelName: "Level 1", MonthlyFee: decimal.NewFromInt(650),
	}).Error)

	guardian := users.User{Name: "Jo", Lastname: "Smith", Email: "jo@example.com", Role: users.RoleGuardian, ClubID: &club.ID}
	require.NoError(t, db.Create(&guardian).Error)

	return club, guardian
}

func addMember(t *testing.T, db *gorm.DB, club clubs.Club, guardian users.User, name, status string, override *decimal.Decimal) members.Member {
	t.Helper()
	m := members.Member{
		ClubID: club.ID, GuardianID: guardian.ID,
		FirstName: name, LastName: "Smith",
		Level: "Level 1", Status: status, MonthlyFee: override,
	}
	require.NoError(t, db.Create(&m).Error)
	return m
}

func TestGenerateForPayer(t *testing.T) {
	db := newTestDB(t)
	club, guardian := seedClub(t, db)
	addMember(t, db, club, guardian, "Amy", members.StatusActive, nil)
	override := decimal.NewFromInt(500)
	addMember(t, db, club, guardian, "Ben", members.StatusTrial, &override)
	addMember(t, db, club, guardian, "Cal", members.StatusWithdrawn, nil)

	due := time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC)
	inv, err := GenerateForPayer(db, club.ID, guardian.ID, 5, 2024, due)
	require.NoError(t, err)

	// Withdrawn Cal is not billed: one line per billable member.
	require.Len(t, inv.Items, 2)
	assert.True(t, inv.Subtotal.Equal(decimal.NewFromInt(1150)), "subtotal %s", inv.Subtotal)
	assert.True(t, inv.Total.Equal(decimal.NewFromInt(1150)))
	assert.Equal(t, domain.StatusPending, inv.Status)
	assert.Equal(t, "INV-1-202405-0001", inv.Number)
	assert.Contains(t, inv.Items[0].Description, "Amy")
}

func TestGenerateForPayerDuplicatePeriod(t *testing.T) {
	db := newTestDB(t)
	club, guardian := seedClub(t, db)
	addMember(t, db, club, guardian, "Amy", members.StatusActive, nil)

	due := time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC)
	_, err := GenerateForPayer(db, club.ID, guardian.ID, 5, 2024, due)
	require.NoError(t, err)

	_, err = GenerateForPayer(db, club.ID, guardian.ID, 5, 2024, due)
	assert.ErrorIs(t, err, ErrDuplicatePeriod)

	// A different month is a fresh period.
	_, err = GenerateForPayer(db, club.ID, guardian.ID, 6, 2024, due.AddDate(0, 1, 0))
	assert.NoError(t, err)
}

func TestGenerateForPayerSkipsZeroFee(t *testing.T) {
	db := newTestDB(t)
	club, guardian := seedClub(t, db)
	m := addMember(t, db, club, guardian, "Amy", members.StatusActive, nil)
	addMember(t, db, club, guardian, "Ben", members.StatusActive, nil)

	// Amy has a scholarship window covering the invoiced period.
	require.NoError(t, db.Create(&fees.FeeAdjustment{
		MemberID: m.ID, Kind: fees.KindTemporary, AdjustedFee: decimal.Zero,
		EffectiveMonth: 4, EffectiveYear: 2024,
		ExpiryMonth: intPtr(6), ExpiryYear: intPtr(2024),
		Reason: "scholarship", IsActive: true,
	}).Error)

	due := time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC)
	inv, err := GenerateForPayer(db, club.ID, guardian.ID, 5, 2024, due)
	require.NoError(t, err)

	require.Len(t, inv.Items, 1)
	assert.Contains(t, inv.Items[0].Description, "Ben")
}

func TestGenerateForPayerNothingToInvoice(t *testing.T) {
	db := newTestDB(t)
	club, guardian := seedClub(t, db)
	addMember(t, db, club, guardian, "Cal", members.StatusWithdrawn, nil)

	due := time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC)
	_, err := GenerateForPayer(db, club.ID, guardian.ID, 5, 2024, due)
	assert.ErrorIs(t, err, ErrNothingToInvoice)
}

func TestGenerateForClubPartialResults(t *testing.T) {
	db := newTestDB(t)
	club, guardian := seedClub(t, db)
	addMember(t, db, club, guardian, "Amy", members.StatusActive, nil)

	second := users.User{Name: "Pat", Lastname: "Jones", Email: "pat@example.com", Role: users.RoleGuardian, ClubID: &club.ID}
	require.NoError(t, db.Create(&second).Error)
	addMember(t, db, club, second, "Dot", members.StatusActive, nil)

	due := time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC)

	// Pre-invoice the first guardian so the batch hits a duplicate.
	_, err := GenerateForPayer(db, club.ID, guardian.ID, 5, 2024, due)
	require.NoError(t, err)

	results, err := GenerateForClub(db, club.ID, 5, 2024, due)
	require.NoError(t, err)
	require.Len(t, results, 2)

	byPayer := map[uint]PayerResult{}
	for _, r := range results {
		byPayer[r.PayerID] = r
	}
	assert.Equal(t, ErrDuplicatePeriod.Error(), byPayer[guardian.ID].Error)
	assert.Empty(t, byPayer[second.ID].Error)
	assert.NotZero(t, byPayer[second.ID].InvoiceID)

	var count int64
	db.Model(&domain.Invoice{}).Where("club_id = ?", club.ID).Count(&count)
	assert.EqualValues(t, 2, count)
}

func intPtr(v int) *int { return &v }
