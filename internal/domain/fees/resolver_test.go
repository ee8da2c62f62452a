package fees

import (
	"testing"
	"time"

	"clubmanager/internal/domain/clubs"
	"clubmanager/internal/domain/members"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func decPtr(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func intPtr(v int) *int { return &v }

func TestResolveNoAdjustments(t *testing.T) {
	// Level 1 default of 650, nothing else configured.
	res := Resolve(nil, decPtr(650), nil, 6, 2024)
	assert.Equal(t, SourceLevelDefault, res.Source)
	assert.True(t, res.Amount.Equal(dec(650)), "got %s", res.Amount)

	// Member override beats the level default.
	res = Resolve(decPtr(500), decPtr(650), nil, 6, 2024)
	assert.Equal(t, SourceOverride, res.Source)
	assert.True(t, res.Amount.Equal(dec(500)))

	// Nothing configured at all resolves to zero.
	res = Resolve(nil, nil, nil, 6, 2024)
	assert.Equal(t, SourceNone, res.Source)
	assert.True(t, res.Amount.IsZero())
}

func TestResolvePermanentAdjustment(t *testing.T) {
	adjustments := []FeeAdjustment{
		{Kind: KindPermanent, AdjustedFee: dec(400), EffectiveMonth: 3, EffectiveYear: 2024, IsActive: true},
	}

	// Queried before the effective period: not yet applied.
	res := Resolve(nil, decPtr(650), adjustments, 1, 2024)
	assert.Equal(t, SourceLevelDefault, res.Source)
	assert.True(t, res.Amount.Equal(dec(650)))

	// From the effective month onward it wins, regardless of default.
	res = Resolve(nil, decPtr(650), adjustments, 3, 2024)
	require.Equal(t, SourcePermanent, res.Source)
	assert.True(t, res.Amount.Equal(dec(400)))

	res = Resolve(decPtr(500), decPtr(650), adjustments, 7, 2025)
	assert.Equal(t, SourcePermanent, res.Source)
	assert.True(t, res.Amount.Equal(dec(400)))
}

func TestResolvePermanentTieBreak(t *testing.T) {
	older := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)

	adjustments := []FeeAdjustment{
		{Kind: KindPermanent, AdjustedFee: dec(300), EffectiveMonth: 1, EffectiveYear: 2024, IsActive: true, CreatedAt: newer},
		{Kind: KindPermanent, AdjustedFee: dec(450), EffectiveMonth: 2, EffectiveYear: 2024, IsActive: true, CreatedAt: older},
	}

	// Latest effective date wins.
	res := Resolve(nil, nil, adjustments, 6, 2024)
	assert.True(t, res.Amount.Equal(dec(450)))

	// Equal effective dates: most recently created wins.
	adjustments = []FeeAdjustment{
		{Kind: KindPermanent, AdjustedFee: dec(300), EffectiveMonth: 1, EffectiveYear: 2024, IsActive: true, CreatedAt: older},
		{Kind: KindPermanent, AdjustedFee: dec(350), EffectiveMonth: 1, EffectiveYear: 2024, IsActive: true, CreatedAt: newer},
	}
	res = Resolve(nil, nil, adjustments, 6, 2024)
	assert.True(t, res.Amount.Equal(dec(350)))
}

func TestResolveTemporaryWindow(t *testing.T) {
	adjustments := []FeeAdjustment{
		{
			Kind: KindTemporary, AdjustedFee: dec(0),
			EffectiveMonth: 1, EffectiveYear: 2024,
			ExpiryMonth: intPtr(3), ExpiryYear: intPtr(2024),
			Reason: "injury recovery", IsActive: true,
		},
	}

	// Inside the window: the temporary amount applies, note carried.
	res := Resolve(decPtr(500), decPtr(650), adjustments, 2, 2024)
	require.Equal(t, SourceTemporary, res.Source)
	assert.True(t, res.Amount.IsZero())
	assert.Equal(t, "injury recovery", res.Note)

	// Past the expiry: silently falls back, no error.
	res = Resolve(decPtr(500), decPtr(650), adjustments, 4, 2024)
	assert.Equal(t, SourceOverride, res.Source)
	assert.True(t, res.Amount.Equal(dec(500)))
}

func TestResolveTemporaryBeatsPermanent(t *testing.T) {
	adjustments := []FeeAdjustment{
		{Kind: KindPermanent, AdjustedFee: dec(400), EffectiveMonth: 1, EffectiveYear: 2023, IsActive: true},
		{
			Kind: KindTemporary, AdjustedFee: dec(100),
			EffectiveMonth: 5, EffectiveYear: 2024,
			ExpiryMonth: intPtr(6), ExpiryYear: intPtr(2024),
			IsActive: true,
		},
	}

	res := Resolve(nil, decPtr(650), adjustments, 5, 2024)
	assert.Equal(t, SourceTemporary, res.Source)
	assert.True(t, res.Amount.Equal(dec(100)))

	// After the temporary window, the permanent one is back in charge.
	res = Resolve(nil, decPtr(650), adjustments, 7, 2024)
	assert.Equal(t, SourcePermanent, res.Source)
	assert.True(t, res.Amount.Equal(dec(400)))
}

func TestEffectiveFeeDegradesOnLookupFailure(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Level defaults exist, but the adjustments table was never
	// migrated, so the adjustment lookup fails mid-run.
	require.NoError(t, db.AutoMigrate(&clubs.Club{}, &clubs.LevelFee{}))
	require.NoError(t, db.Create(&clubs.LevelFee{
		ClubID: 1, LevelName: "Level 1", MonthlyFee: dec(650),
	}).Error)

	member := members.Member{ID: 7, ClubID: 1, Level: "Level 1"}
	res := EffectiveFee(db, &member, 5, 2024)
	assert.True(t, res.Degraded)
	assert.Equal(t, SourceLevelDefault, res.Source)
	assert.True(t, res.Amount.Equal(dec(650)), "got %s", res.Amount)

	// The degraded path still prefers the member override.
	member.MonthlyFee = decPtr(500)
	res = EffectiveFee(db, &member, 5, 2024)
	assert.True(t, res.Degraded)
	assert.Equal(t, SourceOverride, res.Source)
	assert.True(t, res.Amount.Equal(dec(500)))
}

func TestEffectiveFeeResolvesAdjustments(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&clubs.Club{}, &clubs.LevelFee{}, &members.Member{}, &FeeAdjustment{},
	))
	require.NoError(t, db.Create(&clubs.LevelFee{
		ClubID: 1, LevelName: "Level 1", MonthlyFee: dec(650),
	}).Error)

	member := members.Member{ClubID: 1, GuardianID: 1, FirstName: "Amy", LastName: "Smith", Level: "Level 1", Status: members.StatusActive}
	require.NoError(t, db.Create(&member).Error)
	require.NoError(t, db.Create(&FeeAdjustment{
		MemberID: member.ID, Kind: KindPermanent, AdjustedFee: dec(400),
		EffectiveMonth: 3, EffectiveYear: 2024, IsActive: true,
	}).Error)

	res := EffectiveFee(db, &member, 5, 2024)
	assert.False(t, res.Degraded)
	assert.Equal(t, SourcePermanent, res.Source)
	assert.True(t, res.Amount.Equal(dec(400)))
}

func TestResolveIgnoresInactive(t *testing.T) {
	adjustments := []FeeAdjustment{
		{Kind: KindPermanent, AdjustedFee: dec(400), EffectiveMonth: 1, EffectiveYear: 2024, IsActive: false},
	}

	res := Resolve(nil, decPtr(650), adjustments, 6, 2024)
	assert.Equal(t, SourceLevelDefault, res.Source)
	assert.True(t, res.Amount.Equal(dec(650)))
}
