package fees

import (
	"time"

	"clubmanager/internal/domain/members"

	"github.com/shopspring/decimal"
)

const (
	KindPermanent = "PERMANENT"
	KindTemporary = "TEMPORARY"
)

// FeeAdjustment overrides a member's monthly fee from an effective
// (month, year) onward. TEMPORARY adjustments also carry an expiry
// (month, year) after which they stop applying; PERMANENT ones apply
// until superseded by a later-dated permanent adjustment.
type FeeAdjustment struct {
	ID       uint `gorm:"primaryKey"`
	MemberID uint `gorm:"not null;index"`
	Member   members.Member

	Kind        string          `gorm:"type:varchar(20);not null"`
	AdjustedFee decimal.Decimal `gorm:"type:numeric;not null"`

	EffectiveMonth int `gorm:"not null"`
	EffectiveYear  int `gorm:"not null"`

	// Only set for TEMPORARY adjustments.
	ExpiryMonth *int
	ExpiryYear  *int

	Reason   string
	IsActive bool `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// effectiveBy reports whether the adjustment has taken effect by the
// queried period.
func (a *FeeAdjustment) effectiveBy(month, year int) bool {
	return a.EffectiveYear < year || (a.EffectiveYear == year && a.EffectiveMonth <= month)
}

// coversPeriod reports whether a TEMPORARY adjustment's expiry window
// still includes the queried period.
func (a *FeeAdjustment) coversPeriod(month, year int) bool {
	if a.ExpiryYear == nil || a.ExpiryMonth == nil {
		return false
	}
	return *a.ExpiryYear > year || (*a.ExpiryYear == year && *a.ExpiryMonth >= month)
}
