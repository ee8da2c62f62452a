package fees

import (
	"log"
	"sort"

	"clubmanager/internal/domain/clubs"
	"clubmanager/internal/domain/members"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	SourceTemporary    = "temporary_adjustment"
	SourcePermanent    = "permanent_adjustment"
	SourceOverride     = "member_override"
	SourceLevelDefault = "level_default"
	SourceNone         = "none"
)

// Resolution is the outcome of one fee lookup for one member and period.
// Degraded marks a resolution that fell back to the base fee because the
// adjustment lookup failed; the caller gets a usable amount either way.
type Resolution struct {
	Amount   decimal.Decimal `json:"amount"`
	Source   string          `json:"source"`
	Note     string          `json:"note,omitempty"`
	Degraded bool            `json:"degraded,omitempty"`
}

// Resolve computes the monthly fee for one member and one (month, year).
// Priority: TEMPORARY adjustment covering the period > most recently dated
// PERMANENT adjustment > member override > level default > zero.
// Pure function; the DB-backed entry point is EffectiveFee.
func Resolve(override *decimal.Decimal, levelDefault *decimal.Decimal, adjustments []FeeAdjustment, month, year int) Resolution {
	active := make([]FeeAdjustment, 0, len(adjustments))
	for _, a := range adjustments {
		if a.IsActive && a.effectiveBy(month, year) {
			active = append(active, a)
		}
	}

	// An expired TEMPORARY adjustment is skipped, never an error.
	for _, a := range active {
		if a.Kind == KindTemporary && a.coversPeriod(month, year) {
			return Resolution{Amount: a.AdjustedFee, Source: SourceTemporary, Note: a.Reason}
		}
	}

	perms := make([]FeeAdjustment, 0, len(active))
	for _, a := range active {
		if a.Kind == KindPermanent {
			perms = append(perms, a)
		}
	}
	if len(perms) > 0 {
		// Latest-dated wins; creation time breaks date ties.
		sort.Slice(perms, func(i, j int) bool {
			if perms[i].EffectiveYear != perms[j].EffectiveYear {
				return perms[i].EffectiveYear > perms[j].EffectiveYear
			}
			if perms[i].EffectiveMonth != perms[j].EffectiveMonth {
				return perms[i].EffectiveMonth > perms[j].EffectiveMonth
			}
			return perms[i].CreatedAt.After(perms[j].CreatedAt)
		})
		return Resolution{Amount: perms[0].AdjustedFee, Source: SourcePermanent, Note: perms[0].Reason}
	}

	return resolveBase(override, levelDefault)
}

func resolveBase(override *decimal.Decimal, levelDefault *decimal.Decimal) Resolution {
	if override != nil {
		return Resolution{Amount: *override, Source: SourceOverride}
	}
	if levelDefault != nil {
		return Resolution{Amount: *levelDefault, Source: SourceLevelDefault}
	}
	return Resolution{Amount: decimal.Zero, Source: SourceNone}
}

// EffectiveFee loads the member's adjustments and level default and runs
// Resolve. If the adjustment lookup fails the resolution degrades to the
// override-or-default fee rather than failing the caller: a possibly
// stale fee beats a failed invoice run.
func EffectiveFee(db *gorm.DB, member *members.Member, month, year int) Resolution {
	levelDefault := lookupLevelDefault(db, member)

	var adjustments []FeeAdjustment
	if err := db.Where("member_id = ?", member.ID).Find(&adjustments).Error; err != nil {
		log.Printf("⚠️ fee adjustment lookup failed for member %d, using base fee: %v", member.ID, err)
		res := resolveBase(member.MonthlyFee, levelDefault)
		res.Degraded = true
		res.Note = "adjustment lookup failed, using base fee"
		return res
	}

	return Resolve(member.MonthlyFee, levelDefault, adjustments, month, year)
}

func lookupLevelDefault(db *gorm.DB, member *members.Member) *decimal.Decimal {
	var lf clubs.LevelFee
	err := db.Where("club_id = ? AND level_name = ?", member.ClubID, member.Level).First(&lf).Error
	if err != nil {
		return nil
	}
	return &lf.MonthlyFee
}
