package clubs

import (
	"time"

	"github.com/shopspring/decimal"
)

// Club is one tenant. Every other row in the system hangs off a club id
// and all queries are scoped to it.
type Club struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"not null"`
	Slug string `gorm:"not null;uniqueIndex:idx_clubs_slug"`

	Email string
	Tel   string

	IsActive bool `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LevelFee is the club's default monthly fee for one training level.
// Member overrides and fee adjustments both take precedence over it.
type LevelFee struct {
	ID     uint `gorm:"primaryKey"`
	ClubID uint `gorm:"not null;uniqueIndex:idx_level_fees_level"`
	Club   Club

	LevelName  string          `gorm:"not null;uniqueIndex:idx_level_fees_level"`
	MonthlyFee decimal.Decimal `gorm:"type:numeric;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
