package members

import (
	"time"

	"clubmanager/internal/domain/clubs"
	"clubmanager/internal/domain/users"

	"github.com/shopspring/decimal"
)

const (
	StatusActive    = "active"
	StatusTrial     = "trial"
	StatusWithdrawn = "withdrawn"
)

// Member is a child enrolled at a club. Fees are billed to the guardian
// (the payer); the member's Level links it to the club's LevelFee table.
type Member struct {
	ID     uint `gorm:"primaryKey"`
	ClubID uint `gorm:"not null;index"`
	Club   clubs.Club

	GuardianID uint `gorm:"not null;index"`
	Guardian   users.User

	FirstName string `gorm:"not null"`
	LastName  string `gorm:"not null"`
	BirthDate *time.Time

	Level  string `gorm:"not null"`
	Status string `gorm:"type:varchar(20);not null;default:'active'"`

	// Member-specific override of the level default. Nil means "use the
	// level fee"; adjustments still take precedence over both.
	MonthlyFee *decimal.Decimal `gorm:"type:numeric"`

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BillableStatuses are the member statuses that invoice generation
// picks up. Withdrawn members keep their history but are never billed.
var BillableStatuses = []string{StatusActive, StatusTrial}

func (m *Member) IsBillable() bool {
	for _, s := range BillableStatuses {
		if m.Status == s {
			return true
		}
	}
	return false
}
