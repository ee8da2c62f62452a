package attendance

import (
	"time"

	"clubmanager/internal/domain/clubs"
	"clubmanager/internal/domain/members"
	"clubmanager/internal/domain/users"
)

const (
	MarkPresent = "present"
	MarkAbsent  = "absent"
	MarkLate    = "late"
)

// Session is one class occurrence a coach takes a register for.
type Session struct {
	ID     uint `gorm:"primaryKey"`
	ClubID uint `gorm:"not null;index"`
	Club   clubs.Club

	CoachID uint `gorm:"not null;index"`
	Coach   users.User

	Level string    `gorm:"not null"`
	Date  time.Time `gorm:"not null;index"`
	Notes string

	Records []Record `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Record marks one member in one session; unique per (session, member)
// so re-marking updates rather than duplicates.
type Record struct {
	ID        uint `gorm:"primaryKey"`
	SessionID uint `gorm:"not null;uniqueIndex:idx_attendance_session_member,priority:1"`

	MemberID uint `gorm:"not null;uniqueIndex:idx_attendance_session_member,priority:2"`
	Member   members.Member

	Mark string `gorm:"type:varchar(10);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
