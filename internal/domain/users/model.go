package users

import (
	"time"

	"clubmanager/internal/domain/clubs"
)

const (
	RoleAdmin     = "admin" // platform operator, not bound to one club
	RoleClubAdmin = "club_admin"
	RoleCoach     = "coach"
	RoleGuardian  = "guardian"
)

type User struct {
	ID           uint `gorm:"primaryKey"`
	Name         string
	Lastname     string
	Tel          string
	Email        string  `gorm:"not null;uniqueIndex:idx_users_email"`
	Password     *string `gorm:""`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub"`
	Role         string  `gorm:"type:varchar(20);not null;default:'guardian'"`
	IsVerified   bool

	// Nil for platform admins; everyone else belongs to exactly one club.
	ClubID *uint
	Club   *clubs.Club

	CreatedAt time.Time
	UpdatedAt time.Time
}
