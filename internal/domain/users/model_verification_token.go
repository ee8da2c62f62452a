package users

import "time"

// VerificationToken backs both email verification and password resets;
// one live token per (user, type).
type VerificationToken struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"uniqueIndex:idx_verification_user_type,priority:1"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	Token     string `gorm:"uniqueIndex"`
	Type      string `gorm:"uniqueIndex:idx_verification_user_type,priority:2"`
	ExpiresAt time.Time
	CreatedAt time.Time
}
