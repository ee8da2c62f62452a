package messages

import (
	"time"

	"clubmanager/internal/domain/clubs"
	"clubmanager/internal/domain/users"
)

// Message covers club announcements (RecipientID nil, broadcast to the
// club) and direct guardian/coach messages.
type Message struct {
	ID     uint `gorm:"primaryKey"`
	ClubID uint `gorm:"not null;index"`
	Club   clubs.Club

	SenderID uint `gorm:"not null;index"`
	Sender   users.User

	RecipientID *uint `gorm:"index"`
	Recipient   *users.User

	Subject string
	Body    string `gorm:"not null"`

	ReadAt *time.Time

	CreatedAt time.Time
}
