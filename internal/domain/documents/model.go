package documents

import (
	"time"

	"clubmanager/internal/domain/clubs"
	"clubmanager/internal/domain/members"
	"clubmanager/internal/domain/users"
)

// Document is a club form (indemnity, code of conduct, ...) guardians
// must sign. Only metadata and the external file URL live here; blob
// storage is outside this service.
type Document struct {
	ID     uint `gorm:"primaryKey"`
	ClubID uint `gorm:"not null;index"`
	Club   clubs.Club

	Title       string `gorm:"not null"`
	Description string
	FileURL     string `gorm:"not null"`

	RequiresSignature bool `gorm:"default:true"`
	IsActive          bool `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Signature is append-only: one guardian signing one document, optionally
// on behalf of one member. Never updated or deleted.
type Signature struct {
	ID         uint `gorm:"primaryKey"`
	DocumentID uint `gorm:"not null;uniqueIndex:idx_signatures_doc_signer_member,priority:1"`
	Document   Document

	SignerID uint `gorm:"not null;uniqueIndex:idx_signatures_doc_signer_member,priority:2"`
	Signer   users.User

	MemberID *uint `gorm:"uniqueIndex:idx_signatures_doc_signer_member,priority:3"`
	Member   *members.Member

	SignedName string `gorm:"not null"`
	SignedAt   time.Time
}
