package database

import (
	"fmt"
	"log"
	"os"

	"clubmanager/internal/domain/attendance"
	"clubmanager/internal/domain/clubs"
	"clubmanager/internal/domain/documents"
	"clubmanager/internal/domain/fees"
	"clubmanager/internal/domain/invoices"
	"clubmanager/internal/domain/members"
	"clubmanager/internal/domain/messages"
	"clubmanager/internal/domain/payments"
	"clubmanager/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("❌ DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("❌ Failed to connect to database:", err)
	}

	DB = db

	if err := DB.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Fatal("❌ Failed to enable pgcrypto extension:", err)
	}

	if err := DB.AutoMigrate(Models()...); err != nil {
		log.Fatal("❌ AutoMigrate error:", err)
	}

	fmt.Println("✅ Connected and migrated successfully")
}

// Models lists every persisted type; tests migrate the same list into
// their own database.
func Models() []interface{} {
	return []interface{}{
		// tenancy + people
		&clubs.Club{},
		&clubs.LevelFee{},
		&users.User{},
		&users.VerificationToken{},
		&members.Member{},

		// billing
		&fees.FeeAdjustment{},
		&invoices.Invoice{},
		&invoices.InvoiceItem{},
		&payments.Payment{},
		&payments.PaymentActivity{},
		&payments.WebhookEvent{},

		// club operations
		&attendance.Session{},
		&attendance.Record{},
		&documents.Document{},
		&documents.Signature{},
		&messages.Message{},
	}
}
