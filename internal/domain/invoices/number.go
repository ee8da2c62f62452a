package invoices

import (
	"fmt"

	"gorm.io/gorm"
)

// NextNumber produces the next invoice number for one club and period,
// e.g. "INV-7-202603-0042". The sequence restarts per (club, year, month);
// the unique index on Number catches collisions from concurrent runs.
func NextNumber(db *gorm.DB, clubID uint, month, year int) (string, error) {
	var count int64
	err := db.Model(&Invoice{}).
		Where("club_id = ? AND year = ? AND month = ?", clubID, year, month).
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%d-%04d%02d-%04d", clubID, year, month, count+1), nil
}
