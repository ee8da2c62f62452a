package admin

import (
	"net/http"
	"time"

	"clubmanager/database"
	"clubmanager/internal/domain/invoices"
	"clubmanager/internal/domain/members"
	"clubmanager/internal/domain/payments"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ClubStats struct {
	ActiveMembers     int64           `json:"active_members"`
	PendingInvoices   int64           `json:"pending_invoices"`
	OverdueInvoices   int64           `json:"overdue_invoices"`
	OutstandingTotal  decimal.Decimal `json:"outstanding_total"`
	RevenueThisMonth  decimal.Decimal `json:"revenue_this_month"`
	RevenueAllTime    decimal.Decimal `json:"revenue_all_time"`
	PaymentsThisMonth int64           `json:"payments_this_month"`
}

// GET /admin/stats: gorm aggregates only; one source of truth for the
// dashboard numbers.
func GetClubStats(c *gin.Context) {
	clubID := c.GetUint("club_id")
	var stats ClubStats

	database.DB.Model(&members.Member{}).
		Where("club_id = ? AND status = ?", clubID, members.StatusActive).
		Count(&stats.ActiveMembers)

	database.DB.Model(&invoices.Invoice{}).
		Where("club_id = ? AND status = ?", clubID, invoices.StatusPending).
		Count(&stats.PendingInvoices)
	database.DB.Model(&invoices.Invoice{}).
		Where("club_id = ? AND status = ?", clubID, invoices.StatusOverdue).
		Count(&stats.OverdueInvoices)

	var outstanding struct{ Total decimal.Decimal }
	database.DB.Model(&invoices.Invoice{}).
		Select("COALESCE(SUM(total), 0) AS total").
		Where("club_id = ? AND status IN ?", clubID,
			[]string{invoices.StatusPending, invoices.StatusOverdue}).
		Scan(&outstanding)
	stats.OutstandingTotal = outstanding.Total

	monthStart := time.Date(time.Now().Year(), time.Now().Month(), 1, 0, 0, 0, 0, time.Local)

	var monthRevenue struct{ Total decimal.Decimal }
	database.DB.Model(&payments.Payment{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("club_id = ? AND status = ? AND processed_at >= ?",
			clubID, payments.StatusCompleted, monthStart).
		Scan(&monthRevenue)
	stats.RevenueThisMonth = monthRevenue.Total

	var allRevenue struct{ Total decimal.Decimal }
	database.DB.Model(&payments.Payment{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("club_id = ? AND status = ?", clubID, payments.StatusCompleted).
		Scan(&allRevenue)
	stats.RevenueAllTime = allRevenue.Total

	database.DB.Model(&payments.Payment{}).
		Where("club_id = ? AND status = ? AND processed_at >= ?",
			clubID, payments.StatusCompleted, monthStart).
		Count(&stats.PaymentsThisMonth)

	c.JSON(http.StatusOK, stats)
}
