package billing

import (
	"net/http"

	"clubmanager/database"
	"clubmanager/internal/domain/payments"
	"clubmanager/internal/domain/users"

	"github.com/gin-gonic/gin"
)

// GET /payments: staff see the club's, guardians their own.
func GetPaymentHistory(c *gin.Context) {
	clubID := c.GetUint("club_id")

	q := database.DB.Preload("Invoice").Where("club_id = ?", clubID)
	if c.GetString("role") == users.RoleGuardian {
		q = q.Where("payer_id = ?", c.GetUint("user_id"))
	}

	var list []payments.Payment
	if err := q.Order("created_at DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /payments/:id/activity: the audit trail for one payment.
func GetPaymentActivity(c *gin.Context) {
	clubID := c.GetUint("club_id")

	var payment payments.Payment
	q := database.DB.Where("id = ? AND club_id = ?", c.Param("id"), clubID)
	if c.GetString("role") == users.RoleGuardian {
		q = q.Where("payer_id = ?", c.GetUint("user_id"))
	}
	if err := q.First(&payment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}

	var activity []payments.PaymentActivity
	if err := database.DB.Where("payment_id = ?", payment.ID).
		Order("created_at ASC, id ASC").Find(&activity).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load activity"})
		return
	}
	c.JSON(http.StatusOK, activity)
}
