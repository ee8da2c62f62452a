package fees

import (
	"net/http"
	"strconv"
	"time"

	"clubmanager/database"
	"clubmanager/internal/domain/fees"
	"clubmanager/internal/domain/members"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// POST /members/:id/adjustments (staff)
func CreateAdjustment(c *gin.Context) {
	member, ok := loadMember(c)
	if !ok {
		return
	}

	var input struct {
		Kind           string          `json:"kind" binding:"required"`
		AdjustedFee    decimal.Decimal `json:"adjusted_fee"`
		EffectiveMonth int             `json:"effective_month" binding:"required"`
		EffectiveYear  int             `json:"effective_year" binding:"required"`
		ExpiryMonth    *int            `json:"expiry_month"`
		ExpiryYear     *int            `json:"expiry_year"`
		Reason         string          `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Kind != fees.KindPermanent && input.Kind != fees.KindTemporary {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be PERMANENT or TEMPORARY"})
		return
	}
	if input.EffectiveMonth < 1 || input.EffectiveMonth > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "effective_month must be 1-12"})
		return
	}
	if input.AdjustedFee.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "adjusted_fee cannot be negative"})
		return
	}
	if input.Kind == fees.KindTemporary {
		if input.ExpiryMonth == nil || input.ExpiryYear == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "temporary adjustments need expiry_month and expiry_year"})
			return
		}
		if *input.ExpiryMonth < 1 || *input.ExpiryMonth > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "expiry_month must be 1-12"})
			return
		}
	} else {
		input.ExpiryMonth = nil
		input.ExpiryYear = nil
	}

	adj := fees.FeeAdjustment{
		MemberID:       member.ID,
		Kind:           input.Kind,
		AdjustedFee:    input.AdjustedFee,
		EffectiveMonth: input.EffectiveMonth,
		EffectiveYear:  input.EffectiveYear,
		ExpiryMonth:    input.ExpiryMonth,
		ExpiryYear:     input.ExpiryYear,
		Reason:         input.Reason,
		IsActive:       true,
	}
	if err := database.DB.Create(&adj).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create adjustment"})
		return
	}

	c.JSON(http.StatusOK, adj)
}

// GET /members/:id/adjustments
func ListAdjustments(c *gin.Context) {
	member, ok := loadMember(c)
	if !ok {
		return
	}

	var list []fees.FeeAdjustment
	if err := database.DB.Where("member_id = ?", member.ID).
		Order("effective_year DESC, effective_month DESC, created_at DESC").
		Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load adjustments"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// DELETE /members/:id/adjustments/:adjID: soft deactivate, history stays.
func DeactivateAdjustment(c *gin.Context) {
	member, ok := loadMember(c)
	if !ok {
		return
	}

	res := database.DB.Model(&fees.FeeAdjustment{}).
		Where("id = ? AND member_id = ?", c.Param("adjID"), member.ID).
		Update("is_active", false)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate adjustment"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Adjustment not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Adjustment deactivated"})
}

// GET /members/:id/effective-fee?month=&year=: same resolution the
// invoicing run uses, for UI display. Defaults to the current period.
func GetEffectiveFee(c *gin.Context) {
	member, ok := loadMember(c)
	if !ok {
		return
	}

	now := time.Now()
	month := int(now.Month())
	year := now.Year()
	if m := c.Query("month"); m != "" {
		parsed, err := strconv.Atoi(m)
		if err != nil || parsed < 1 || parsed > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month"})
			return
		}
		month = parsed
	}
	if y := c.Query("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
			return
		}
		year = parsed
	}

	res := fees.EffectiveFee(database.DB, &member, month, year)
	c.JSON(http.StatusOK, gin.H{
		"member_id": member.ID,
		"month":     month,
		"year":      year,
		"fee":       res,
	})
}

func loadMember(c *gin.Context) (members.Member, bool) {
	clubID := c.GetUint("club_id")

	var member members.Member
	if err := database.DB.Where("id = ? AND club_id = ?", c.Param("id"), clubID).First(&member).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return members.Member{}, false
	}
	return member, true
}
