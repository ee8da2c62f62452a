package members

import (
	"net/http"
	"time"

	"clubmanager/database"
	"clubmanager/internal/domain/members"
	"clubmanager/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// POST /members (staff)
func CreateMember(c *gin.Context) {
	clubID := c.GetUint("club_id")

	var input struct {
		GuardianID uint             `json:"guardian_id" binding:"required"`
		FirstName  string           `json:"first_name" binding:"required"`
		LastName   string           `json:"last_name" binding:"required"`
		BirthDate  *time.Time       `json:"birth_date"`
		Level      string           `json:"level" binding:"required"`
		MonthlyFee *decimal.Decimal `json:"monthly_fee"`
		Notes      string           `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var guardian users.User
	if err := database.DB.Where("id = ? AND club_id = ? AND role = ?",
		input.GuardianID, clubID, users.RoleGuardian).First(&guardian).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Guardian not found in this club"})
		return
	}

	member := members.Member{
		ClubID:     clubID,
		GuardianID: guardian.ID,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		BirthDate:  input.BirthDate,
		Level:      input.Level,
		Status:     members.StatusActive,
		MonthlyFee: input.MonthlyFee,
		Notes:      input.Notes,
	}
	if err := database.DB.Create(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create member"})
		return
	}

	c.JSON(http.StatusOK, member)
}

// GET /members: staff see the club; guardians see their own children.
func ListMembers(c *gin.Context) {
	clubID := c.GetUint("club_id")
	role := c.GetString("role")

	q := database.DB.Where("club_id = ?", clubID)
	if role == users.RoleGuardian {
		q = q.Where("guardian_id = ?", c.GetUint("user_id"))
	}

	var list []members.Member
	if err := q.Order("last_name, first_name").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load members"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /members/:id
func GetMember(c *gin.Context) {
	member, ok := loadScopedMember(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, member)
}

// PUT /members/:id (staff)
func UpdateMember(c *gin.Context) {
	member, ok := loadScopedMember(c)
	if !ok {
		return
	}

	var input struct {
		FirstName  *string          `json:"first_name"`
		LastName   *string          `json:"last_name"`
		BirthDate  *time.Time       `json:"birth_date"`
		Level      *string          `json:"level"`
		Status     *string          `json:"status"`
		MonthlyFee *decimal.Decimal `json:"monthly_fee"`
		Notes      *string          `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.FirstName != nil {
		member.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		member.LastName = *input.LastName
	}
	if input.BirthDate != nil {
		member.BirthDate = input.BirthDate
	}
	if input.Level != nil {
		member.Level = *input.Level
	}
	if input.Status != nil {
		switch *input.Status {
		case members.StatusActive, members.StatusTrial, members.StatusWithdrawn:
			member.Status = *input.Status
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown member status"})
			return
		}
	}
	if input.MonthlyFee != nil {
		member.MonthlyFee = input.MonthlyFee
	}
	if input.Notes != nil {
		member.Notes = *input.Notes
	}

	if err := database.DB.Save(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member"})
		return
	}
	c.JSON(http.StatusOK, member)
}

// DELETE /members/:id: withdraw rather than delete; history stays.
func WithdrawMember(c *gin.Context) {
	member, ok := loadScopedMember(c)
	if !ok {
		return
	}

	member.Status = members.StatusWithdrawn
	if err := database.DB.Save(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to withdraw member"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member withdrawn"})
}

func loadScopedMember(c *gin.Context) (members.Member, bool) {
	clubID := c.GetUint("club_id")

	var member members.Member
	q := database.DB.Where("id = ? AND club_id = ?", c.Param("id"), clubID)
	if c.GetString("role") == users.RoleGuardian {
		q = q.Where("guardian_id = ?", c.GetUint("user_id"))
	}
	if err := q.First(&member).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return members.Member{}, false
	}
	return member, true
}
