package clubs

import (
	"net/http"

	"clubmanager/database"
	"clubmanager/internal/domain/clubs"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// POST /admin/clubs (platform admin)
func CreateClub(c *gin.Context) {
	var input struct {
		Name  string `json:"name" binding:"required"`
		Slug  string `json:"slug" binding:"required"`
		Email string `json:"email"`
		Tel   string `json:"tel"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	club := clubs.Club{
		Name:     input.Name,
		Slug:     input.Slug,
		Email:    input.Email,
		Tel:      input.Tel,
		IsActive: true,
	}
	if err := database.DB.Create(&club).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Club slug already exists"})
		return
	}

	c.JSON(http.StatusOK, club)
}

// GET /admin/clubs
func ListClubs(c *gin.Context) {
	var all []clubs.Club
	if err := database.DB.Order("name").Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load clubs"})
		return
	}
	c.JSON(http.StatusOK, all)
}

// GET /level-fees
func ListLevelFees(c *gin.Context) {
	clubID := c.GetUint("club_id")

	var fees []clubs.LevelFee
	if err := database.DB.Where("club_id = ?", clubID).Order("level_name").Find(&fees).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load level fees"})
		return
	}
	c.JSON(http.StatusOK, fees)
}

// PUT /level-fees: create-or-update the default fee for one level.
func UpsertLevelFee(c *gin.Context) {
	clubID := c.GetUint("club_id")

	var input struct {
		LevelName  string          `json:"level_name" binding:"required"`
		MonthlyFee decimal.Decimal `json:"monthly_fee" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.MonthlyFee.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "monthly_fee cannot be negative"})
		return
	}

	var fee clubs.LevelFee
	err := database.DB.Where("club_id = ? AND level_name = ?", clubID, input.LevelName).First(&fee).Error
	if err != nil {
		fee = clubs.LevelFee{ClubID: clubID, LevelName: input.LevelName, MonthlyFee: input.MonthlyFee}
		if err := database.DB.Create(&fee).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save level fee"})
			return
		}
	} else {
		fee.MonthlyFee = input.MonthlyFee
		if err := database.DB.Save(&fee).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save level fee"})
			return
		}
	}

	c.JSON(http.StatusOK, fee)
}

// DELETE /level-fees/:id
func DeleteLevelFee(c *gin.Context) {
	clubID := c.GetUint("club_id")

	res := database.DB.Where("id = ? AND club_id = ?", c.Param("id"), clubID).Delete(&clubs.LevelFee{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete level fee"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Level fee not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Level fee deleted"})
}
