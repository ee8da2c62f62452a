package users

import (
	"net/http"

	"clubmanager/database"
	"clubmanager/internal/domain/invoices"
	"clubmanager/internal/domain/members"
	"clubmanager/internal/domain/users"

	"github.com/gin-gonic/gin"
)

// GET /verify?token=...
func VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token"})
		return
	}

	var verif users.VerificationToken
	if err := database.DB.Where("token = ? AND type = ?", token, "verify").First(&verif).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}

	if err := database.DB.Model(&users.User{}).
		Where("id = ?", verif.UserID).
		Update("is_verified", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify account"})
		return
	}

	database.DB.Delete(&verif)

	c.JSON(http.StatusOK, gin.H{"message": "Email verified. You can now log in."})
}

type meResponse struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Lastname string  `json:"lastname"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	ClubID   *uint   `json:"club_id,omitempty"`
	ClubName *string `json:"club_name,omitempty"`

	MemberCount     int64 `json:"member_count"`
	UnpaidInvoices  int64 `json:"unpaid_invoices"`
	OverdueInvoices int64 `json:"overdue_invoices"`
}

// GET /me: dashboard header data for whichever role is logged in.
func GetCurrentUser(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user users.User
	if err := database.DB.Preload("Club").Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	resp := meResponse{
		ID:       user.ID,
		Name:     user.Name,
		Lastname: user.Lastname,
		Email:    user.Email,
		Role:     user.Role,
		ClubID:   user.ClubID,
	}
	if user.Club != nil {
		resp.ClubName = &user.Club.Name
	}

	if user.Role == users.RoleGuardian {
		database.DB.Model(&members.Member{}).
			Where("guardian_id = ?", user.ID).
			Count(&resp.MemberCount)
		database.DB.Model(&invoices.Invoice{}).
			Where("payer_id = ? AND status = ?", user.ID, invoices.StatusPending).
			Count(&resp.UnpaidInvoices)
		database.DB.Model(&invoices.Invoice{}).
			Where("payer_id = ? AND status = ?", user.ID, invoices.StatusOverdue).
			Count(&resp.OverdueInvoices)
	} else if user.ClubID != nil {
		database.DB.Model(&members.Member{}).
			Where("club_id = ?", *user.ClubID).
			Count(&resp.MemberCount)
		database.DB.Model(&invoices.Invoice{}).
			Where("club_id = ? AND status = ?", *user.ClubID, invoices.StatusPending).
			Count(&resp.UnpaidInvoices)
		database.DB.Model(&invoices.Invoice{}).
			Where("club_id = ? AND status = ?", *user.ClubID, invoices.StatusOverdue).
			Count(&resp.OverdueInvoices)
	}

	c.JSON(http.StatusOK, resp)
}
