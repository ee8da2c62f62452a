package admin

import (
	"net/http"
	"time"

	"clubmanager/database"
	"clubmanager/internal/domain/users"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type AdminUser struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Lastname   string  `json:"lastname"`
	Tel        string  `json:"tel"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	IsVerified bool    `json:"is_verified"`
	ClubID     *uint   `json:"club_id,omitempty"`
	ClubName   *string `json:"club_name,omitempty"`
}

func AdminDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the admin dashboard 👑",
	})
}

// GET /admin/users: club admins see their club, platform admins all.
func ListAllUsers(c *gin.Context) {
	q := database.DB.Preload("Club")
	if c.GetString("role") == users.RoleClubAdmin {
		q = q.Where("club_id = ?", c.GetUint("club_id"))
	}

	var all []users.User
	if err := q.Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	var out []AdminUser
	for _, u := range all {
		var clubName *string
		if u.Club != nil {
			clubName = &u.Club.Name
		}
		out = append(out, AdminUser{
			ID:         u.ID,
			Name:       u.Name,
			Lastname:   u.Lastname,
			Tel:        u.Tel,
			Email:      u.Email,
			Role:       u.Role,
			IsVerified: u.IsVerified,
			ClubID:     u.ClubID,
			ClubName:   clubName,
		})
	}

	c.JSON(http.StatusOK, out)
}

// POST /admin/users: create a staff account (coach or club_admin) in
// the caller's club, pre-verified.
func CreateStaffUser(c *gin.Context) {
	clubID := c.GetUint("club_id")

	var input struct {
		Name     string `json:"name" binding:"required"`
		Lastname string `json:"lastname" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Tel      string `json:"tel"`
		Role     string `json:"role" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Role != users.RoleCoach && input.Role != users.RoleClubAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be coach or club_admin"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	hashed := string(hashedPassword)

	user := users.User{
		Name:         input.Name,
		Lastname:     input.Lastname,
		Tel:          input.Tel,
		Email:        input.Email,
		Password:     &hashed,
		AuthProvider: "local",
		Role:         input.Role,
		IsVerified:   true,
		ClubID:       &clubID,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email may already exist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": user.ID, "message": "Staff user created"})
}

// POST /admin/invoices/mark-overdue: flips PENDING invoices past their
// due date to OVERDUE for the caller's club.
func MarkOverdueInvoices(c *gin.Context) {
	clubID := c.GetUint("club_id")

	res := database.DB.Exec(
		`UPDATE invoices SET status = 'OVERDUE', updated_at = ? WHERE club_id = ? AND status = 'PENDING' AND due_date < ?`,
		time.Now(), clubID, time.Now(),
	)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark overdue invoices"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": res.RowsAffected})
}
