package middleware

import (
	"net/http"
	"strconv"

	"clubmanager/database"
	"clubmanager/internal/domain/users"

	"github.com/gin-gonic/gin"
)

// RequireClubScope loads the caller and pins the request to their club.
// Platform admins may act on any club via the ?club_id query; everyone
// else is locked to the club on their user row, whatever the token says.
func RequireClubScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		var user users.User
		if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Account not found",
			})
			return
		}

		if user.Role == users.RoleAdmin {
			if raw := c.Query("club_id"); raw != "" {
				id, err := strconv.ParseUint(raw, 10, 64)
				if err != nil {
					c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
						"error": "Invalid club_id",
					})
					return
				}
				c.Set("club_id", uint(id))
			}
			c.Next()
			return
		}

		if user.ClubID == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Account is not linked to a club",
			})
			return
		}

		c.Set("club_id", *user.ClubID)
		c.Next()
	}
}
