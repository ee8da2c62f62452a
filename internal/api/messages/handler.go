package messages

import (
	"net/http"
	"time"

	"clubmanager/database"
	"clubmanager/internal/domain/messages"
	"clubmanager/internal/domain/users"

	"github.com/gin-gonic/gin"
)

// POST /messages: direct message, or a club announcement when
// recipient_id is omitted (staff only for announcements).
func SendMessage(c *gin.Context) {
	clubID := c.GetUint("club_id")
	userID := c.GetUint("user_id")
	role := c.GetString("role")

	var input struct {
		RecipientID *uint  `json:"recipient_id"`
		Subject     string `json:"subject"`
		Body        string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.RecipientID == nil && role == users.RoleGuardian {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only staff can send announcements"})
		return
	}
	if input.RecipientID != nil {
		var recipient users.User
		if err := database.DB.Where("id = ? AND club_id = ?", *input.RecipientID, clubID).
			First(&recipient).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Recipient not in this club"})
			return
		}
	}

	msg := messages.Message{
		ClubID:      clubID,
		SenderID:    userID,
		RecipientID: input.RecipientID,
		Subject:     input.Subject,
		Body:        input.Body,
	}
	if err := database.DB.Create(&msg).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}
	c.JSON(http.StatusOK, msg)
}

// GET /messages: announcements plus anything sent to or by the caller.
func ListMessages(c *gin.Context) {
	clubID := c.GetUint("club_id")
	userID := c.GetUint("user_id")

	var list []messages.Message
	err := database.DB.Preload("Sender").
		Where("club_id = ? AND (recipient_id IS NULL OR recipient_id = ? OR sender_id = ?)",
			clubID, userID, userID).
		Order("created_at DESC").Limit(200).Find(&list).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /messages/:id/read
func MarkRead(c *gin.Context) {
	clubID := c.GetUint("club_id")
	userID := c.GetUint("user_id")

	var msg messages.Message
	if err := database.DB.Where("id = ? AND club_id = ? AND recipient_id = ?",
		c.Param("id"), clubID, userID).First(&msg).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		return
	}

	if msg.ReadAt == nil {
		now := time.Now()
		msg.ReadAt = &now
		if err := database.DB.Save(&msg).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark message read"})
			return
		}
	}
	c.JSON(http.StatusOK, msg)
}
