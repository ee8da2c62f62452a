package attendance

import (
	"net/http"
	"time"

	"clubmanager/database"
	"clubmanager/internal/domain/attendance"
	"clubmanager/internal/domain/members"

	"github.com/gin-gonic/gin"
)

// POST /attendance/sessions (coach/staff)
func CreateSession(c *gin.Context) {
	clubID := c.GetUint("club_id")

	var input struct {
		Level string    `json:"level" binding:"required"`
		Date  time.Time `json:"date" binding:"required"`
		Notes string    `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session := attendance.Session{
		ClubID:  clubID,
		CoachID: c.GetUint("user_id"),
		Level:   input.Level,
		Date:    input.Date,
		Notes:   input.Notes,
	}
	if err := database.DB.Create(&session).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}
	c.JSON(http.StatusOK, session)
}

// GET /attendance/sessions
func ListSessions(c *gin.Context) {
	clubID := c.GetUint("club_id")

	q := database.DB.Preload("Records").Where("club_id = ?", clubID)
	if level := c.Query("level"); level != "" {
		q = q.Where("level = ?", level)
	}

	var sessions []attendance.Session
	if err := q.Order("date DESC").Limit(100).Find(&sessions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load sessions"})
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// PUT /attendance/sessions/:id/marks: upsert the whole register in one
// call; re-marking a member updates their existing record.
func MarkAttendance(c *gin.Context) {
	clubID := c.GetUint("club_id")

	var session attendance.Session
	if err := database.DB.Where("id = ? AND club_id = ?", c.Param("id"), clubID).First(&session).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	var input struct {
		Marks []struct {
			MemberID uint   `json:"member_id" binding:"required"`
			Mark     string `json:"mark" binding:"required"`
		} `json:"marks" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for _, m := range input.Marks {
		switch m.Mark {
		case attendance.MarkPresent, attendance.MarkAbsent, attendance.MarkLate:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown mark: " + m.Mark})
			return
		}

		var member members.Member
		if err := database.DB.Where("id = ? AND club_id = ?", m.MemberID, clubID).First(&member).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Member not in this club"})
			return
		}

		var record attendance.Record
		err := database.DB.Where("session_id = ? AND member_id = ?", session.ID, m.MemberID).First(&record).Error
		if err != nil {
			record = attendance.Record{SessionID: session.ID, MemberID: m.MemberID, Mark: m.Mark}
			if err := database.DB.Create(&record).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save attendance"})
				return
			}
		} else if record.Mark != m.Mark {
			record.Mark = m.Mark
			if err := database.DB.Save(&record).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save attendance"})
				return
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Attendance saved"})
}

// GET /members/:id/attendance: a member's history, guardian-visible.
func MemberHistory(c *gin.Context) {
	clubID := c.GetUint("club_id")

	var member members.Member
	q := database.DB.Where("id = ? AND club_id = ?", c.Param("id"), clubID)
	if c.GetString("role") == "guardian" {
		q = q.Where("guardian_id = ?", c.GetUint("user_id"))
	}
	if err := q.First(&member).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	var records []attendance.Record
	if err := database.DB.Where("member_id = ?", member.ID).
		Order("created_at DESC").Limit(100).Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load attendance"})
		return
	}
	c.JSON(http.StatusOK, records)
}
