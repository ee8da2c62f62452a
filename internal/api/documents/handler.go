package documents

import (
	"net/http"
	"time"

	"clubmanager/database"
	"clubmanager/internal/domain/documents"
	"clubmanager/internal/domain/members"

	"github.com/gin-gonic/gin"
)

// POST /documents (staff): metadata only; the file itself lives in
// external storage and is referenced by URL.
func CreateDocument(c *gin.Context) {
	clubID := c.GetUint("club_id")

	var input struct {
		Title             string `json:"title" binding:"required"`
		Description       string `json:"description"`
		FileURL           string `json:"file_url" binding:"required"`
		RequiresSignature *bool  `json:"requires_signature"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc := documents.Document{
		ClubID:            clubID,
		Title:             input.Title,
		Description:       input.Description,
		FileURL:           input.FileURL,
		RequiresSignature: input.RequiresSignature == nil || *input.RequiresSignature,
		IsActive:          true,
	}
	if err := database.DB.Create(&doc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create document"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// GET /documents
func ListDocuments(c *gin.Context) {
	clubID := c.GetUint("club_id")

	var docs []documents.Document
	if err := database.DB.Where("club_id = ? AND is_active = true", clubID).
		Order("created_at DESC").Find(&docs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load documents"})
		return
	}
	c.JSON(http.StatusOK, docs)
}

// POST /documents/:id/sign: guardian signs, optionally per member.
// Signatures are append-only; signing twice for the same member is a
// conflict, not an update.
func SignDocument(c *gin.Context) {
	clubID := c.GetUint("club_id")
	userID := c.GetUint("user_id")

	var doc documents.Document
	if err := database.DB.Where("id = ? AND club_id = ? AND is_active = true",
		c.Param("id"), clubID).First(&doc).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}
	if !doc.RequiresSignature {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Document does not require a signature"})
		return
	}

	var input struct {
		SignedName string `json:"signed_name" binding:"required"`
		MemberID   *uint  `json:"member_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.MemberID != nil {
		var member members.Member
		if err := database.DB.Where("id = ? AND club_id = ? AND guardian_id = ?",
			*input.MemberID, clubID, userID).First(&member).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Member not found for this guardian"})
			return
		}
	}

	sig := documents.Signature{
		DocumentID: doc.ID,
		SignerID:   userID,
		MemberID:   input.MemberID,
		SignedName: input.SignedName,
		SignedAt:   time.Now(),
	}
	if err := database.DB.Create(&sig).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Already signed"})
		return
	}
	c.JSON(http.StatusOK, sig)
}

// GET /documents/:id/signatures (staff)
func ListSignatures(c *gin.Context) {
	clubID := c.GetUint("club_id")

	var doc documents.Document
	if err := database.DB.Where("id = ? AND club_id = ?", c.Param("id"), clubID).First(&doc).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	var sigs []documents.Signature
	if err := database.DB.Preload("Signer").Preload("Member").
		Where("document_id = ?", doc.ID).Order("signed_at").Find(&sigs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load signatures"})
		return
	}
	c.JSON(http.StatusOK, sigs)
}
