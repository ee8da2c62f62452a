package invoices

import (
	"errors"
	"net/http"
	"time"

	"clubmanager/database"
	"clubmanager/internal/domain/invoices"
	"clubmanager/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// POST /invoices/generate (staff): one payer, one period.
func Generate(c *gin.Context) {
	clubID := c.GetUint("club_id")

	var input struct {
		PayerID uint      `json:"payer_id" binding:"required"`
		Month   int       `json:"month" binding:"required"`
		Year    int       `json:"year" binding:"required"`
		DueDate time.Time `json:"due_date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Month < 1 || input.Month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be 1-12"})
		return
	}

	inv, err := GenerateForPayer(database.DB, clubID, input.PayerID, input.Month, input.Year, input.DueDate)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicatePeriod):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, ErrNothingToInvoice):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate invoice"})
		}
		return
	}
	c.JSON(http.StatusOK, inv)
}

// POST /invoices/generate-all (staff): whole club, per-payer results.
func GenerateAll(c *gin.Context) {
	clubID := c.GetUint("club_id")

	var input struct {
		Month   int       `json:"month" binding:"required"`
		Year    int       `json:"year" binding:"required"`
		DueDate time.Time `json:"due_date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Month < 1 || input.Month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be 1-12"})
		return
	}

	results, err := GenerateForClub(database.DB, clubID, input.Month, input.Year, input.DueDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run invoice generation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// GET /invoices: staff see the club's, guardians their own.
func ListInvoices(c *gin.Context) {
	clubID := c.GetUint("club_id")

	q := database.DB.Preload("Items").Where("club_id = ?", clubID)
	if c.GetString("role") == users.RoleGuardian {
		q = q.Where("payer_id = ?", c.GetUint("user_id"))
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var list []invoices.Invoice
	if err := q.Order("year DESC, month DESC, id DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load invoices"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /invoices/:id
func GetInvoice(c *gin.Context) {
	inv, ok := loadScopedInvoice(c, true)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, inv)
}

// POST /invoices/:id/items (staff)
func AddItem(c *gin.Context) {
	inv, ok := loadScopedInvoice(c, true)
	if !ok {
		return
	}

	var input struct {
		Description string          `json:"description" binding:"required"`
		Amount      decimal.Decimal `json:"amount"`
		Quantity    int             `json:"quantity"`
		ItemType    string          `json:"item_type"`
		MemberID    *uint           `json:"member_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Quantity <= 0 {
		input.Quantity = 1
	}
	if input.ItemType == "" {
		input.ItemType = invoices.ItemOnceOff
	}

	inv.Items = append(inv.Items, invoices.InvoiceItem{
		InvoiceID:   inv.ID,
		Description: input.Description,
		Amount:      input.Amount,
		Quantity:    input.Quantity,
		ItemType:    input.ItemType,
		MemberID:    input.MemberID,
	})
	if err := inv.RecomputeTotals(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	if err := database.DB.Save(&inv).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save invoice"})
		return
	}
	c.JSON(http.StatusOK, inv)
}

// DELETE /invoices/:id/items/:itemID (staff)
func DeleteItem(c *gin.Context) {
	inv, ok := loadScopedInvoice(c, true)
	if !ok {
		return
	}
	if !inv.Editable() {
		c.JSON(http.StatusConflict, gin.H{"error": invoices.ErrNotEditable.Error()})
		return
	}

	res := database.DB.Where("id = ? AND invoice_id = ?", c.Param("itemID"), inv.ID).
		Delete(&invoices.InvoiceItem{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	// Reload remaining items, then re-derive totals.
	if err := database.DB.Where("invoice_id = ?", inv.ID).Find(&inv.Items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload items"})
		return
	}
	if err := inv.RecomputeTotals(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err := database.DB.Save(&inv).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save invoice"})
		return
	}
	c.JSON(http.StatusOK, inv)
}

// PUT /invoices/:id/discount (staff)
func UpdateDiscount(c *gin.Context) {
	inv, ok := loadScopedInvoice(c, true)
	if !ok {
		return
	}

	var input struct {
		Discount decimal.Decimal `json:"discount"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Discount.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "discount cannot be negative"})
		return
	}

	inv.Discount = input.Discount
	if err := inv.RecomputeTotals(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err := database.DB.Save(&inv).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save invoice"})
		return
	}
	c.JSON(http.StatusOK, inv)
}

// POST /invoices/:id/cancel (staff)
func CancelInvoice(c *gin.Context) {
	inv, ok := loadScopedInvoice(c, false)
	if !ok {
		return
	}
	if inv.Status == invoices.StatusPaid {
		c.JSON(http.StatusConflict, gin.H{"error": "Paid invoices cannot be cancelled"})
		return
	}
	if inv.Status == invoices.StatusCancelled {
		c.JSON(http.StatusOK, inv)
		return
	}

	inv.Status = invoices.StatusCancelled
	if err := database.DB.Save(&inv).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel invoice"})
		return
	}
	c.JSON(http.StatusOK, inv)
}

func loadScopedInvoice(c *gin.Context, withItems bool) (invoices.Invoice, bool) {
	clubID := c.GetUint("club_id")

	q := database.DB.Where("id = ? AND club_id = ?", c.Param("id"), clubID)
	if withItems {
		q = q.Preload("Items")
	}
	if c.GetString("role") == users.RoleGuardian {
		q = q.Where("payer_id = ?", c.GetUint("user_id"))
	}

	var inv invoices.Invoice
	if err := q.First(&inv).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return invoices.Invoice{}, false
	}
	return inv, true
}
