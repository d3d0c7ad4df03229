package invoiceControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/novendra27/ebook-store-sub000/models"
)

// GET /user/invoices
func ListInvoices(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(uint)

		var invoices []models.Invoice
		if err := db.Preload("Lines").
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Find(&invoices).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invoices"})
			return
		}
		c.JSON(http.StatusOK, invoices)
	}
}

// findOwnedInvoice resolves an invoice by code and distinguishes unknown
// codes (404) from someone else's invoice (403).
func findOwnedInvoice(c *gin.Context, db *gorm.DB) (models.Invoice, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return models.Invoice{}, false
	}
	userID := userIDVal.(uint)
	code := c.Param("code")

	var invoice models.Invoice
	if err := db.Preload("Lines").Where("code = ?", code).First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invoice"})
		}
		return models.Invoice{}, false
	}
	if invoice.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your invoice"})
		return models.Invoice{}, false
	}
	return invoice, true
}

// GET /user/invoices/:code
func GetInvoice(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		invoice, ok := findOwnedInvoice(c, db)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, invoice)
	}
}

// GET /user/invoices/:code/download
// Digital delivery gate: only a paid invoice exposes its download token and
// downloadable lines.
func GetDownloads(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		invoice, ok := findOwnedInvoice(c, db)
		if !ok {
			return
		}

		if invoice.Status != models.InvoiceStatusPaid {
			c.JSON(http.StatusConflict, gin.H{"error": "Invoice is not paid"})
			return
		}

		downloads := make([]models.InvoiceLine, 0, len(invoice.Lines))
		for _, line := range invoice.Lines {
			if line.IsDownload {
				downloads = append(downloads, line)
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"download_token": invoice.DownloadToken,
			"items":          downloads,
		})
	}
}
