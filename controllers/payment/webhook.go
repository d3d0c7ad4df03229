package paymentControllers

import (
	"errors"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	balanceControllers "github.com/novendra27/ebook-store-sub000/controllers/balance"
	"github.com/novendra27/ebook-store-sub000/models"
)

var errUnknownInvoice = errors.New("payment: unknown external_id")

// CallbackPayload is the gateway's webhook body. ExternalID carries the
// invoice code we sent at creation time.
type CallbackPayload struct {
	ExternalID     string `json:"external_id" binding:"required"`
	Status         string `json:"status" binding:"required"`
	PaidAt         string `json:"paid_at"`
	PaymentMethod  string `json:"payment_method"`
	PaymentChannel string `json:"payment_channel"`
}

// mapGatewayStatus translates the gateway's vocabulary to ours. PAID and
// SETTLED both mean the money arrived; everything else is a failure.
func mapGatewayStatus(status string) models.InvoiceStatus {
	switch status {
	case "PAID", "SETTLED":
		return models.InvoiceStatusPaid
	default:
		return models.InvoiceStatusFailed
	}
}

// POST /payment/gateway/callback
// Runs behind the x-callback-token middleware. The invoice transition is a
// conditional update guarded on status = pending, so a replayed delivery is
// a 200 no-op: no second transition, no second ledger credit. Sellers are
// credited their line subtotals in the same transaction as the paid flip.
func GatewayCallback(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload CallbackPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
			return
		}

		log.Printf("gateway callback: external_id=%s status=%s", payload.ExternalID, payload.Status)

		mapped := mapGatewayStatus(payload.Status)

		paidAt := time.Now()
		if payload.PaidAt != "" {
			if t, err := time.Parse(time.RFC3339, payload.PaidAt); err == nil {
				paidAt = t
			}
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			var invoice models.Invoice
			if err := tx.Where("code = ?", payload.ExternalID).First(&invoice).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errUnknownInvoice
				}
				return err
			}

			updates := map[string]interface{}{
				"status":          mapped,
				"payment_method":  payload.PaymentMethod,
				"payment_channel": payload.PaymentChannel,
			}
			if mapped == models.InvoiceStatusPaid {
				updates["paid_at"] = paidAt
				updates["download_token"] = uuid.NewString()
			}

			res := tx.Model(&models.Invoice{}).
				Where("id = ? AND status = ?", invoice.ID, models.InvoiceStatusPending).
				Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// Already terminal; acknowledge without side effects.
				return nil
			}

			if mapped == models.InvoiceStatusPaid {
				return creditSellers(tx, invoice)
			}
			return nil
		})

		switch {
		case errors.Is(err, errUnknownInvoice):
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process callback"})
		default:
			c.JSON(http.StatusOK, gin.H{"message": "Callback processed"})
		}
	}
}

// creditSellers settles a freshly paid invoice into the sellers' ledgers,
// one credit row per seller covering that seller's line subtotals.
func creditSellers(tx *gorm.DB, invoice models.Invoice) error {
	var lines []models.InvoiceLine
	if err := tx.Where("invoice_id = ?", invoice.ID).Find(&lines).Error; err != nil {
		return err
	}

	subtotals := make(map[uint]int64)
	for _, line := range lines {
		subtotals[line.SellerID] += line.UnitAmount * int64(line.Quantity)
	}

	sellerIDs := make([]uint, 0, len(subtotals))
	for id := range subtotals {
		sellerIDs = append(sellerIDs, id)
	}
	sort.Slice(sellerIDs, func(i, j int) bool { return sellerIDs[i] < sellerIDs[j] })

	for _, sellerID := range sellerIDs {
		invoiceID := invoice.ID
		note := "Sale settlement " + invoice.Code
		if err := balanceControllers.Credit(tx, sellerID, &invoiceID, subtotals[sellerID], note); err != nil {
			return err
		}
	}
	return nil
}
