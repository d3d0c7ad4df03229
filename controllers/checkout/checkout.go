package checkoutControllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/novendra27/ebook-store-sub000/config"
	"github.com/novendra27/ebook-store-sub000/gateway"
	"github.com/novendra27/ebook-store-sub000/models"
)

var (
	ErrEmptyCart         = errors.New("checkout: no active cart lines")
	ErrInsufficientStock = errors.New("checkout: insufficient stock")
	ErrGateway           = errors.New("checkout: payment gateway request failed")
)

// HostedInvoiceCreator is the outbound side of the payment gateway.
type HostedInvoiceCreator interface {
	CreateInvoice(ctx context.Context, req gateway.InvoiceRequest) (string, error)
}

// nextInvoiceCode generates the next INV-<year>-<seq> code. The sequence is
// scoped to the year prefix and resets when it changes. Codes are fixed
// width, so ordering by code descending yields the highest sequence.
func nextInvoiceCode(tx *gorm.DB, now time.Time) (string, error) {
	prefix := fmt.Sprintf("INV-%d-", now.Year())

	var last models.Invoice
	err := tx.Where("code LIKE ?", prefix+"%").Order("code DESC").First(&last).Error
	seq := 1
	if err == nil {
		n, convErr := strconv.Atoi(strings.TrimPrefix(last.Code, prefix))
		if convErr != nil {
			return "", fmt.Errorf("malformed invoice code %q: %w", last.Code, convErr)
		}
		seq = n + 1
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	return fmt.Sprintf("%s%05d", prefix, seq), nil
}

// Checkout snapshots the buyer's active cart lines into a pending invoice,
// requests a hosted payment page from the gateway, marks the lines ordered
// and decrements stock — all inside one transaction. Any failure rolls the
// whole thing back and leaves the cart active so checkout can be retried.
func Checkout(ctx context.Context, db *gorm.DB, user models.User, gw HostedInvoiceCreator, gwCfg config.GatewayConfig) (models.Invoice, error) {
	var created models.Invoice

	err := db.Transaction(func(tx *gorm.DB) error {
		var lines []models.CartLine
		if err := tx.Preload("Product").
			Where("user_id = ? AND status = ?", user.ID, models.CartStatusActive).
			Order("created_at").
			Find(&lines).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		var total int64
		items := make([]gateway.InvoiceItem, 0, len(lines))
		for _, line := range lines {
			total += line.Product.Price * int64(line.Quantity)
			items = append(items, gateway.InvoiceItem{
				Name:     line.Product.Name,
				Price:    line.Product.Price,
				Quantity: line.Quantity,
			})
		}

		code, err := nextInvoiceCode(tx, time.Now())
		if err != nil {
			return err
		}

		// The code column carries a unique index; a collision aborts the
		// transaction and surfaces as a fatal checkout error.
		invoice := models.Invoice{
			UserID: user.ID,
			Code:   code,
			Amount: total,
			Status: models.InvoiceStatusPending,
		}
		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}

		detailURL := gwCfg.RedirectBaseURL + "/invoices/" + code
		req := gateway.InvoiceRequest{
			ExternalID:         code,
			Amount:             total,
			Items:              items,
			SuccessRedirectURL: detailURL,
			FailureRedirectURL: detailURL,
		}
		req.Customer.Name = user.Name
		req.Customer.Email = user.Email

		paymentURL, err := gw.CreateInvoice(ctx, req)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrGateway, err)
		}
		if err := tx.Model(&invoice).Update("payment_url", paymentURL).Error; err != nil {
			return err
		}
		invoice.PaymentURL = paymentURL

		for _, line := range lines {
			// Conditional decrement: the stock >= quantity guard keeps two
			// concurrent checkouts from driving stock below zero.
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", line.ProductID, line.Quantity).
				Update("stock", gorm.Expr("stock - ?", line.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, line.Product.Name)
			}

			if err := tx.Model(&models.CartLine{}).Where("id = ?", line.ID).
				Update("status", models.CartStatusOrdered).Error; err != nil {
				return err
			}

			invLine := models.InvoiceLine{
				InvoiceID:   invoice.ID,
				ProductID:   line.ProductID,
				SellerID:    line.Product.SellerID,
				ProductName: line.Product.Name,
				UnitAmount:  line.Product.Price,
				Quantity:    line.Quantity,
				IsDownload:  line.Product.IsDownload,
			}
			if err := tx.Create(&invLine).Error; err != nil {
				return err
			}
			invoice.Lines = append(invoice.Lines, invLine)
		}

		created = invoice
		return nil
	})

	return created, err
}

// POST /user/checkout
func CheckoutHandler(db *gorm.DB, gw HostedInvoiceCreator, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(uint)

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		invoice, err := Checkout(c.Request.Context(), db, user, gw, cfg.Gateway)
		switch {
		case errors.Is(err, ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		case errors.Is(err, ErrInsufficientStock):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, ErrGateway):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway unavailable, please retry"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
		default:
			c.JSON(http.StatusCreated, gin.H{
				"code":        invoice.Code,
				"amount":      invoice.Amount,
				"payment_url": invoice.PaymentURL,
			})
		}
	}
}
