package balanceControllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/novendra27/ebook-store-sub000/config"
	"github.com/novendra27/ebook-store-sub000/models"
)

var (
	ErrInsufficientFunds = errors.New("balance: insufficient funds")
	ErrBelowMinimum      = errors.New("balance: amount below withdrawal minimum")
)

// Credit appends one positive ledger row for a seller. Must run inside the
// caller's transaction so the row and whatever caused it commit together.
func Credit(tx *gorm.DB, sellerID uint, invoiceID *uint, amount int64, note string) error {
	return appendEntry(tx, sellerID, invoiceID, amount, note)
}

// Debit appends one negative ledger row for a seller.
func Debit(tx *gorm.DB, sellerID uint, amount int64, note string) error {
	return appendEntry(tx, sellerID, nil, -amount, note)
}

// appendEntry reads the seller's latest balance-after and inserts the next
// row. Bumping users.ledger_seq first takes a row lock on the seller for the
// rest of the transaction, so concurrent ledger writes for the same seller
// cannot interleave between the read and the insert.
func appendEntry(tx *gorm.DB, sellerID uint, invoiceID *uint, change int64, note string) error {
	res := tx.Model(&models.User{}).Where("id = ?", sellerID).
		Update("ledger_seq", gorm.Expr("ledger_seq + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("seller %d not found: %w", sellerID, gorm.ErrRecordNotFound)
	}

	current, err := CurrentBalance(tx, sellerID)
	if err != nil {
		return err
	}

	entry := models.BalanceEntry{
		SellerID:     sellerID,
		InvoiceID:    invoiceID,
		Note:         note,
		ChangeAmount: change,
		BalanceAfter: current + change,
	}
	return tx.Create(&entry).Error
}

// CurrentBalance returns the seller's latest balance-after, 0 if the ledger
// is empty.
func CurrentBalance(db *gorm.DB, sellerID uint) (int64, error) {
	var last models.BalanceEntry
	err := db.Where("seller_id = ?", sellerID).Order("id DESC").First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return last.BalanceAfter, nil
}

// Withdraw debits the seller's balance after validating the configured
// minimum and available funds. Returns ErrBelowMinimum or
// ErrInsufficientFunds without writing anything.
func Withdraw(db *gorm.DB, sellerID uint, amount int64, note string, minimum int64) error {
	if amount < minimum {
		return ErrBelowMinimum
	}
	return db.Transaction(func(tx *gorm.DB) error {
		// Take the per-seller lock before reading the balance so a
		// concurrent withdrawal cannot pass the funds check with the
		// same snapshot.
		res := tx.Model(&models.User{}).Where("id = ?", sellerID).
			Update("ledger_seq", gorm.Expr("ledger_seq + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		current, err := CurrentBalance(tx, sellerID)
		if err != nil {
			return err
		}
		if amount > current {
			return ErrInsufficientFunds
		}

		entry := models.BalanceEntry{
			SellerID:     sellerID,
			Note:         note,
			ChangeAmount: -amount,
			BalanceAfter: current - amount,
		}
		return tx.Create(&entry).Error
	})
}

// GET /seller/balance
func GetBalance(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		sellerID := userIDVal.(uint)

		current, err := CurrentBalance(db, sellerID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch balance"})
			return
		}

		var entries []models.BalanceEntry
		if err := db.Where("seller_id = ?", sellerID).Order("id DESC").Find(&entries).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ledger"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"balance": current,
			"entries": entries,
		})
	}
}

type WithdrawRequest struct {
	Amount int64  `json:"amount" binding:"required,gt=0"`
	Note   string `json:"note"`
}

// POST /seller/balance/withdraw
func WithdrawHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		sellerID := userIDVal.(uint)

		var req WithdrawRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		note := req.Note
		if note == "" {
			note = "Withdrawal"
		}

		err := Withdraw(db, sellerID, req.Amount, note, cfg.MinWithdrawal)
		switch {
		case errors.Is(err, ErrBelowMinimum):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Minimum withdrawal is %d", cfg.MinWithdrawal),
			})
		case errors.Is(err, ErrInsufficientFunds):
			c.JSON(http.StatusConflict, gin.H{"error": "Withdrawal amount exceeds current balance"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process withdrawal"})
		default:
			c.JSON(http.StatusOK, gin.H{"message": "Withdrawal recorded"})
		}
	}
}
