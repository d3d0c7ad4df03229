package cartControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/novendra27/ebook-store-sub000/models"
)

type AddToCartInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// POST /user/cart
// Repeated adds of the same product merge into the existing active line by
// incrementing its quantity; there is never more than one active line per
// (user, product). Stock is not checked here — only checkout reserves stock.
func AddToCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(uint)

		var input AddToCartInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var product models.Product
		if err := db.First(&product, input.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate product"})
			return
		}

		var line models.CartLine
		err := db.Where("user_id = ? AND product_id = ? AND status = ?",
			userID, product.ID, models.CartStatusActive).First(&line).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart line"})
				return
			}
			line = models.CartLine{
				UserID:    userID,
				ProductID: product.ID,
				Quantity:  input.Quantity,
				Status:    models.CartStatusActive,
			}
			if err := db.Create(&line).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
				return
			}
			c.JSON(http.StatusCreated, line)
			return
		}

		line.Quantity += input.Quantity
		if err := db.Save(&line).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart line"})
			return
		}
		c.JSON(http.StatusOK, line)
	}
}

// GET /user/cart
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(uint)

		var lines []models.CartLine
		if err := db.Preload("Product").
			Where("user_id = ? AND status = ?", userID, models.CartStatusActive).
			Order("created_at").
			Find(&lines).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, lines)
	}
}

// DELETE /user/cart/:lineID
// Cancels an active line. Lines are flipped to cancelled, never deleted, so
// a second cancel (or a cancel of someone else's line) is a 404.
func CancelCartLine(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(uint)
		lineID := c.Param("lineID")

		result := db.Model(&models.CartLine{}).
			Where("id = ? AND user_id = ? AND status = ?", lineID, userID, models.CartStatusActive).
			Update("status", models.CartStatusCancelled)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel cart line"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart line not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart line cancelled"})
	}
}
