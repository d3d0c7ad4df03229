package productControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/novendra27/ebook-store-sub000/models"
)

// GET /products
// Public catalog: products whose sale window (if any) covers now.
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		var products []models.Product
		if err := db.Preload("Detail").
			Where("(sale_start IS NULL OR sale_start <= ?) AND (sale_end IS NULL OR sale_end >= ?)", now, now).
			Order("created_at DESC").
			Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GET /products/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var product models.Product
		if err := db.Preload("Detail").First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
			}
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// DetailInput states the caller's intent for the optional detail sub-record
// explicitly: "none" detaches it, "set" upserts the payload. Presence or
// absence of individual payload fields carries no meaning on its own.
type DetailInput struct {
	Mode    string         `json:"mode" binding:"required,oneof=none set"`
	Payload *DetailPayload `json:"payload"`
}

type DetailPayload struct {
	Author     string `json:"author"`
	Publisher  string `json:"publisher"`
	ISBN       string `json:"isbn"`
	PageCount  int    `json:"page_count" binding:"omitempty,gte=0"`
	FileFormat string `json:"file_format"`
	FileSizeKB int    `json:"file_size_kb" binding:"omitempty,gte=0"`
}

type ProductInput struct {
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description"`
	Price       int64        `json:"price" binding:"required,gt=0"`
	FakePrice   int64        `json:"fake_price" binding:"omitempty,gte=0"`
	Stock       int          `json:"stock" binding:"gte=0"`
	IsDownload  *bool        `json:"is_download"`
	SaleStart   *time.Time   `json:"sale_start"`
	SaleEnd     *time.Time   `json:"sale_end"`
	Detail      *DetailInput `json:"detail"`
}

// POST /seller/products
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		sellerID := userIDVal.(uint)

		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.Detail != nil && input.Detail.Mode == "set" && input.Detail.Payload == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "detail.payload is required when detail.mode is set"})
			return
		}

		isDownload := true
		if input.IsDownload != nil {
			isDownload = *input.IsDownload
		}

		product := models.Product{
			SellerID:    sellerID,
			Name:        input.Name,
			Description: input.Description,
			Price:       input.Price,
			FakePrice:   input.FakePrice,
			Stock:       input.Stock,
			IsDownload:  isDownload,
			SaleStart:   input.SaleStart,
			SaleEnd:     input.SaleEnd,
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&product).Error; err != nil {
				return err
			}
			if input.Detail != nil && input.Detail.Mode == "set" {
				detail := detailFromPayload(product.ID, input.Detail.Payload)
				if err := tx.Create(&detail).Error; err != nil {
					return err
				}
				product.Detail = &detail
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

// PUT /seller/products/:id
// Omitting the detail field leaves the sub-record untouched; mode "none"
// detaches it; mode "set" upserts the payload.
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		sellerID := userIDVal.(uint)

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.Detail != nil && input.Detail.Mode == "set" && input.Detail.Payload == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "detail.payload is required when detail.mode is set"})
			return
		}

		var product models.Product
		if err := db.Preload("Detail").First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			}
			return
		}
		if product.SellerID != sellerID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not your product"})
			return
		}

		product.Name = input.Name
		product.Description = input.Description
		product.Price = input.Price
		product.FakePrice = input.FakePrice
		product.Stock = input.Stock
		if input.IsDownload != nil {
			product.IsDownload = *input.IsDownload
		}
		product.SaleStart = input.SaleStart
		product.SaleEnd = input.SaleEnd

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Omit("Detail").Save(&product).Error; err != nil {
				return err
			}
			if input.Detail == nil {
				return nil
			}
			switch input.Detail.Mode {
			case "none":
				if err := tx.Where("product_id = ?", product.ID).
					Delete(&models.ProductDetail{}).Error; err != nil {
					return err
				}
				product.Detail = nil
			case "set":
				if product.Detail != nil {
					detail := detailFromPayload(product.ID, input.Detail.Payload)
					detail.ID = product.Detail.ID
					if err := tx.Save(&detail).Error; err != nil {
						return err
					}
					product.Detail = &detail
				} else {
					detail := detailFromPayload(product.ID, input.Detail.Payload)
					if err := tx.Create(&detail).Error; err != nil {
						return err
					}
					product.Detail = &detail
				}
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func detailFromPayload(productID uint, p *DetailPayload) models.ProductDetail {
	return models.ProductDetail{
		ProductID:  productID,
		Author:     p.Author,
		Publisher:  p.Publisher,
		ISBN:       p.ISBN,
		PageCount:  p.PageCount,
		FileFormat: p.FileFormat,
		FileSizeKB: p.FileSizeKB,
	}
}

// GET /seller/products
func GetSellerProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		sellerID := userIDVal.(uint)

		var products []models.Product
		if err := db.Preload("Detail").
			Where("seller_id = ?", sellerID).
			Order("created_at DESC").
			Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}
