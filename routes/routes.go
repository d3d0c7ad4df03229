package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/novendra27/ebook-store-sub000/config"
	checkoutControllers "github.com/novendra27/ebook-store-sub000/controllers/checkout"
	productControllers "github.com/novendra27/ebook-store-sub000/controllers/product"
)

// SetupRoutes is the single entry point that wires up the public catalog,
// buyer, seller, and gateway route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, gw checkoutControllers.HostedInvoiceCreator, cfg *config.Config) {
	// Public catalog (no auth)
	r.GET("/products", productControllers.GetProducts(db))
	r.GET("/products/:id", productControllers.GetProductByID(db))

	// Buyer routes (JWT-protected)
	SetupUserRoutes(r, db, gw, cfg)

	// Seller routes (JWT + seller gate)
	SetupSellerRoutes(r, db, cfg)

	// Gateway webhook (shared-secret token)
	SetupPaymentRoutes(r, db, cfg)
}
