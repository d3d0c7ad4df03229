package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/novendra27/ebook-store-sub000/config"
	balanceControllers "github.com/novendra27/ebook-store-sub000/controllers/balance"
	productControllers "github.com/novendra27/ebook-store-sub000/controllers/product"
	"github.com/novendra27/ebook-store-sub000/middleware"
)

// SetupSellerRoutes registers all "/seller/*" endpoints.
func SetupSellerRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	sellerGroup := r.Group("/seller")
	sellerGroup.Use(middleware.ValidateToken(cfg.JWTSecret), middleware.RequireSeller(db))
	{
		sellerGroup.GET("/products", productControllers.GetSellerProducts(db))
		sellerGroup.POST("/products", productControllers.CreateProduct(db))
		sellerGroup.PUT("/products/:id", productControllers.UpdateProduct(db))

		sellerGroup.GET("/balance", balanceControllers.GetBalance(db))
		sellerGroup.POST("/balance/withdraw", balanceControllers.WithdrawHandler(db, cfg))
	}
}
