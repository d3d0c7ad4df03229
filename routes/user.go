package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/novendra27/ebook-store-sub000/config"
	cartControllers "github.com/novendra27/ebook-store-sub000/controllers/cart"
	checkoutControllers "github.com/novendra27/ebook-store-sub000/controllers/checkout"
	invoiceControllers "github.com/novendra27/ebook-store-sub000/controllers/invoice"
	"github.com/novendra27/ebook-store-sub000/middleware"
)

// SetupUserRoutes registers all "/user/*" endpoints.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB, gw checkoutControllers.HostedInvoiceCreator, cfg *config.Config) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken(cfg.JWTSecret))
	{
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetCart(db))                  // GET /user/cart
			cartGroup.POST("/", cartControllers.AddToCart(db))               // POST /user/cart
			cartGroup.DELETE("/:lineID", cartControllers.CancelCartLine(db)) // DELETE /user/cart/:lineID
		}

		userGroup.POST("/checkout", checkoutControllers.CheckoutHandler(db, gw, cfg))

		userGroup.GET("/invoices", invoiceControllers.ListInvoices(db))
		userGroup.GET("/invoices/:code", invoiceControllers.GetInvoice(db))
		userGroup.GET("/invoices/:code/download", invoiceControllers.GetDownloads(db))
	}
}
