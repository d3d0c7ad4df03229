package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/novendra27/ebook-store-sub000/config"
	paymentControllers "github.com/novendra27/ebook-store-sub000/controllers/payment"
	"github.com/novendra27/ebook-store-sub000/middleware"
)

// SetupPaymentRoutes registers the gateway-facing webhook endpoint.
func SetupPaymentRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	payment := r.Group("/payment")
	{
		payment.POST("/gateway/callback",
			middleware.VerifyCallbackToken(cfg.Gateway.CallbackToken),
			paymentControllers.GatewayCallback(db),
		)
	}
}
