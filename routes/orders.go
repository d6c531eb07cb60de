package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	checkoutControllers "github.com/storelabs/storefront-api/controllers/checkout"
	orderControllers "github.com/storelabs/storefront-api/controllers/order"
	"github.com/storelabs/storefront-api/middleware"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB, logger *zap.Logger) {
	r.POST("/checkout", middleware.ValidateToken, checkoutControllers.CheckoutHandler(db, logger))

	orders := r.Group("/orders")
	{
		orders.GET("", middleware.ValidateToken, orderControllers.ListOrdersHandler(db))
		orders.GET("/:id", middleware.ValidateToken, orderControllers.GetOrderHandler(db))

		orders.PUT("/:id/status", middleware.ValidateAPIKey, orderControllers.UpdateOrderStatusHandler(db))
		orders.GET("/ws", middleware.ValidateAPIKey, orderControllers.OrderFeedHandler)
	}
}
