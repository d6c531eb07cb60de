package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/storelabs/storefront-api/controllers/cart"
	"github.com/storelabs/storefront-api/middleware"
)

func SetupCartRoutes(r *gin.Engine, db *gorm.DB) {
	cart := r.Group("/cart")
	cart.Use(middleware.ValidateToken)
	{
		cart.GET("", cartControllers.GetCartHandler(db))
		cart.POST("/items", cartControllers.AddItemHandler(db))
		cart.PUT("/items/:id", cartControllers.UpdateItemHandler(db))
		cart.DELETE("/items/:id", cartControllers.RemoveItemHandler(db))
	}
}
