package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	productControllers "github.com/storelabs/storefront-api/controllers/product"
	"github.com/storelabs/storefront-api/middleware"
)

func SetupCatalogRoutes(r *gin.Engine, db *gorm.DB) {
	r.GET("/", productControllers.HomeHandler(db))

	products := r.Group("/products")
	{
		products.GET("", productControllers.GetProductsHandler(db))
		products.GET("/:id", productControllers.GetProductHandler(db))
		products.POST("/:id/restock", middleware.ValidateAPIKey, productControllers.RestockHandler(db))
	}

	categories := r.Group("/categories")
	{
		categories.GET("", productControllers.GetCategoriesHandler(db))
		categories.GET("/:id/products", productControllers.GetCategoryProductsHandler(db))
	}
}
