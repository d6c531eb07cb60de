package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	accountControllers "github.com/storelabs/storefront-api/controllers/account"
	contactControllers "github.com/storelabs/storefront-api/controllers/contact"
)

func SetupAuthRoutes(r *gin.Engine, db *gorm.DB) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", accountControllers.RegisterHandler(db))
		auth.POST("/login", accountControllers.LoginHandler(db))
	}

	r.POST("/contact", contactControllers.ContactHandler(db))
	r.GET("/about", contactControllers.AboutHandler)
}
