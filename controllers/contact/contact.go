package contactControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/storelabs/storefront-api/apperrors"
	"github.com/storelabs/storefront-api/models"
)

type ContactInput struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required,max=200"`
	Message string `json:"message" binding:"required"`
}

// POST /contact
func ContactHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ContactInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.Validation("invalid input: "+err.Error()))
			return
		}

		message := models.ContactMessage{
			Name:    input.Name,
			Email:   input.Email,
			Subject: input.Subject,
			Message: input.Message,
		}
		if err := db.Create(&message).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Thank you for your message! We will get back to you soon.",
		})
	}
}

// GET /about
func AboutHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "ShopHub",
		"description": "A conventional storefront: browse the catalog, fill a cart, check out.",
	})
}
