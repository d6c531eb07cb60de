package productControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/storelabs/storefront-api/apperrors"
	"github.com/storelabs/storefront-api/models"
)

// GET /
//
// Storefront landing data: a handful of the newest active products and
// categories.
func HomeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var featured []models.Product
		if err := db.Where("is_active = ?", true).
			Order("created_at DESC").
			Limit(6).
			Find(&featured).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		var categories []models.Category
		if err := db.Order("name").Limit(6).Find(&categories).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"featured_products": featured,
			"categories":        categories,
		})
	}
}
