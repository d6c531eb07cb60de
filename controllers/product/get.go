package productControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/storelabs/storefront-api/apperrors"
	"github.com/storelabs/storefront-api/models"
)

// GET /products/:id
func GetProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apperrors.Respond(c, apperrors.Validation("invalid product id"))
			return
		}

		var product models.Product
		err = db.Preload("Category").
			First(&product, "id = ? AND is_active = ?", productID, true).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperrors.Respond(c, apperrors.NotFound("product"))
			return
		}
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		var related []models.Product
		if err := db.Where("category_id = ? AND is_active = ? AND id <> ?",
			product.CategoryID, true, product.ID).
			Limit(4).
			Find(&related).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"product":          product,
			"related_products": related,
		})
	}
}
