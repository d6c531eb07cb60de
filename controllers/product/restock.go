package productControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/storelabs/storefront-api/apperrors"
	"github.com/storelabs/storefront-api/models"
)

type RestockInput struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// POST /products/:id/restock (admin)
//
// The only stock mutation besides the checkout decrement.
func RestockHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apperrors.Respond(c, apperrors.Validation("invalid product id"))
			return
		}

		var input RestockInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.Validation("invalid input: "+err.Error()))
			return
		}

		result := db.Model(&models.Product{}).Where("id = ?", productID).
			Update("stock", gorm.Expr("stock + ?", input.Quantity))
		if result.Error != nil {
			apperrors.Respond(c, result.Error)
			return
		}
		if result.RowsAffected == 0 {
			apperrors.Respond(c, apperrors.NotFound("product"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Stock updated"})
	}
}
