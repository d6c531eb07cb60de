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

// GET /categories
func GetCategoriesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.Category
		if err := db.Order("name").Find(&categories).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// GET /categories/:id/products
func GetCategoryProductsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		categoryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apperrors.Respond(c, apperrors.Validation("invalid category id"))
			return
		}

		var category models.Category
		err = db.First(&category, "id = ?", categoryID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperrors.Respond(c, apperrors.NotFound("category"))
			return
		}
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil || page < 1 {
			page = 1
		}

		query := db.Model(&models.Product{}).
			Where("category_id = ? AND is_active = ?", category.ID, true)

		var total int64
		if err := query.Count(&total).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		var products []models.Product
		if err := query.Order("created_at DESC").
			Limit(productsPerPage).
			Offset((page - 1) * productsPerPage).
			Find(&products).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"category": category,
			"products": products,
			"total":    total,
			"page":     page,
			"pages":    (total + productsPerPage - 1) / productsPerPage,
		})
	}
}
