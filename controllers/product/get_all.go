package productControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storelabs/storefront-api/apperrors"
	"github.com/storelabs/storefront-api/models"
)

const productsPerPage = 12

// GET /products
//
// Active products with optional search (name/description), category
// name filter and price range, paginated.
func GetProductsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		search := c.Query("search")
		category := c.Query("category")
		minPriceStr := c.Query("min_price")
		maxPriceStr := c.Query("max_price")

		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil || page < 1 {
			page = 1
		}

		query := db.Model(&models.Product{}).Where("is_active = ?", true)

		if search != "" {
			likePattern := "%" + search + "%"
			query = query.Where("name ILIKE ? OR description ILIKE ?", likePattern, likePattern)
		}
		if category != "" {
			query = query.
				Joins("JOIN categories ON categories.id = products.category_id").
				Where("categories.name = ?", category)
		}
		if minPriceStr != "" {
			minPrice, err := decimal.NewFromString(minPriceStr)
			if err != nil || minPrice.IsNegative() {
				apperrors.Respond(c, apperrors.Validation("invalid min_price"))
				return
			}
			query = query.Where("price >= ?", minPrice)
		}
		if maxPriceStr != "" {
			maxPrice, err := decimal.NewFromString(maxPriceStr)
			if err != nil || maxPrice.IsNegative() {
				apperrors.Respond(c, apperrors.Validation("invalid max_price"))
				return
			}
			query = query.Where("price <= ?", maxPrice)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		var products []models.Product
		if err := query.Preload("Category").
			Order("created_at DESC").
			Limit(productsPerPage).
			Offset((page - 1) * productsPerPage).
			Find(&products).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"products": products,
			"total":    total,
			"page":     page,
			"pages":    (total + productsPerPage - 1) / productsPerPage,
		})
	}
}
