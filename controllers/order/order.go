package orderControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/storelabs/storefront-api/apperrors"
	"github.com/storelabs/storefront-api/middleware"
	"github.com/storelabs/storefront-api/models"
)

const ordersPerPage = 10

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// GET /orders
func ListOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil || page < 1 {
			page = 1
		}

		var total int64
		if err := db.Model(&models.Order{}).
			Where("user_id = ?", userID).Count(&total).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		var orders []models.Order
		if err := db.Preload("Items").
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Limit(ordersPerPage).
			Offset((page - 1) * ordersPerPage).
			Find(&orders).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"orders": orders,
			"total":  total,
			"page":   page,
			"pages":  (total + ordersPerPage - 1) / ordersPerPage,
		})
	}
}

// GET /orders/:id
func GetOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apperrors.Respond(c, apperrors.Validation("invalid order id"))
			return
		}

		var order models.Order
		err = db.Preload("Items").
			Where("id = ? AND user_id = ?", orderID, userID).
			First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperrors.Respond(c, apperrors.NotFound("order"))
			return
		}
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// PUT /orders/:id/status (admin)
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apperrors.Respond(c, apperrors.Validation("invalid order id"))
			return
		}

		var input UpdateStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.Validation("invalid input: "+err.Error()))
			return
		}
		newStatus, err := models.ParseOrderStatus(input.Status)
		if err != nil {
			apperrors.Respond(c, apperrors.Validation(err.Error()))
			return
		}

		var order models.Order
		err = db.First(&order, "id = ?", orderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperrors.Respond(c, apperrors.NotFound("order"))
			return
		}
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		if !order.Status.CanTransitionTo(newStatus) {
			apperrors.Respond(c, apperrors.Validation(
				"cannot transition order from "+string(order.Status)+" to "+string(newStatus)))
			return
		}

		if err := db.Model(&order).Update("status", newStatus).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
	}
}
