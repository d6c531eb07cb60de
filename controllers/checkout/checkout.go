// Package checkoutControllers implements the cart-to-order transition.
// The whole conversion — order creation, line-item snapshotting, stock
// decrement, cart deletion — runs inside one database transaction, so a
// failed checkout leaves no partial state behind.
package checkoutControllers

import (
	"errors"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storelabs/storefront-api/apperrors"
	orderControllers "github.com/storelabs/storefront-api/controllers/order"
	"github.com/storelabs/storefront-api/middleware"
	"github.com/storelabs/storefront-api/models"
)

type ShippingInfo struct {
	ShippingAddress string `json:"shipping_address" binding:"required"`
	ShippingCity    string `json:"shipping_city" binding:"required"`
	ShippingState   string `json:"shipping_state" binding:"required"`
	ShippingZipCode string `json:"shipping_zip_code" binding:"required,max=10"`
	ShippingCountry string `json:"shipping_country" binding:"required"`
	PhoneNumber     string `json:"phone_number" binding:"required,max=15"`
}

// Checkout converts the user's cart into an order.
//
// Inside a single transaction it locks the cart row, re-reads its items,
// locks every product row in id order, verifies stock covers each line
// (rejecting the whole checkout otherwise), snapshots name and price
// into order items, reserves a unique order number, decrements stock and
// deletes the cart. The returned order has status pending and a total
// equal to the sum of its line totals at current product prices.
func Checkout(db *gorm.DB, userID string, info ShippingInfo) (*models.Order, error) {
	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		// The cart lock serializes checkouts and item mutations on the
		// same cart. A cart another checkout already consumed has no row
		// left to lock, so a stale request cannot re-order its contents.
		var cart models.Cart
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrEmptyCart
		}
		if err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", cart.ID).Find(&cart.Items).Error; err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return apperrors.ErrEmptyCart
		}

		// canonical lock order: checkouts sharing products cannot
		// deadlock on each other's product locks
		sort.Slice(cart.Items, func(i, j int) bool {
			return cart.Items[i].ProductID < cart.Items[j].ProductID
		})

		total := decimal.Zero
		var short []string
		orderItems := make([]models.OrderItem, 0, len(cart.Items))

		for _, item := range cart.Items {
			var product models.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, "id = ?", item.ProductID).Error; err != nil {
				return err
			}

			if product.Stock < item.Quantity {
				short = append(short, product.Name)
				continue
			}

			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			orderItems = append(orderItems, models.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				Price:       product.Price,
				Quantity:    item.Quantity,
			})
		}
		if len(short) > 0 {
			return apperrors.InsufficientStock(short)
		}

		number, err := reserveOrderNumber(tx)
		if err != nil {
			return err
		}

		order = models.Order{
			UserID:          userID,
			OrderNumber:     number,
			Status:          models.OrderStatusPending,
			TotalAmount:     total,
			ShippingAddress: info.ShippingAddress,
			ShippingCity:    info.ShippingCity,
			ShippingState:   info.ShippingState,
			ShippingZipCode: info.ShippingZipCode,
			ShippingCountry: info.ShippingCountry,
			PhoneNumber:     info.PhoneNumber,
			Items:           orderItems,
		}
		if err := tx.Create(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// lost the order-number race to a concurrent checkout
				return apperrors.ErrOrderNumberConflict
			}
			return err
		}

		for _, item := range cart.Items {
			if err := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).
				Update("stock", gorm.Expr("stock - ?", item.Quantity)).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Cart{}, cart.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// POST /checkout
func CheckoutHandler(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var info ShippingInfo
		if err := c.ShouldBindJSON(&info); err != nil {
			apperrors.Respond(c, apperrors.Validation("invalid shipping details: "+err.Error()))
			return
		}

		order, err := Checkout(db, userID, info)
		if err != nil {
			logger.Warn("checkout failed",
				zap.String("user_id", userID),
				zap.Error(err))
			apperrors.Respond(c, err)
			return
		}

		logger.Info("order placed",
			zap.String("user_id", userID),
			zap.String("order_number", order.OrderNumber),
			zap.String("total_amount", order.TotalAmount.StringFixed(2)))
		orderControllers.BroadcastNewOrder(*order)

		c.JSON(http.StatusCreated, order)
	}
}
