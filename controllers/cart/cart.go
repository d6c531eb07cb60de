package cartControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storelabs/storefront-api/apperrors"
	"github.com/storelabs/storefront-api/middleware"
	"github.com/storelabs/storefront-api/models"
)

type AddItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type UpdateItemInput struct {
	// Zero (or negative) removes the item; this is the only place a
	// zero quantity is meaningful.
	Quantity int `json:"quantity"`
}

// GetOrCreateCart returns the user's cart with items and products
// loaded, creating an empty cart on first use. A creation race against
// the user_id unique index falls back to the winner's row.
func GetOrCreateCart(db *gorm.DB, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := db.Preload("Items").Preload("Items.Product").
		Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID}
		if createErr := db.Create(&cart).Error; createErr != nil {
			if errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return &cart, db.Preload("Items").Preload("Items.Product").
					Where("user_id = ?", userID).First(&cart).Error
			}
			return nil, createErr
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// lockOrCreateCart returns the user's cart row locked until the
// surrounding transaction ends, which serializes concurrent item
// mutations on the same cart.
func lockOrCreateCart(tx *gorm.DB, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID}
		if createErr := tx.Create(&cart).Error; createErr != nil {
			if errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return &cart, tx.Clauses(clause.Locking{Strength: "UPDATE"}).
					Where("user_id = ?", userID).First(&cart).Error
			}
			return nil, createErr
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// lockCart locks the user's existing cart row until the surrounding
// transaction ends. Unlike lockOrCreateCart it never creates one:
// mutating an item in a cart that does not exist is a miss.
func lockCart(tx *gorm.DB, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem puts quantity units of a product into the user's cart. An
// existing line for the same product accumulates; quantities are never
// replaced here. Stock is not enforced at add time — checkout is the
// authoritative gate — but the returned flag warns when the cart now
// asks for more than is available.
func AddItem(db *gorm.DB, userID string, productID uint, quantity int) (*models.CartItem, bool, error) {
	if quantity < 1 {
		return nil, false, apperrors.Validation("quantity must be at least 1")
	}

	var product models.Product
	if err := db.First(&product, "id = ? AND is_active = ?", productID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, apperrors.NotFound("product")
		}
		return nil, false, err
	}

	var item models.CartItem
	err := db.Transaction(func(tx *gorm.DB) error {
		cart, err := lockOrCreateCart(tx, userID)
		if err != nil {
			return err
		}

		err = tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).
			First(&item).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: quantity}
			return tx.Create(&item).Error
		case err != nil:
			return err
		default:
			item.Quantity += quantity
			return tx.Model(&item).Update("quantity", item.Quantity).Error
		}
	})
	if err != nil {
		return nil, false, err
	}

	item.Product = product
	return &item, item.Quantity > product.Stock, nil
}

// UpdateItemQuantity sets the quantity of one of the user's cart items.
// A quantity of zero or less deletes the item instead; the returned item
// is nil in that case. The cart row stays locked for the duration so the
// write cannot interleave with a concurrent add on the same item.
func UpdateItemQuantity(db *gorm.DB, userID string, itemID uint, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	removed := false
	err := db.Transaction(func(tx *gorm.DB) error {
		cart, err := lockCart(tx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("cart item")
		}
		if err != nil {
			return err
		}

		err = tx.Where("id = ? AND cart_id = ?", itemID, cart.ID).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("cart item")
		}
		if err != nil {
			return err
		}

		if quantity <= 0 {
			removed = true
			return tx.Delete(&models.CartItem{}, item.ID).Error
		}
		item.Quantity = quantity
		return tx.Model(&item).Update("quantity", quantity).Error
	})
	if err != nil {
		return nil, err
	}
	if removed {
		return nil, nil
	}
	return &item, nil
}

// RemoveItem deletes one of the user's cart items unconditionally, under
// the same cart lock the other item mutations take.
func RemoveItem(db *gorm.DB, userID string, itemID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		cart, err := lockCart(tx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("cart item")
		}
		if err != nil {
			return err
		}

		var item models.CartItem
		err = tx.Where("id = ? AND cart_id = ?", itemID, cart.ID).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("cart item")
		}
		if err != nil {
			return err
		}
		return tx.Delete(&models.CartItem{}, item.ID).Error
	})
}

// GET /cart
func GetCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		cart, err := GetOrCreateCart(db, userID)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"items":       cart.Items,
			"total_price": cart.TotalPrice(),
			"item_count":  cart.ItemCount(),
		})
	}
}

// POST /cart/items
func AddItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.Validation("invalid input: "+err.Error()))
			return
		}

		item, stockWarning, err := AddItem(db, userID, input.ProductID, input.Quantity)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"item": item, "stock_warning": stockWarning})
	}
}

// PUT /cart/items/:id
func UpdateItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apperrors.Respond(c, apperrors.Validation("invalid item id"))
			return
		}

		var input UpdateItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apperrors.Respond(c, apperrors.Validation("invalid input: "+err.Error()))
			return
		}

		item, err := UpdateItemQuantity(db, userID, uint(itemID), input.Quantity)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		if item == nil {
			c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// DELETE /cart/items/:id
func RemoveItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apperrors.Respond(c, apperrors.Validation("invalid item id"))
			return
		}

		if err := RemoveItem(db, userID, uint(itemID)); err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
	}
}
