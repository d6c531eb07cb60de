package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"    // placed, awaiting confirmation
	OrderStatusProcessing OrderStatus = "processing" // confirmed, being prepared
	OrderStatusShipped    OrderStatus = "shipped"    // out for delivery
	OrderStatusDelivered  OrderStatus = "delivered"  // customer received the order
	OrderStatusCancelled  OrderStatus = "cancelled"  // cancelled before delivery
)

// statusTransitions holds the allowed next states. Delivered and
// cancelled are terminal.
var statusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// ParseOrderStatus maps a request string to a known status.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch status := OrderStatus(strings.ToLower(s)); status {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return status, nil
	default:
		return "", errors.New("invalid order status")
	}
}

// CanTransitionTo reports whether the status may move to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Order struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      string          `gorm:"index;not null" json:"user_id"`
	OrderNumber string          `gorm:"type:char(10);uniqueIndex;not null" json:"order_number"`
	Status      OrderStatus     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`

	ShippingAddress string `gorm:"not null" json:"shipping_address"`
	ShippingCity    string `gorm:"not null" json:"shipping_city"`
	ShippingState   string `gorm:"not null" json:"shipping_state"`
	ShippingZipCode string `gorm:"not null" json:"shipping_zip_code"`
	ShippingCountry string `gorm:"not null" json:"shipping_country"`
	PhoneNumber     string `gorm:"not null" json:"phone_number"`

	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// OrderItem snapshots the product name and price as they were at order
// time, so later catalog edits never rewrite order history. ProductID is
// kept only as a soft reference for display.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     uint            `gorm:"index;not null" json:"order_id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `gorm:"not null" json:"product_name"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity    int             `gorm:"not null" json:"quantity"`
}

// LineTotal is the snapshotted price times quantity.
func (oi *OrderItem) LineTotal() decimal.Decimal {
	return oi.Price.Mul(decimal.NewFromInt(int64(oi.Quantity)))
}
