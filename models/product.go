package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	CategoryID  uint            `gorm:"index;not null" json:"category_id"`
	Category    Category        `gorm:"foreignKey:CategoryID" json:"category"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Description string          `json:"description"`
	Stock       int             `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	IsActive    bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// InStock reports whether any units are left. Advisory only: the
// authoritative check happens inside the checkout transaction.
func (p *Product) InStock() bool {
	return p.Stock > 0
}
